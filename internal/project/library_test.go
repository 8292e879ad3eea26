package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
)

func sampleProject(name string) model.Project {
	p := model.NewProject(name)
	m := model.NewMaterial("Plywood", 96, 48)
	p.AddMaterial(m)
	p.AddPiece(model.NewCutPiece("Side", 30, 12, m.ID, 2))
	return p
}

func TestLibraryEmpty(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	projects, err := lib.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected empty library, got %d projects", len(projects))
	}
	if _, ok, err := lib.Current(); err != nil || ok {
		t.Errorf("expected no current project, got ok=%v err=%v", ok, err)
	}
}

func TestLibrarySaveAndReload(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir)
	p := sampleProject("Bookshelf")

	if err := lib.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "projects.json")); err != nil {
		t.Fatalf("projects.json not written: %v", err)
	}

	reloaded := NewLibrary(dir)
	got, err := reloaded.Get(p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Bookshelf" || len(got.Pieces) != 1 || len(got.Materials) != 1 {
		t.Errorf("unexpected project after reload: %+v", got)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("CreatedAt not preserved: %v vs %v", got.CreatedAt, p.CreatedAt)
	}
}

func TestLibrarySaveUpdatesInsteadOfDuplicating(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	p := sampleProject("Desk")
	if err := lib.Save(p); err != nil {
		t.Fatal(err)
	}
	p.Name = "Standing desk"
	if err := lib.Save(p); err != nil {
		t.Fatal(err)
	}

	projects, _ := lib.List()
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].Name != "Standing desk" {
		t.Errorf("expected updated name, got %q", projects[0].Name)
	}
}

func TestLibraryReturnsCopies(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	p := sampleProject("Copy")
	if err := lib.Save(p); err != nil {
		t.Fatal(err)
	}

	got, _ := lib.Get(p.ID)
	got.Pieces[0].Name = "Mutated"
	again, _ := lib.Get(p.ID)
	if again.Pieces[0].Name != "Side" {
		t.Error("mutating a returned project changed the library")
	}
}

func TestLibraryCreateSetsCurrent(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir)
	p, err := lib.Create("Workbench")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cur, ok, err := NewLibrary(dir).Current()
	if err != nil || !ok {
		t.Fatalf("expected current project after reload, ok=%v err=%v", ok, err)
	}
	if cur.ID != p.ID {
		t.Errorf("expected current %s, got %s", p.ID, cur.ID)
	}
}

func TestLibraryDelete(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	a, _ := lib.Create("A")
	b, _ := lib.Create("B")

	if err := lib.Delete(b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := lib.Get(b.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
	if _, ok, _ := lib.Current(); ok {
		t.Error("deleting the current project should clear current")
	}
	if err := lib.Delete(b.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound on second delete, got %v", err)
	}
	if _, err := lib.Get(a.ID); err != nil {
		t.Errorf("other project should remain: %v", err)
	}
}

func TestLibrarySetCurrentUnknown(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	if err := lib.SetCurrent("nope"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestLibraryOpen(t *testing.T) {
	t.Run("creates first project when none exist", func(t *testing.T) {
		lib := NewLibrary(t.TempDir())
		p, err := lib.Open()
		if err != nil {
			t.Fatal(err)
		}
		if p.Name != "New Project" {
			t.Errorf("expected default project, got %q", p.Name)
		}
		projects, _ := lib.List()
		if len(projects) != 1 {
			t.Errorf("expected the new project to be saved")
		}
	})

	t.Run("loads current project", func(t *testing.T) {
		lib := NewLibrary(t.TempDir())
		_ = lib.Save(sampleProject("First"))
		second := sampleProject("Second")
		_ = lib.Save(second)
		_ = lib.SetCurrent(second.ID)

		p, err := lib.Open()
		if err != nil {
			t.Fatal(err)
		}
		if p.ID != second.ID {
			t.Errorf("expected current project %q, got %q", second.Name, p.Name)
		}
	})

	t.Run("falls back to first project", func(t *testing.T) {
		lib := NewLibrary(t.TempDir())
		first := sampleProject("First")
		_ = lib.Save(first)
		_ = lib.Save(sampleProject("Second"))

		p, err := lib.Open()
		if err != nil {
			t.Fatal(err)
		}
		if p.ID != first.ID {
			t.Errorf("expected first project, got %q", p.Name)
		}
		if cur, ok, _ := lib.Current(); !ok || cur.ID != first.ID {
			t.Error("expected first project to become current")
		}
	})
}

func TestLibraryCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "projects.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLibrary(dir).List(); err == nil {
		t.Fatal("expected error for corrupt projects file")
	}
}

func TestLibraryConcurrentSaves(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lib.Save(model.NewProject(""))
			_, _ = lib.List()
		}()
	}
	wg.Wait()

	projects, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 10 {
		t.Errorf("expected 10 projects, got %d", len(projects))
	}
}

func TestLibraryConcurrentOpenCreatesOneProject(t *testing.T) {
	lib := NewLibrary(t.TempDir())
	ids := make([]string, 32)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := lib.Open()
			if err != nil {
				t.Error(err)
				return
			}
			ids[i] = p.ID
		}(i)
	}
	wg.Wait()

	projects, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected one project, got %d", len(projects))
	}
	for _, id := range ids {
		if id != projects[0].ID {
			t.Errorf("Open returned %q, want %q", id, projects[0].ID)
		}
	}
}

// blockProjectsFile turns projects.json into a directory so later writes fail.
func blockProjectsFile(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "projects.json")
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func TestLibraryFailedWriteKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir)
	first := sampleProject("First")
	if err := lib.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := lib.SetCurrent(first.ID); err != nil {
		t.Fatal(err)
	}
	blockProjectsFile(t, dir)

	renamed := first
	renamed.Name = "Renamed"
	if err := lib.Save(renamed); err == nil {
		t.Error("expected Save to fail")
	}
	if err := lib.Save(sampleProject("Second")); err == nil {
		t.Error("expected Save of a new project to fail")
	}
	if err := lib.Delete(first.ID); err == nil {
		t.Error("expected Delete to fail")
	}
	if err := lib.Replace([]model.Project{sampleProject("Other")}, ""); err == nil {
		t.Error("expected Replace to fail")
	}

	projects, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].ID != first.ID || projects[0].Name != "First" {
		t.Errorf("library changed after failed writes: %+v", projects)
	}
	if cur, ok, _ := lib.Current(); !ok || cur.ID != first.ID {
		t.Error("current project changed after failed writes")
	}
}

func TestExportImportProject(t *testing.T) {
	p := sampleProject("Round trip")
	data, err := ExportProject(p)
	if err != nil {
		t.Fatalf("ExportProject failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"name\": \"Round trip\"") {
		t.Errorf("expected indented JSON, got %s", data)
	}

	got, err := ImportProject(data)
	if err != nil {
		t.Fatalf("ImportProject failed: %v", err)
	}
	if got.ID != p.ID || got.Pieces[0].MaterialID != p.Materials[0].ID {
		t.Errorf("round trip lost data: %+v", got)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("UpdatedAt not preserved")
	}
}

func TestImportProjectInvalid(t *testing.T) {
	if _, err := ImportProject([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := ImportProject([]byte(`{"name":"no id"}`)); err == nil {
		t.Error("expected error for missing id")
	}

	p, err := ImportProject([]byte(`{"id":"x","name":"bare"}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Materials == nil || p.Pieces == nil {
		t.Error("expected nil slices to be normalized")
	}
}

func TestDefaultDataDir(t *testing.T) {
	if filepath.Base(DefaultDataDir()) != ".panelcut" {
		t.Errorf("expected .panelcut directory, got %s", DefaultDataDir())
	}
}

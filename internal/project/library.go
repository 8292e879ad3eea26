package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ErrProjectNotFound is returned when no project has the requested id.
var ErrProjectNotFound = errors.New("project not found")

type currentPointer struct {
	ProjectID string `json:"projectId"`
}

// Library stores projects in projects.json and the id of the current
// project in current.json. Files are read on first use; a missing file
// means an empty library. It is safe for concurrent use.
type Library struct {
	dir string

	mu        sync.RWMutex
	loaded    bool
	projects  []model.Project
	currentID string
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the directory the library persists to.
func (l *Library) Dir() string {
	return l.dir
}

func (l *Library) load() error {
	if l.loaded {
		return nil
	}

	projects := []model.Project{}
	data, err := os.ReadFile(filepath.Join(l.dir, projectsFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read projects: %w", err)
	default:
		if err := json.Unmarshal(data, &projects); err != nil {
			return fmt.Errorf("failed to parse projects: %w", err)
		}
		for i := range projects {
			normalize(&projects[i])
		}
	}

	var cur currentPointer
	data, err = os.ReadFile(filepath.Join(l.dir, currentFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read current project: %w", err)
	default:
		if err := json.Unmarshal(data, &cur); err != nil {
			return fmt.Errorf("failed to parse current project: %w", err)
		}
	}

	l.projects = projects
	l.currentID = cur.ProjectID
	l.loaded = true
	return nil
}

func (l *Library) ensureLoaded() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// commitProjects writes projects and only then installs them in memory.
func (l *Library) commitProjects(projects []model.Project) error {
	if err := writeJSON(filepath.Join(l.dir, projectsFile), projects); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	l.projects = projects
	return nil
}

func (l *Library) commitCurrent(id string) error {
	if err := writeJSON(filepath.Join(l.dir, currentFile), currentPointer{ProjectID: id}); err != nil {
		return fmt.Errorf("failed to save current project: %w", err)
	}
	l.currentID = id
	return nil
}

func (l *Library) index(id string) int {
	return indexOf(l.projects, id)
}

func indexOf(projects []model.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// List returns a copy of all saved projects in save order.
func (l *Library) List() ([]model.Project, error) {
	if err := l.ensureLoaded(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Project, len(l.projects))
	for i, p := range l.projects {
		out[i] = clone(p)
	}
	return out, nil
}

func (l *Library) Get(id string) (model.Project, error) {
	if err := l.ensureLoaded(); err != nil {
		return model.Project{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.index(id)
	if i < 0 {
		return model.Project{}, fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	return clone(l.projects[i]), nil
}

// Save inserts p or replaces the saved project with the same id.
func (l *Library) Save(p model.Project) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(); err != nil {
		return err
	}
	return l.save(p)
}

func (l *Library) save(p model.Project) error {
	next := make([]model.Project, len(l.projects), len(l.projects)+1)
	copy(next, l.projects)
	p = clone(p)
	if i := l.index(p.ID); i >= 0 {
		next[i] = p
	} else {
		next = append(next, p)
	}
	return l.commitProjects(next)
}

// Create starts a new project, saves it and makes it current.
func (l *Library) Create(name string) (model.Project, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(); err != nil {
		return model.Project{}, err
	}
	return l.create(name)
}

func (l *Library) create(name string) (model.Project, error) {
	p := model.NewProject(name)
	if err := l.save(p); err != nil {
		return model.Project{}, err
	}
	if err := l.commitCurrent(p.ID); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// Delete removes a project. Deleting the current project clears the
// current pointer.
func (l *Library) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(); err != nil {
		return err
	}
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	next := make([]model.Project, 0, len(l.projects)-1)
	next = append(next, l.projects[:i]...)
	next = append(next, l.projects[i+1:]...)
	if err := l.commitProjects(next); err != nil {
		return err
	}
	if l.currentID == id {
		return l.commitCurrent("")
	}
	return nil
}

// SetCurrent records id as the current project. The project must exist.
func (l *Library) SetCurrent(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(); err != nil {
		return err
	}
	if l.index(id) < 0 {
		return fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	return l.commitCurrent(id)
}

// Current returns the current project, if one is set and still exists.
func (l *Library) Current() (model.Project, bool, error) {
	if err := l.ensureLoaded(); err != nil {
		return model.Project{}, false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(l.currentID); l.currentID != "" && i >= 0 {
		return clone(l.projects[i]), true, nil
	}
	return model.Project{}, false, nil
}

// Open returns the project to work on at startup: the current project if
// set, else the first saved project, else a newly created one. The result
// becomes current.
func (l *Library) Open() (model.Project, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(); err != nil {
		return model.Project{}, err
	}
	if i := l.index(l.currentID); l.currentID != "" && i >= 0 {
		return clone(l.projects[i]), nil
	}
	if len(l.projects) == 0 {
		return l.create("")
	}
	first := l.projects[0]
	if err := l.commitCurrent(first.ID); err != nil {
		return model.Project{}, err
	}
	return clone(first), nil
}

// Replace swaps the whole library content, as when restoring a backup.
// An unknown currentID is dropped.
func (l *Library) Replace(projects []model.Project, currentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]model.Project, len(projects))
	for i, p := range projects {
		next[i] = clone(p)
	}
	if indexOf(next, currentID) < 0 {
		currentID = ""
	}
	if err := l.commitProjects(next); err != nil {
		return err
	}
	l.loaded = true
	return l.commitCurrent(currentID)
}

// clone copies p so callers never share slice storage with the library.
func clone(p model.Project) model.Project {
	p.Materials = append([]model.Material{}, p.Materials...)
	p.Pieces = append([]model.CutPiece{}, p.Pieces...)
	return p
}

// normalize replaces nil slices so saved projects always encode arrays.
func normalize(p *model.Project) {
	if p.Materials == nil {
		p.Materials = []model.Material{}
	}
	if p.Pieces == nil {
		p.Pieces = []model.CutPiece{}
	}
}

// ExportProject encodes a single project as indented JSON.
func ExportProject(p model.Project) ([]byte, error) {
	normalize(&p)
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return data, nil
}

// ImportProject decodes a project exported by ExportProject.
func ImportProject(data []byte) (model.Project, error) {
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.ID == "" {
		return model.Project{}, fmt.Errorf("invalid project file: missing id")
	}
	normalize(&p)
	return p, nil
}

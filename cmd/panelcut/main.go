// PanelCut - Sheet Goods Cut List Optimizer
//
// Lays out rectangular pieces on stock sheets with guillotine cuts and
// renders the result as PDF, labels, DXF, Excel or an HTML waste chart.
//
// Usage:
//
//	panelcut layout  [-config f] [-project p.json] [-pdf f] [-labels f] [-dxf f] [-xlsx f] [-chart f] [-parallel]
//	panelcut serve   [-config f]
//	panelcut backup  [-config f] -out f
//	panelcut restore [-config f] -in f
//	panelcut import  [-config f] [-project id] [-unit u] [-material id] -in f
//	panelcut catalog [-config f] [-import f] [-remove id]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/piwi3910/PanelCut/internal/config"
	"github.com/piwi3910/PanelCut/internal/project"
	"github.com/piwi3910/PanelCut/internal/server"
)

const usage = `usage: panelcut <command> [flags]

commands:
  layout    calculate a layout for a project file or the current project
  serve     run the HTTP API
  backup    write all projects and the material catalog to a file
  restore   replace all projects from a backup file and merge its catalog
  import    add pieces from a CSV or Excel cut list to a project
  catalog   list, import or remove material presets
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "layout":
		err = runLayout(args)
	case "serve":
		err = runServe(args)
	case "backup":
		err = runBackup(args)
	case "restore":
		err = runRestore(args)
	case "import":
		err = runImport(args)
	case "catalog":
		err = runCatalog(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "panelcut:", err)
		os.Exit(1)
	}
}

// env is what every command starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	lib    *project.Library
}

func setup(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return &env{cfg: cfg, logger: logger, lib: project.NewLibrary(cfg.Storage.DataDir)}, nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	e, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	srv, err := server.New(e.cfg, e.lib, e.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		e.logger.Error("Server stopped", zap.Error(err))
		return err
	}
	e.logger.Info("Server exited")
	return nil
}

func runBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	out := fs.String("out", "", "backup file to write")
	fs.Parse(args)
	if *out == "" {
		return fmt.Errorf("-out is required")
	}

	e, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	catalog, err := project.LoadCatalog(project.CatalogPath(e.lib.Dir()))
	if err != nil {
		return err
	}
	if err := e.lib.Backup(*out, &catalog); err != nil {
		return err
	}
	e.logger.Info("Backup written", zap.String("path", *out))
	return nil
}

func runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	in := fs.String("in", "", "backup file to read")
	fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	e, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	backup, err := e.lib.Restore(*in)
	if err != nil {
		return err
	}
	if backup.Catalog != nil {
		if _, err := project.MergeCatalogFile(project.CatalogPath(e.lib.Dir()), *backup.Catalog); err != nil {
			return err
		}
	}
	e.logger.Info("Backup restored",
		zap.String("path", *in),
		zap.String("version", backup.Version),
		zap.Int("projects", len(backup.Projects)),
	)
	return nil
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Joseda-hg/studentguide/internal/alert"
	"github.com/Joseda-hg/studentguide/internal/config"
	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/store"
	"github.com/Joseda-hg/studentguide/internal/syllabus"
	"github.com/Joseda-hg/studentguide/internal/tui"
	"github.com/Joseda-hg/studentguide/internal/users"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	dataDirFlag := flag.String("data", "", "data directory")
	backendFlag := flag.String("backend", "", "storage backend (json or sqlite)")
	flag.Parse()

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}
	cfg.Resolve(cfgPath)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal(err)
	}
	appLog, err := logger.New(cfg.LogMode, filepath.Join(cfg.DataDir, "studentguide.log"))
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Sync()

	if err := run(cfg, appLog); err != nil {
		appLog.Error("exit", "error", err)
		fmt.Fprintln(os.Stderr, err)
		appLog.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, appLog *logger.Logger) error {
	ctx := context.Background()

	backend, db, err := openBackend(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	stores, err := store.OpenAll(ctx, backend, appLog)
	if err != nil {
		return err
	}
	directory := users.NewDirectory(stores.Users, appLog)
	if err := directory.EnsureDefault(ctx); err != nil {
		return err
	}
	appLog.Info("starting", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	return tui.Run(tui.Deps{
		Config:   cfg,
		Stores:   stores,
		Users:    directory,
		Syllabus: syllabus.NewLibrary(cfg.SyllabusDir),
		Alert:    alert.NewBell(os.Stdout, appLog),
		Log:      appLog,
	})
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func openBackend(cfg config.Config) (store.Backend, *sql.DB, error) {
	if cfg.Backend != config.BackendSQLite {
		return store.NewFileBackend(cfg.DataDir), nil, nil
	}
	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return nil, nil, err
	}
	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewSQLiteBackend(db), db, nil
}

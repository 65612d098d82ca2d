package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/internal/repository"
	"github.com/noah-isme/academix-api/pkg/config"
	"github.com/noah-isme/academix-api/pkg/database"
	"github.com/noah-isme/academix-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator()
	if err != nil {
		logr.Fatal("failed to prepare migrations", zap.Error(err))
	}

	cli := commandLine{
		db:       db.DB,
		accounts: repository.NewAccountRepository(db),
		migrator: migrator,
		out:      os.Stdout,
		logger:   logr,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logr.Error("command failed", zap.Error(err))
		}
		db.Close()
		os.Exit(1)
	}
}

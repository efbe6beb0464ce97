package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/attendance"
	"github.com/akademflow/backend/core/routing"
	logsvc "github.com/akademflow/backend/services/logger"
	"github.com/akademflow/backend/storage"
	"github.com/akademflow/backend/storage/database"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	ctx := context.Background()

	cli := commandLine{conf: conf, out: os.Stdout}

	// only "migrate" talks to the database directly; the other commands go through the ledger store
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		db, err := setUpDB(ctx, conf)
		errAndDie(err)
		defer db.Close()
		cli.db = db.DB
	} else if len(os.Args) > 1 {
		routes, err := routing.Load(conf.Path(conf.Routing.File))
		errAndDie(err)
		store, closeStore, err := storage.OpenLedger(ctx, conf)
		errAndDie(err)
		defer func() { _ = closeStore() }()

		validate := validator.New()
		core.InitValidators(validate, core.NewTranslator())
		cli.routes = routes
		cli.attendanceSvc = attendance.NewService(conf, store, validate, logger)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}
	return database.Open(ctx, conf)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}

package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/akademflow/backend/apps/api/echo"
	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/attendance"
	"github.com/akademflow/backend/core/relay"
	"github.com/akademflow/backend/core/routing"
	"github.com/akademflow/backend/services/keepalive"
	logsvc "github.com/akademflow/backend/services/logger"
	"github.com/akademflow/backend/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "LEDGER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// set up ledger store
	store, closeStore, err := storage.OpenLedger(ctx, conf)
	if err != nil {
		storeLogger.Fatal(fmt.Sprintf("setting up ledger store: %v", err), err)
	}
	defer func() {
		if err = closeStore(); err != nil {
			storeLogger.Error("Failed to close", err)
		}
	}()

	// set up routing & relay collaborators
	routes, err := routing.Load(conf.Path(conf.Routing.File))
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading routing table: %v", err), err)
	}
	if len(routes.Stages()) == 0 {
		logger.Warn(fmt.Sprintf("routing table %q is empty: every upload will be rejected", conf.Routing.File))
	}
	transport := setUpTransport(conf, logger)
	relayOpts, closeRelay, err := setUpRelayOptions(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up relay: %v", err), err)
	}
	defer closeRelay()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	attendanceSvc := attendance.NewService(conf, store, validate, storeLogger)
	relaySvc := relay.NewService(conf, routes, transport, logger, relayOpts...)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("ledger").Set(conf.Ledger.Backend)

	if conf.Server.DebugHost != "" {
		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	go keepalive.NewPinger(conf, logger).Run(ctx)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			AttendanceSvc: attendanceSvc,
			RelaySvc:      relaySvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		cancel()

		// give outstanding requests a deadline for completion
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer shutdownCancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(shutdownCtx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

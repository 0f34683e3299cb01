package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/trezcool/gpacalc/apps/api/echo"
	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/share"
	clipboardsvc "github.com/trezcool/gpacalc/services/clipboard"
	logsvc "github.com/trezcool/gpacalc/services/logger"
	"github.com/trezcool/gpacalc/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger, syncLogs, err := logsvc.New(conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	defer syncLogs()

	db, closeDB, err := storage.Open(conf.Storage)
	if err != nil {
		logger.Fatal("setting up storage", "driver", conf.Storage.Driver, "error", err)
	}
	defer func() {
		if err = closeDB.Close(); err != nil {
			logger.Error("closing storage", "error", err)
		}
	}()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), "storage", conf.Storage.Driver)
	defer logger.Info("Application stopped")

	store := gpa.NewStore(db, logger)
	store.Load()

	if len(os.Args) > 1 {
		importLaunchLink(store, os.Args[1], conf.Share.Param, logger, os.Stderr)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error("debug server closed", "error", err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Address:   conf.Server.Host,
		Debug:     conf.Debug,
		TestMode:  conf.TestMode,
		Store:     store,
		Logger:    logger,
		Share:     conf.Share,
		Export:    conf.Export,
		Clipboard: clipboardsvc.NewConsoleSink(os.Stdout),
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error("could not stop server gracefully", "error", err)
		}
	}
}

// importLaunchLink imports a share link passed at launch once, like one opened in a browser.
// A rejected link is reported on w and the store keeps its state.
func importLaunchLink(store *gpa.Store, arg, param string, logger core.Logger, w io.Writer) {
	u, err := url.Parse(arg)
	if err != nil {
		logger.Warn("ignoring launch argument", "arg", arg, "error", err)
		return
	}
	if _, err = share.Import(store, &share.URLSource{URL: u, Param: param}, logger); err != nil {
		logger.Error("share link not imported", "error", err)
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
}

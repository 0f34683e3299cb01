package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	clipboardsvc "github.com/trezcool/gpacalc/services/clipboard"
	logsvc "github.com/trezcool/gpacalc/services/logger"
	"github.com/trezcool/gpacalc/storage"
)

func main() {
	conf := core.NewConfig()

	logger, syncLogs, err := logsvc.New(conf)
	errAndDie(err)

	db, closeDB, err := storage.Open(conf.Storage)
	errAndDie(err)

	store := gpa.NewStore(db, logger)
	store.Load()

	cli := commandLine{
		store:     store,
		conf:      conf,
		log:       logger,
		clipboard: clipboardsvc.NewConsoleSink(os.Stdout),
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	_ = closeDB.Close()
	syncLogs()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

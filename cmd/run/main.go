package main

import (
	"flag"
	"log"

	"github.com/zintix-labs/scratchlab/sdk/perf"
)

// makefile runner
func main() {
	bindVar()
	mode, err := perf.ParseMode(cfg.pprofmode)
	if err != nil {
		log.Fatal(err)
	}
	path, err := perf.Run(executeSimulator, mode, cfg.pprofdir)
	if err != nil {
		log.Fatal(err)
	}
	if path != "" {
		log.Printf("profile written: %s", path)
	}
}

func init() {
	log.SetFlags(0)
	flag.CommandLine.SetOutput(log.Writer())
}

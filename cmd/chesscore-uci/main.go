// Command chesscore-uci answers perft queries over the UCI protocol on stdin and stdout.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", uci.DefaultHash, "Subtree cache size in MB (0 disables it)")
	threads    = flag.Int("threads", uci.DefaultThreads, "Worker goroutines")
	verbose    = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	// Protocol output owns stdout
	log.SetHandler(cli.New(os.Stderr))
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.WithError(err).Fatal("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.WithField("path", profilePath).Info("CPU profiling enabled")
	}

	// The first interrupt cancels a running count, the second one kills the process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	eng := engine.NewEngine(*hashMB, *threads)

	// Create and run UCI protocol handler
	protocol := uci.New(eng, os.Stdin, os.Stdout)
	if err := protocol.Run(ctx); err != nil {
		log.WithError(err).Error("reading commands")
	}
}

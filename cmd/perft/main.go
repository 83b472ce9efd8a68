// Command perft counts legal move tree leaves and optionally checks them against a result store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/diagram"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// defaultDB selects the platform database directory for -db.
const defaultDB = "default"

type config struct {
	fen        string
	depth      int
	divide     bool
	moves      string
	repeat     int
	threads    int
	hash       int
	db         string
	svg        string
	cpuprofile string
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.fen, "fen", board.StartFEN, "FEN string (defaults to initial position)")
	fs.IntVar(&cfg.depth, "depth", 0, "Perft depth (required)")
	fs.BoolVar(&cfg.divide, "divide", false, "Print per-move node counts at root")
	fs.StringVar(&cfg.moves, "moves", "", "Space-separated UCI or SAN moves played before counting")
	fs.IntVar(&cfg.repeat, "repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	fs.IntVar(&cfg.threads, "threads", 1, "Worker goroutines splitting the root moves")
	fs.IntVar(&cfg.hash, "hash", 0, "Subtree cache size in MB (0 disables it)")
	fs.StringVar(&cfg.db, "db", "", `Result store directory ("default" for the data directory); verifies or records the count`)
	fs.StringVar(&cfg.svg, "svg", "", "Write an SVG diagram of the counted position to file")
	fs.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	fs.BoolVar(&cfg.verbose, "v", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.depth <= 0 {
		return cfg, errors.New("-depth must be > 0")
	}
	if cfg.repeat < 1 {
		cfg.repeat = 1
	}
	if cfg.threads < 1 {
		return cfg, errors.New("-threads must be > 0")
	}
	if cfg.cpuprofile == "" {
		cfg.cpuprofile = os.Getenv("CPUPROFILE")
	}
	return cfg, nil
}

func main() {
	log.SetHandler(cli.New(os.Stderr))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}
	if cfg.verbose {
		log.SetLevel(log.DebugLevel)
	}

	pos, err := setup(cfg.fen, cfg.moves)
	if err != nil {
		log.WithError(err).Error("bad position")
		return 2
	}
	fen := pos.ToFEN()
	logger := log.WithFields(log.Fields{"fen": fen, "depth": cfg.depth, "threads": cfg.threads})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Start CPU profiling if requested (via flag or environment variable)
	if cfg.cpuprofile != "" {
		f, err := os.Create(cfg.cpuprofile)
		if err != nil {
			log.WithError(err).Error("could not create CPU profile")
			return 2
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Error("could not start CPU profile")
			return 2
		}
		defer pprof.StopCPUProfile()
		logger.WithField("path", cfg.cpuprofile).Debug("CPU profiling enabled")
	}

	if cfg.svg != "" {
		if err := writeDiagram(cfg.svg, pos, fen); err != nil {
			log.WithError(err).Error("could not write diagram")
			return 2
		}
	}

	eng := engine.NewEngine(cfg.hash, cfg.threads)

	if cfg.divide {
		entries, err := eng.Divide(ctx, pos, cfg.depth)
		if err != nil {
			logger.WithError(err).Error("divide")
			return 1
		}
		printDivide(stdout, entries)
	}

	var nodes uint64
	start := time.Now()
	for i := 0; i < cfg.repeat; i++ {
		// Every repetition starts cold so the timings stay comparable
		eng.Clear()
		nodes, err = eng.Perft(ctx, pos, cfg.depth)
		if err != nil {
			logger.WithError(err).Error("perft")
			return 1
		}
	}
	elapsed := time.Since(start) / time.Duration(cfg.repeat)

	result := storage.PerftResult{FEN: fen, Depth: cfg.depth, Nodes: nodes, Elapsed: elapsed}
	fmt.Fprintf(stdout, "%d \t%d \t%s \t%.0f\n", cfg.depth, nodes, elapsed, result.NPS())
	logger.WithField("nodes", nodes).Debug("perft done")

	if cfg.db != "" {
		if err := checkStore(cfg.db, result); err != nil {
			logger.WithError(err).Error("result store")
			return 1
		}
	}

	return 0
}

// setup parses fen and plays moves, each given in UCI or SAN form.
func setup(fen, moves string) (*board.Position, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := pos.Validate(); err != nil {
		return nil, err
	}

	for _, s := range strings.Fields(moves) {
		m, err := board.ParseMove(s, pos)
		if err != nil {
			m, err = board.ParseSAN(s, pos)
		}
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"uci": m.String(), "san": m.ToSAN(pos)}).Debug("move")
		pos.MakeMove(m)
	}
	return pos, nil
}

// printDivide prints one line per root move, sorted by UCI text.
func printDivide(w io.Writer, entries []board.DivideEntry) {
	counts := make(map[string]uint64)
	for _, e := range entries {
		counts[e.Move.String()] = e.Nodes
	}

	keys := maps.Keys(counts)
	slices.Sort(keys)

	var sum uint64
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %d\n", k, counts[k])
		sum += counts[k]
	}
	fmt.Fprintf(w, "Total: %d\n", sum)
}

func writeDiagram(path string, pos *board.Position, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := diagram.Position(f, pos, diagram.Options{Title: title}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// checkStore verifies r against the stored count, recording it when none exists.
func checkStore(dir string, r storage.PerftResult) error {
	var (
		store *storage.PerftStore
		err   error
	)
	if dir == defaultDB {
		store, err = storage.NewStorage()
	} else {
		store, err = storage.Open(dir)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.Verify(r.FEN, r.Depth, r.Nodes)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.WithField("nodes", r.Nodes).Info("recording new result")
		return store.Put(r)
	case err != nil:
		return err
	}
	log.WithField("nodes", r.Nodes).Info("matches stored result")
	return nil
}

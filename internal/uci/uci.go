// Package uci implements the subset of the Universal Chess Interface a move
// generator can answer: position setup, "go perft" and the "d" debug dump.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Default option values.
const (
	DefaultHash    = 16
	DefaultThreads = 1
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // Serializes writes to out

	// Search state
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// New creates a new UCI protocol handler reading commands from in.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
	}
}

// Run processes commands until "quit", end of input or ctx is done.
// A count still running at end of input is allowed to finish.
func (u *UCI) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(ctx, args)
		default:
			u.printf("info string unknown command: %s\n", cmd)
		}
	}

	u.waitSearch()
	return scanner.Err()
}

func (u *UCI) printf(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name chesscore")
	u.println("id author chesscore developers")
	u.println("")
	u.printf("option name Hash type spin default %d min 0 max 4096\n", DefaultHash)
	u.printf("option name Threads type spin default %d min 1 max 256\n", DefaultThreads)
	u.println("option name Debug type check default false")
	u.println("uciok")
}

// handleNewGame resets the position and the subtree cache.
func (u *UCI) handleNewGame() {
	u.waitSearch()
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.waitSearch()

	// Find "moves" keyword
	setupEnd, moveStart := len(args), len(args)
	for i, arg := range args {
		if arg == "moves" {
			setupEnd, moveStart = i, i+1
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		fenStr := strings.Join(args[1:setupEnd], " ")
		p, err := board.ParseFEN(fenStr)
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			u.printf("info string invalid FEN: %v\n", err)
			return
		}
		pos = p
	default:
		return
	}

	// Apply moves
	for _, moveStr := range args[moveStart:] {
		m, err := board.ParseMove(moveStr, pos)
		if err != nil {
			u.printf("info string invalid move: %s\n", moveStr)
			return
		}
		pos.MakeMove(m)
	}

	u.position = pos
	log.WithFields(log.Fields{"fen": pos.ToFEN(), "moves": len(args) - moveStart}).Debug("position set")
}

// handleGo starts "go perft <depth>" in the background.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if len(args) < 2 || args[0] != "perft" {
		u.println("info string only go perft <depth> is supported")
		return
	}
	depth, err := strconv.Atoi(args[1])
	if err != nil || depth < 1 {
		u.printf("info string invalid depth: %s\n", args[1])
		return
	}

	u.waitSearch()

	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	eng := u.engine
	eng.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	go func() {
		defer close(u.searchDone)
		defer cancel()

		entries, err := eng.Divide(ctx, pos, depth)
		if err != nil {
			u.printf("info string perft interrupted: %v\n", err)
			return
		}

		var nodes uint64
		for _, e := range entries {
			u.printf("%s: %d\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
		u.printf("\nNodes searched: %d\n\n", nodes)
	}()
}

// sendInfo reports progress after each root move.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	ms := info.Time.Milliseconds()
	nps := uint64(0)
	if ms > 0 {
		nps = info.Total * 1000 / uint64(ms)
	}
	u.printf("info currmove %s currmovenumber %d nodes %d time %d nps %d hashfull %d\n",
		info.Move, info.Done, info.Total, ms, nps, info.HashFull)
}

// handleStop interrupts a running count and waits for it.
func (u *UCI) handleStop() {
	if u.searching {
		u.cancel()
	}
	u.waitSearch()
}

// waitSearch blocks until the running count, if any, has finished.
func (u *UCI) waitSearch() {
	if !u.searching {
		return
	}
	<-u.searchDone
	u.searching = false
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	u.waitSearch()

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 0 {
			u.printf("info string invalid Hash value: %s\n", value)
			return
		}
		u.engine.SetHash(mb)
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			u.printf("info string invalid Threads value: %s\n", value)
			return
		}
		u.engine.SetThreads(n)
	case "debug":
		board.DebugMoveValidation = strings.ToLower(value) == "true"
	default:
		u.printf("info string unknown option: %s\n", name)
	}
}

// handleDisplay prints the board, its FEN, hash key and checkers.
func (u *UCI) handleDisplay() {
	u.waitSearch()
	pos := u.position

	var checkers []string
	for _, sq := range pos.KingAttackers(pos.SideToMove).Squares() {
		checkers = append(checkers, sq.String())
	}

	u.printf("%s\nFen: %s\nKey: %016X\nCheckers: %s\n",
		pos.String(), pos.ToFEN(), pos.Hash(), strings.Join(checkers, " "))
}

// handlePerft runs a perft test synchronously.
func (u *UCI) handlePerft(ctx context.Context, args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.printf("info string invalid depth: %s\n", args[0])
			return
		}
		depth = d
	}
	u.waitSearch()

	eng := u.engine
	eng.OnInfo = nil

	start := time.Now()
	nodes, err := eng.Perft(ctx, u.position.Copy(), depth)
	elapsed := time.Since(start)
	if err != nil {
		u.printf("info string perft interrupted: %v\n", err)
		return
	}

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

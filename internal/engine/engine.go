// Package engine runs perft over a pool of workers sharing a subtree cache.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"

	"github.com/hailam/chesscore/internal/board"
)

// ErrStopped is returned when Stop interrupts a run.
var ErrStopped = errors.New("engine: stopped")

// SearchInfo reports progress after each finished root move.
type SearchInfo struct {
	Move     board.Move
	Nodes    uint64 // Leaves below Move
	Total    uint64 // Leaves counted so far in this run
	Done     int    // Root moves finished
	Moves    int    // Root moves in total
	Time     time.Duration
	HashFull int // Permille of hash table used, 0 without a table
}

// Engine counts move trees in parallel.
// Runs must not overlap; Stop may be called from any goroutine.
type Engine struct {
	tt       *TranspositionTable
	threads  int
	stopFlag atomic.Bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a hashMB megabyte subtree cache (none when
// hashMB is 0) and the given number of worker goroutines.
func NewEngine(hashMB, threads int) *Engine {
	e := &Engine{}
	e.SetHash(hashMB)
	e.SetThreads(threads)
	return e
}

// SetHash replaces the subtree cache. A size of 0 disables caching.
func (e *Engine) SetHash(sizeMB int) {
	if sizeMB <= 0 {
		e.tt = nil
		return
	}
	e.tt = NewTranspositionTable(sizeMB)
}

// SetThreads sets the number of workers, at least one.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

// Threads returns the number of workers.
func (e *Engine) Threads() int {
	return e.threads
}

// Stop interrupts the current run.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear empties the subtree cache.
func (e *Engine) Clear() {
	if e.tt != nil {
		e.tt.Clear()
	}
}

// Perft counts the leaves of the legal move tree of the given depth.
func (e *Engine) Perft(ctx context.Context, pos *board.Position, depth int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}
	entries, err := e.Divide(ctx, pos, depth)
	if err != nil {
		return 0, err
	}

	var nodes uint64
	for _, entry := range entries {
		nodes += entry.Nodes
	}
	return nodes, nil
}

// Divide counts the leaves below every root move, in generation order.
// pos is not modified; each worker plays on its own copy.
func (e *Engine) Divide(ctx context.Context, pos *board.Position, depth int) ([]board.DivideEntry, error) {
	if depth <= 0 {
		return nil, nil
	}

	e.stopFlag.Store(false)
	if e.tt != nil {
		e.tt.NewSearch()
	}

	moves := pos.GenerateLegalMoves().Slice()
	entries := make([]board.DivideEntry, len(moves))

	threads := e.threads
	if threads > len(moves) {
		threads = len(moves)
	}

	jobs := make(chan job, len(moves))
	for i, m := range moves {
		jobs <- job{index: i, move: m, depth: depth}
	}
	close(jobs)

	results := make(chan WorkerResult, len(moves))
	var wg sync.WaitGroup
	for id := 0; id < threads; id++ {
		w := NewWorker(id, e.tt, &e.stopFlag)
		w.InitSearch(pos)
		w.SetResultChannel(results)

		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(jobs)
		}()
	}

	// Cancellation
	done := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		select {
		case <-ctx.Done():
			e.Stop()
		case <-done:
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	start := time.Now()
	var total uint64
	finished := 0
	for r := range results {
		entries[r.Index] = board.DivideEntry{Move: r.Move, Nodes: r.Nodes}
		total += r.Nodes
		finished++

		if e.OnInfo != nil {
			info := SearchInfo{
				Move:  r.Move,
				Nodes: r.Nodes,
				Total: total,
				Done:  finished,
				Moves: len(moves),
				Time:  time.Since(start),
			}
			if e.tt != nil {
				info.HashFull = e.tt.HashFull()
			}
			e.OnInfo(info)
		}
	}
	close(done)
	<-watched

	logger := log.WithFields(log.Fields{"depth": depth, "threads": threads, "moves": len(moves)})
	if err := ctx.Err(); err != nil {
		logger.WithError(err).Debug("divide cancelled")
		return nil, err
	}
	if e.stopFlag.Load() {
		logger.Debug("divide stopped")
		return nil, ErrStopped
	}

	if e.tt != nil {
		logger = logger.WithField("hit_rate", e.tt.HitRate())
	}
	logger.WithFields(log.Fields{"nodes": total, "elapsed": time.Since(start)}).Debug("divide done")
	return entries, nil
}

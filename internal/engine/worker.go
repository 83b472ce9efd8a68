package engine

import (
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// job asks a worker to count the subtree below one root move.
type job struct {
	index int
	move  board.Move
	depth int
}

// Worker counts subtrees on its own copy of the root position.
// Workers of one run share the transposition table and the stop flag.
type Worker struct {
	id int

	// Per-worker position copy
	pos *board.Position

	// Leaves counted since the last Reset
	nodes uint64

	// Shared resources (pointers to engine's shared state)
	tt       *TranspositionTable
	stopFlag *atomic.Bool

	// Communication channel for results
	resultCh chan<- WorkerResult
}

// WorkerResult is the leaf count below one root move.
type WorkerResult struct {
	WorkerID int
	Index    int // Position of the move in the root move list
	Move     board.Move
	Nodes    uint64
}

// NewWorker creates a new worker. tt may be nil to count without caching.
func NewWorker(id int, tt *TranspositionTable, stopFlag *atomic.Bool) *Worker {
	return &Worker{
		id:       id,
		tt:       tt,
		stopFlag: stopFlag,
	}
}

// ID returns the worker's ID.
func (w *Worker) ID() int {
	return w.id
}

// Nodes returns the number of leaves counted by this worker.
func (w *Worker) Nodes() uint64 {
	return w.nodes
}

// Reset resets the worker for a new run.
func (w *Worker) Reset() {
	w.nodes = 0
}

// SetResultChannel sets the channel for sending results.
func (w *Worker) SetResultChannel(ch chan<- WorkerResult) {
	w.resultCh = ch
}

// InitSearch gives the worker a private copy of the root position.
func (w *Worker) InitSearch(pos *board.Position) {
	w.pos = pos.Copy()
}

// run counts every job it receives until jobs is closed.
func (w *Worker) run(jobs <-chan job) {
	for j := range jobs {
		if w.stopped() {
			continue
		}

		w.pos.MakeMove(j.move)
		nodes := w.perft(j.depth - 1)
		w.pos.UnmakeMove(j.move)

		w.nodes += nodes
		w.resultCh <- WorkerResult{WorkerID: w.id, Index: j.index, Move: j.move, Nodes: nodes}
	}
}

// stopped returns true if the run should stop.
func (w *Worker) stopped() bool {
	return w.stopFlag.Load()
}

// perft counts leaves below the worker's position. Counts finished after a
// stop are partial and never reach the table.
func (w *Worker) perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	if w.stopped() {
		return 0
	}

	var hash uint64
	if w.tt != nil && depth > 1 {
		hash = w.pos.Hash()
		if nodes, ok := w.tt.Probe(hash, depth); ok {
			return nodes
		}
	}

	var ml board.MoveList
	w.pos.GenerateLegalMovesInto(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Slice() {
		w.pos.MakeMove(m)
		nodes += w.perft(depth - 1)
		w.pos.UnmakeMove(m)
	}

	if w.tt != nil && !w.stopped() {
		w.tt.Store(hash, depth, nodes)
	}
	return nodes
}

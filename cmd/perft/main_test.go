package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{"start depth 2", []string{"-depth", "2"}, 0, []string{"2 \t400 \t"}},
		{"divide", []string{"-depth", "1", "-divide"}, 0, []string{"e2e4: 1\n", "Total: 20\n"}},
		{"uci and san moves", []string{"-depth", "1", "-moves", "e2e4 e5 Nf3"}, 0, []string{"1 \t29 \t"}},
		{"threads and hash", []string{"-depth", "3", "-threads", "4", "-hash", "4", "-repeat", "2"}, 0, []string{"3 \t8902 \t"}},
		{"parallel divide", []string{"-depth", "2", "-divide", "-threads", "3"}, 0, []string{"a2a3: 20\n", "Total: 400\n"}},
		{"missing depth", []string{}, 2, nil},
		{"bad threads", []string{"-depth", "1", "-threads", "0"}, 2, nil},
		{"bad fen", []string{"-depth", "1", "-fen", "not a fen"}, 2, nil},
		{"illegal move", []string{"-depth", "1", "-moves", "e2e5"}, 2, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			if code != tc.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", code, tc.wantCode, stderr.String())
			}
			for _, s := range tc.wantOut {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("output %q does not contain %q", stdout.String(), s)
				}
			}
		})
	}
}

func TestRunWithStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	var out bytes.Buffer

	// First run records, second verifies
	for i := 0; i < 2; i++ {
		if code := run([]string{"-depth", "2", "-db", dir}, &out, &out); code != 0 {
			t.Fatalf("run %d: exit code %d: %s", i, code, out.String())
		}
	}

	store, err := storage.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	fen := board.NewPosition().ToFEN()
	if err := store.Put(storage.PerftResult{FEN: fen, Depth: 2, Nodes: 401}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	if code := run([]string{"-depth", "2", "-db", dir}, &out, &out); code != 1 {
		t.Errorf("expected exit code 1 on mismatch, got %d", code)
	}
}

func TestRunSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.svg")
	var out bytes.Buffer
	if code := run([]string{"-depth", "1", "-svg", path}, &out, &out); code != 0 {
		t.Fatalf("exit code %d: %s", code, out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("diagram file is not SVG")
	}
}

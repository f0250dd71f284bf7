package load

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gyeh/admitstats/internal/logging"
	"github.com/gyeh/admitstats/internal/table"
)

func TestSaveCSV(t *testing.T) {
	l := New(nil, t.TempDir(), 0, logging.Nop())

	tbl := table.New("id", "name", "admitted", "score", "flag")
	tbl.MustAppendRow(int64(1), "Jane", time.Date(2023, 1, 1, 10, 30, 0, 0, time.UTC), 1.5, true)
	tbl.MustAppendRow(int64(2), nil, nil, nil, false)

	path, err := l.SaveCSV(tbl, "out")
	if err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	if !strings.HasSuffix(path, "out.csv") {
		t.Errorf("path = %q, want .csv extension appended", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "id,name,admitted,score,flag" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,Jane,2023-01-01 10:30:00,1.5,true" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2,,,,false" {
		t.Errorf("row 2 = %q, nulls should be empty fields", lines[2])
	}
}

func TestSaveCSV_EmptyIsNoop(t *testing.T) {
	dir := t.TempDir()
	l := New(nil, dir, 0, logging.Nop())

	path, err := l.SaveCSV(table.New("a"), "nothing")
	if err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty for no-op", path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be created, found %d entries", len(entries))
	}
}

func TestChunkSizeFallback(t *testing.T) {
	l := New(nil, "", -3, logging.Nop())
	if l.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", l.ChunkSize)
	}
}

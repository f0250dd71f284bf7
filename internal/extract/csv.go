package extract

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/admitstats/internal/table"
)

// FileSource extracts raw tables from files under a raw-data directory.
type FileSource struct {
	Dir string
}

// resolve joins a relative name onto the raw-data directory. Absolute paths
// pass through untouched.
func (s *FileSource) resolve(name string) string {
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// CSV reads a delimited text file into a table. The first record is the
// header row; every cell lands as a string (empty cells become nulls).
func (s *FileSource) CSV(name string) (*table.Table, error) {
	path := s.resolve(name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 256*1024)

	// Skip UTF-8 BOM if present
	if bom, err := buf.Peek(3); err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		buf.Discard(3)
	}

	r := csv.NewReader(buf)
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s: empty file", ErrSourceFormat, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceFormat, path, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := table.New(header...)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceFormat, path, err)
		}
		t.MustAppendRow(cellValues(record, len(header))...)
	}
	return t, nil
}

// cellValues widens a record to width cells, mapping empty strings to nulls.
func cellValues(record []string, width int) []any {
	vals := make([]any, width)
	for i := 0; i < width; i++ {
		if i >= len(record) {
			continue
		}
		if c := record[i]; c != "" {
			vals[i] = c
		}
	}
	return vals
}

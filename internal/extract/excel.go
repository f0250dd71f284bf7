package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/admitstats/internal/table"
)

// Spreadsheet reads one sheet of a spreadsheet file into a table. An empty
// sheet name selects the workbook's first sheet. The first row is the header.
func (s *FileSource) Spreadsheet(name, sheet string) (*table.Table, error) {
	path := s.resolve(name)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceFormat, path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrSourceFormat, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: sheet %q", ErrSourceNotFound, path, sheet)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: sheet %q is empty", ErrSourceFormat, path, sheet)
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := table.New(header...)
	for _, record := range rows[1:] {
		t.MustAppendRow(cellValues(record, len(header))...)
	}
	return t, nil
}

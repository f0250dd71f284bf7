package load

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/admitstats/internal/model"
	"github.com/gyeh/admitstats/internal/table"
)

const csvTimeLayout = "2006-01-02 15:04:05"

// SaveCSV writes a table as delimited text under the processed-data
// directory and returns the file path. An empty table is a no-op returning
// an empty path.
func (l *Loader) SaveCSV(t *table.Table, name string) (string, error) {
	if t == nil || t.Empty() {
		l.Log.Warn().Str("file", name).Msg("empty table, nothing to save")
		return "", nil
	}

	path, err := l.sinkPath(name, ".csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return "", fmt.Errorf("write header %s: %w", path, err)
	}
	record := make([]string, len(t.Columns()))
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for j, v := range row {
			record[j] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row %d to %s: %w", i, path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	l.Log.Info().Str("file", path).Int("rows", t.NumRows()).Msg("saved csv")
	return path, nil
}

// SaveFeaturesParquet writes the feature rows as a columnar binary file.
// Empty input is a no-op returning an empty path.
func (l *Loader) SaveFeaturesParquet(rows []model.FeatureRow, name string) (string, error) {
	return saveParquet(l, rows, name)
}

// SaveReadmissionsParquet writes the readmission analysis rows as a
// columnar binary file. Empty input is a no-op returning an empty path.
func (l *Loader) SaveReadmissionsParquet(rows []model.ReadmissionRow, name string) (string, error) {
	return saveParquet(l, rows, name)
}

func saveParquet[T any](l *Loader, rows []T, name string) (string, error) {
	if len(rows) == 0 {
		l.Log.Warn().Str("file", name).Msg("no rows, nothing to save")
		return "", nil
	}

	path, err := l.sinkPath(name, ".parquet")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write parquet %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("close parquet %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	l.Log.Info().Str("file", path).Int("rows", len(rows)).Msg("saved parquet")
	return path, nil
}

// sinkPath ensures the processed-data directory exists and appends the
// extension when the name lacks it.
func (l *Loader) sinkPath(name, ext string) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create processed dir: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return filepath.Join(l.Dir, name), nil
}

// formatCell renders a cell for delimited text. Nulls are empty fields.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(csvTimeLayout)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Package extract pulls raw tabular records out of flat files, spreadsheets,
// and the relational source into in-memory tables. Extraction is read-only;
// all typing and cleaning happens downstream in transform.
package extract

import "errors"

var (
	// ErrSourceNotFound marks a missing file, sheet, or relation.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceFormat marks content that could not be parsed as tabular data.
	ErrSourceFormat = errors.New("unparsable source content")

	// ErrConnection marks an unreachable relational source.
	ErrConnection = errors.New("relational source unreachable")
)

// Package source reads input rows from a CSV table.
//
// Columns are located by header name, so extra columns and any column
// order are accepted:
//
//	rows, err := source.OpenCSV("MovieGenre.csv", source.DefaultOptions())
//
// The table is decoded as Latin-1 by default; set Encoding to "utf-8" for
// UTF-8 input.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/handiism/poster-downloader/internal/model"
)

// Options configures how the table is read.
type Options struct {
	// Encoding of the file: "latin1" (default) or "utf-8".
	Encoding string

	// Column headers.
	TitleColumn string
	URLColumn   string
	ScoreColumn string
}

// DefaultOptions returns the column layout of the movie poster table.
func DefaultOptions() Options {
	return Options{
		Encoding:    "latin1",
		TitleColumn: "Title",
		URLColumn:   "Poster",
		ScoreColumn: "IMDB Score",
	}
}

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("source: missing column")

// OpenCSV reads all rows of the CSV file at path.
func OpenCSV(path string, opts Options) ([]model.InputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ReadCSV reads all rows from r.
//
// An empty URL cell yields a row with no URL. A score that does not parse
// becomes NaN; the row is still returned.
func ReadCSV(r io.Reader, opts Options) ([]model.InputRow, error) {
	def := DefaultOptions()
	if opts.TitleColumn == "" {
		opts.TitleColumn = def.TitleColumn
	}
	if opts.URLColumn == "" {
		opts.URLColumn = def.URLColumn
	}
	if opts.ScoreColumn == "" {
		opts.ScoreColumn = def.ScoreColumn
	}

	decoded, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleIdx, err := columnIndex(header, opts.TitleColumn)
	if err != nil {
		return nil, err
	}
	urlIdx, err := columnIndex(header, opts.URLColumn)
	if err != nil {
		return nil, err
	}
	scoreIdx, err := columnIndex(header, opts.ScoreColumn)
	if err != nil {
		return nil, err
	}

	var rows []model.InputRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		title := field(record, titleIdx)
		url := strings.TrimSpace(field(record, urlIdx))
		rows = append(rows, model.NewInputRow(len(rows), title, url, parseScore(field(record, scoreIdx))))
	}

	return rows, nil
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "", "latin1", "iso88591":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "cp1252", "windows1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "utf8":
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	}
	return nil, fmt.Errorf("source: unsupported encoding %q", encoding)
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w %q", ErrMissingColumn, name)
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

func parseScore(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

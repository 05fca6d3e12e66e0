package download

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"

	ioutils "github.com/handiism/poster-downloader/internal/io"
	"github.com/handiism/poster-downloader/internal/model"
)

// Success mapping column headers.
const (
	ColumnImagePath = "image_path"
	ColumnScore     = "imdb_score"
)

// WriteMapping writes mapping as CSV to path, replacing any previous file.
//
// The file is written through a temporary file and renamed into place,
// so an interrupted write never leaves a truncated mapping. NaN scores are
// written as empty cells.
func WriteMapping(path string, mapping model.SuccessMapping) error {
	data, err := EncodeMapping(mapping)
	if err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(path, data)
}

// EncodeMapping renders mapping as CSV with a header row.
func EncodeMapping(mapping model.SuccessMapping) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{ColumnImagePath, ColumnScore}); err != nil {
		return nil, err
	}
	for _, e := range mapping {
		if err := w.Write([]string{e.ImagePath, formatScore(e.Score)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatScore(score float64) string {
	if math.IsNaN(score) {
		return ""
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}

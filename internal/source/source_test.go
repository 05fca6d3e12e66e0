package source

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `imdbId,Imdb Link,Title,IMDB Score,Genre,Poster
114709,http://www.imdb.com/title/tt114709,Toy Story (1995),8.3,Animation|Adventure|Comedy,https://images-na.ssl-images-amazon.com/images/M/toy.jpg
113497,http://www.imdb.com/title/tt113497,Jumanji (1995),6.9,Action|Adventure|Family,
113228,http://www.imdb.com/title/tt113228,"Grumpier Old Men, The (1995)",,Comedy|Romance,not-a-url
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].Title != "Toy Story (1995)" || rows[0].Score != 8.3 || !rows[0].HasHTTPURL() {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].URL != nil {
		t.Errorf("row 1 URL = %q, want absent", *rows[1].URL)
	}
	if rows[2].Title != "Grumpier Old Men, The (1995)" {
		t.Errorf("row 2 title = %q", rows[2].Title)
	}
	if !math.IsNaN(rows[2].Score) {
		t.Errorf("row 2 score = %v, want NaN", rows[2].Score)
	}
	if rows[2].HasHTTPURL() {
		t.Error("row 2 should not have an HTTP URL")
	}
	for i, r := range rows {
		if r.Index != i {
			t.Errorf("row %d has Index %d", i, r.Index)
		}
	}
}

func TestReadCSV_Latin1(t *testing.T) {
	input := "Title,IMDB Score,Poster\nAm\xe9lie (2001),8.3,http://example.com/a.jpg\n"
	rows, err := ReadCSV(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if rows[0].Title != "Amélie (2001)" {
		t.Errorf("title = %q, want %q", rows[0].Title, "Amélie (2001)")
	}
}

func TestReadCSV_UTF8(t *testing.T) {
	input := "\ufeffTitle,IMDB Score,Poster\nAmélie (2001),8.3,http://example.com/a.jpg\n"
	opts := DefaultOptions()
	opts.Encoding = "utf-8"
	rows, err := ReadCSV(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if rows[0].Title != "Amélie (2001)" {
		t.Errorf("title = %q", rows[0].Title)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Title,Poster\nx,http://a/b.jpg\n"), DefaultOptions())
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}

	_, err = ReadCSV(strings.NewReader(""), DefaultOptions())
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for empty input, got %v", err)
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	input := "Title,IMDB Score,Poster\nShort Row,7.0\n"
	rows, err := ReadCSV(strings.NewReader(input), DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(rows) != 1 || rows[0].URL != nil {
		t.Errorf("rows = %+v", rows)
	}
}

func TestReadCSV_CustomColumns(t *testing.T) {
	input := "name,url,rating\nBlade Runner,https://x/y.jpg,8.1\n"
	rows, err := ReadCSV(strings.NewReader(input), Options{
		Encoding:    "utf-8",
		TitleColumn: "name",
		URLColumn:   "url",
		ScoreColumn: "rating",
	})
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if rows[0].Title != "Blade Runner" || rows[0].Score != 8.1 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestReadCSV_UnsupportedEncoding(t *testing.T) {
	opts := DefaultOptions()
	opts.Encoding = "ebcdic"
	if _, err := ReadCSV(strings.NewReader("Title\n"), opts); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestOpenCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	rows, err := OpenCSV(path, DefaultOptions())
	if err != nil {
		t.Fatalf("OpenCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}

	if _, err := OpenCSV(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}

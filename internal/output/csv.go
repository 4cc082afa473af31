package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// CSVWriter writes found results in CSV format with a header row.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer. If outputFile is empty,
// stdout is used.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"target", "entry", "status", "size", "redirect", "addresses", "timestamp"})
}

func (c *CSVWriter) WriteResult(result *scanner.Result) error {
	return c.w.Write([]string{
		result.Target(),
		result.Entry,
		strconv.Itoa(result.StatusCode),
		strconv.FormatInt(result.ContentLength, 10),
		result.RedirectURL,
		strings.Join(result.Addresses, " "),
		result.Timestamp.Format(time.RFC3339),
	})
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

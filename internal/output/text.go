package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// TextWriter writes one found entry per line: "status size url" in path
// mode, "host addresses" in subdomain mode.
type TextWriter struct {
	w      io.Writer
	closer io.Closer
}

// NewTextWriter creates a text output writer. If outputFile is empty,
// stdout is used.
func NewTextWriter(outputFile string) (*TextWriter, error) {
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
	return &TextWriter{w: w, closer: closer}, nil
}

func (t *TextWriter) WriteHeader() error { return nil }

func (t *TextWriter) WriteResult(result *scanner.Result) error {
	if result.Host != "" {
		_, err := fmt.Fprintf(t.w, "%s %s\n", result.Host, strings.Join(result.Addresses, ","))
		return err
	}
	_, err := fmt.Fprintf(t.w, "%3d %8d %s\n", result.StatusCode, result.ContentLength, result.URL)
	return err
}

func (t *TextWriter) WriteFooter(_ Stats) error { return nil }

func (t *TextWriter) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

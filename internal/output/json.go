package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// Entry is one found result as serialized to JSON.
type Entry struct {
	Target     string   `json:"target"`
	Entry      string   `json:"entry"`
	Status     int      `json:"status,omitempty"`
	Size       int64    `json:"size,omitempty"`
	Redirect   string   `json:"redirect,omitempty"`
	Addresses  []string `json:"addresses,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	Timestamp  string   `json:"timestamp"`
}

// JSONWriter buffers results and writes them as one indented JSON array.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []Entry
}

// NewJSONWriter creates a JSON output writer. If outputFile is empty,
// stdout is used.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
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
	return &JSONWriter{w: w, closer: closer, entries: []Entry{}}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *scanner.Result) error {
	j.entries = append(j.entries, Entry{
		Target:     result.Target(),
		Entry:      result.Entry,
		Status:     result.StatusCode,
		Size:       result.ContentLength,
		Redirect:   result.RedirectURL,
		Addresses:  result.Addresses,
		DurationMS: result.Duration.Milliseconds(),
		Timestamp:  result.Timestamp.Format(time.RFC3339),
	})
	return nil
}

func (j *JSONWriter) WriteFooter(_ Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.entries)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

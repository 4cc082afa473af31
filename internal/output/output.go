package output

import (
	"time"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// Stats holds aggregate scan statistics for the final summary.
type Stats struct {
	TotalProbes  int
	Found        int
	NotFound     int
	Errors       int
	Duration     time.Duration
	ProbesPerSec float64
}

// Writer serializes the found results of a completed scan. One
// implementation per output format.
type Writer interface {
	WriteHeader() error
	WriteResult(result *scanner.Result) error
	WriteFooter(stats Stats) error
	Close() error
}

// NewWriter returns the writer for the given format ("txt", "json", "csv"),
// writing to stdout when outputFile is empty.
func NewWriter(format, outputFile string) (Writer, error) {
	switch format {
	case "json":
		return NewJSONWriter(outputFile)
	case "csv":
		return NewCSVWriter(outputFile)
	default:
		return NewTextWriter(outputFile)
	}
}

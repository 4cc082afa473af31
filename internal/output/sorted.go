package output

import (
	"sort"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// SortedWriter buffers results and replays them to the wrapped writer in
// sorted order when WriteFooter is called. Without it, results appear in
// probe-completion order.
type SortedWriter struct {
	inner   Writer
	sortBy  string // "entry", "status", "size"
	results []*scanner.Result
}

// NewSortedWriter wraps inner and buffers results for sorted replay.
func NewSortedWriter(inner Writer, sortBy string) *SortedWriter {
	return &SortedWriter{inner: inner, sortBy: sortBy}
}

func (w *SortedWriter) WriteHeader() error {
	return w.inner.WriteHeader()
}

func (w *SortedWriter) WriteResult(result *scanner.Result) error {
	cpy := *result
	w.results = append(w.results, &cpy)
	return nil
}

func (w *SortedWriter) WriteFooter(stats Stats) error {
	sort.SliceStable(w.results, func(i, j int) bool {
		switch w.sortBy {
		case "status":
			return w.results[i].StatusCode < w.results[j].StatusCode
		case "size":
			return w.results[i].ContentLength < w.results[j].ContentLength
		case "entry":
			return w.results[i].Entry < w.results[j].Entry
		default:
			return false
		}
	})
	for _, r := range w.results {
		if err := w.inner.WriteResult(r); err != nil {
			return err
		}
	}
	return w.inner.WriteFooter(stats)
}

func (w *SortedWriter) Close() error {
	return w.inner.Close()
}

package scanner

// WorkItem represents a single unit of work for the worker pool: one
// wordlist entry to probe. Each item is dispatched exactly once per run.
type WorkItem struct {
	Entry string
}

package filter

import "github.com/zeeshan01001/pathfinder/internal/scanner"

// Filter demotes an otherwise-found probe result back to not-found.
type Filter interface {
	Name() string
	ShouldFilter(result *scanner.Result) bool
}

// Chain applies multiple filters in order, short-circuiting on the first match.
type Chain struct {
	filters []Filter
}

// NewChain returns an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply runs every filter against the result. Returns true and the filter
// name if the result should be demoted.
func (c *Chain) Apply(result *scanner.Result) (bool, string) {
	for _, f := range c.filters {
		if f.ShouldFilter(result) {
			return true, f.Name()
		}
	}
	return false, ""
}

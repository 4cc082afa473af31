package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// State tracks which wordlist entries a scan has completed so an interrupted
// run can be resumed without re-probing them.
type State struct {
	Target           string   `json:"target"`
	Mode             string   `json:"mode"` // "paths" or "subdomains"
	CompletedEntries []string `json:"completed_entries"`
	TotalEntries     int      `json:"total_entries"`

	mu   sync.Mutex
	path string
	done map[string]struct{}
}

// New creates an empty state that will be saved to the given path.
func New(path, target, mode string, total int) *State {
	return &State{
		Target:       target,
		Mode:         mode,
		TotalEntries: total,
		path:         path,
		done:         make(map[string]struct{}),
	}
}

// Load reads an existing state from disk. Returns nil if the file does
// not exist.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing resume file: %w", err)
	}

	s.path = path
	s.done = make(map[string]struct{}, len(s.CompletedEntries))
	for _, e := range s.CompletedEntries {
		s.done[e] = struct{}{}
	}
	return &s, nil
}

// Matches reports whether the saved state belongs to the same scan.
func (s *State) Matches(target, mode string) bool {
	return s.Target == target && s.Mode == mode
}

// MarkCompleted records an entry as done.
func (s *State) MarkCompleted(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.done[entry]; !ok {
		s.done[entry] = struct{}{}
		s.CompletedEntries = append(s.CompletedEntries, entry)
	}
}

// FilterRemaining returns only entries that have not been completed yet.
func (s *State) FilterRemaining(entries []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var remaining []string
	for _, e := range entries {
		if _, ok := s.done[e]; !ok {
			remaining = append(remaining, e)
		}
	}
	return remaining
}

// Save writes the current state to disk.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing resume state: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Remove deletes the resume file (called on successful completion).
func (s *State) Remove() error {
	return os.Remove(s.path)
}

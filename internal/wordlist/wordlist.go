package wordlist

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed wordlists/paths.txt
var embeddedPaths string

//go:embed wordlists/paths_thorough.txt
var embeddedPathsThorough string

//go:embed wordlists/subdomains.txt
var embeddedSubdomains string

//go:embed wordlists/subdomains_thorough.txt
var embeddedSubdomainsThorough string

// Load returns the candidate entries for a scan. If path is non-empty, the
// file is read and a missing file is a fatal error. Otherwise the embedded
// list matching the scan mode is used; thorough selects the larger set.
func Load(path string, subdomains, thorough bool) ([]string, error) {
	var raw string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading wordlist %s: %w", path, err)
		}
		raw = string(data)
	} else {
		switch {
		case subdomains && thorough:
			raw = embeddedSubdomainsThorough
		case subdomains:
			raw = embeddedSubdomains
		case thorough:
			raw = embeddedPathsThorough
		default:
			raw = embeddedPaths
		}
	}

	entries := parse(raw)
	if len(entries) == 0 {
		return nil, fmt.Errorf("wordlist is empty")
	}
	return entries, nil
}

// ExpandExtensions multiplies each base entry by each extension. With no
// extensions the entries are returned as-is. An entry that already carries
// one of the extensions is kept bare instead of double-suffixed. The result
// is de-duplicated so no target is probed twice.
func ExpandExtensions(entries, extensions []string) []string {
	if len(extensions) == 0 {
		return entries
	}

	seen := make(map[string]struct{}, len(entries)*len(extensions))
	result := make([]string, 0, len(entries)*len(extensions))
	add := func(e string) {
		if _, ok := seen[e]; !ok {
			seen[e] = struct{}{}
			result = append(result, e)
		}
	}

	for _, entry := range entries {
		for _, ext := range extensions {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext == "" || strings.HasSuffix(entry, "."+ext) {
				add(entry)
				continue
			}
			add(entry + "." + ext)
		}
	}
	return result
}

// parse splits raw wordlist text into trimmed entries, skipping blank lines
// and comments, de-duplicating while preserving first-seen order.
func parse(raw string) []string {
	lines := strings.Split(raw, "\n")
	seen := make(map[string]struct{}, len(lines))
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.Trim(line, "/")
		if line == "" {
			continue
		}
		if _, ok := seen[line]; !ok {
			seen[line] = struct{}{}
			result = append(result, line)
		}
	}
	return result
}

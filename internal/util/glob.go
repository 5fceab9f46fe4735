package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter decides which walked paths are left out of a dump.
// A path is excluded when it matches an exclude pattern and no keep
// pattern (written with a leading "!").
type PathFilter struct {
	excludePatterns []string
	keepPatterns    []string
}

// ParsePathFilter parses a comma-separated list of glob patterns,
// e.g. "/proc/[0-9]*,/sys/kernel/debug/**,!/proc/1".
// An empty list yields a filter that excludes nothing.
func ParsePathFilter(patterns string) (*PathFilter, error) {
	pf := &PathFilter{}

	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		keep := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(pattern, "!")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern '%s'", pattern)
		}
		if keep {
			pf.keepPatterns = append(pf.keepPatterns, pattern)
		} else {
			pf.excludePatterns = append(pf.excludePatterns, pattern)
		}
	}

	return pf, nil
}

// Empty reports whether the filter has no exclude patterns
func (pf *PathFilter) Empty() bool {
	return pf == nil || len(pf.excludePatterns) == 0
}

// Excluded reports whether path should be skipped.
// A nil filter excludes nothing.
func (pf *PathFilter) Excluded(path string) bool {
	if pf.Empty() {
		return false
	}
	path = filepath.ToSlash(path)

	if !matchAny(pf.excludePatterns, path) {
		return false
	}
	return !matchAny(pf.keepPatterns, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		// patterns were validated by ParsePathFilter
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

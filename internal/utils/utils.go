package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank patterns are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the forward-slash relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return filepath.ToSlash(cleanPath)
	}
	return filepath.ToSlash(relativePath)
}

type exclusionMatcher struct {
	pattern       string
	matcher       glob.Glob
	directoryOnly bool
	matchesPath   bool
}

// EntryFilter decides which directory entries are skipped during traversal.
// Hidden entries and entries named after an excluded directory are always
// skipped; exclusion globs are matched against the entry name when the
// pattern has a single segment and against the root-relative path otherwise.
// A trailing slash restricts a pattern to directories.
type EntryFilter struct {
	excludedNames map[string]struct{}
	exclusions    []exclusionMatcher
}

// NewEntryFilter compiles the exclusion patterns into an EntryFilter.
func NewEntryFilter(excludedNames []string, exclusionPatterns []string) (*EntryFilter, error) {
	filter := &EntryFilter{excludedNames: make(map[string]struct{}, len(excludedNames))}
	for _, excludedName := range DeduplicatePatterns(excludedNames) {
		filter.excludedNames[strings.TrimSuffix(excludedName, pathSegmentSeparator)] = struct{}{}
	}
	for _, pattern := range DeduplicatePatterns(exclusionPatterns) {
		normalizedPattern := strings.ReplaceAll(pattern, "\\", pathSegmentSeparator)
		directoryOnly := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		trimmedPattern := strings.Trim(normalizedPattern, pathSegmentSeparator)
		if trimmedPattern == "" {
			continue
		}
		compiledMatcher, compileError := glob.Compile(trimmedPattern, '/')
		if compileError != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", pattern, compileError)
		}
		filter.exclusions = append(filter.exclusions, exclusionMatcher{
			pattern:       pattern,
			matcher:       compiledMatcher,
			directoryOnly: directoryOnly,
			matchesPath:   strings.Contains(trimmedPattern, pathSegmentSeparator),
		})
	}
	return filter, nil
}

// ShouldSkip reports whether the entry at relativePath must be left out of the tree.
func (filter *EntryFilter) ShouldSkip(relativePath string, isDirectory bool) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	entryName := normalizedPath
	if separatorIndex := strings.LastIndex(normalizedPath, pathSegmentSeparator); separatorIndex >= 0 {
		entryName = normalizedPath[separatorIndex+1:]
	}
	if strings.HasPrefix(entryName, HiddenEntryPrefix) {
		return true
	}
	if filter == nil {
		return false
	}
	if _, excluded := filter.excludedNames[entryName]; excluded {
		return true
	}
	for _, exclusion := range filter.exclusions {
		if exclusion.directoryOnly && !isDirectory {
			continue
		}
		candidate := entryName
		if exclusion.matchesPath {
			candidate = normalizedPath
		}
		if exclusion.matcher.Match(candidate) {
			return true
		}
	}
	return false
}

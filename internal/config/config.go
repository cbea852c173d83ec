// Package config resolves sigmap settings from YAML files and turns ignore
// files into exclusion globs.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/sigmap/internal/utils"
)

const (
	ignoreCommentMarker  = "#"
	ignoreNegationMarker = "!"
	ignoreAnchorMarker   = "/"

	errorOpenIgnoreFormat = "opening %s: %w"
	errorScanIgnoreFormat = "scanning %s: %w"
	errorLoadIgnoreFormat = "loading %s from %s: %w"
)

// LoadIgnoreFilePatterns returns the exclusion globs listed in an ignore file.
// Negated entries cannot be expressed as exclusions and are dropped; so are
// comments and blank lines. A missing file has no patterns.
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	// #nosec G304
	content, readError := os.ReadFile(ignoreFilePath)
	if errors.Is(readError, fs.ErrNotExist) {
		return nil, nil
	}
	if readError != nil {
		return nil, fmt.Errorf(errorOpenIgnoreFormat, ignoreFilePath, readError)
	}

	var patterns []string
	lineScanner := bufio.NewScanner(strings.NewReader(string(content)))
	for lineScanner.Scan() {
		if pattern, usable := ignoreLinePattern(lineScanner.Text()); usable {
			patterns = append(patterns, pattern)
		}
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorScanIgnoreFormat, ignoreFilePath, scanError)
	}
	return patterns, nil
}

func ignoreLinePattern(line string) (string, bool) {
	trimmedLine := strings.TrimSpace(line)
	switch {
	case trimmedLine == "":
		return "", false
	case strings.HasPrefix(trimmedLine, ignoreCommentMarker), strings.HasPrefix(trimmedLine, ignoreNegationMarker):
		return "", false
	}
	pattern := strings.TrimPrefix(trimmedLine, ignoreAnchorMarker)
	return pattern, pattern != ""
}

// LoadCombinedIgnorePatterns gathers the patterns of the enabled ignore files
// in rootDirectory (.sigmapignore first, then .gitignore) followed by
// exclusionPatterns, without duplicates.
func LoadCombinedIgnorePatterns(rootDirectory string, exclusionPatterns []string, useGitignore bool, useIgnoreFile bool) ([]string, error) {
	ignoreFiles := []struct {
		name    string
		enabled bool
	}{
		{name: utils.IgnoreFileName, enabled: useIgnoreFile},
		{name: utils.GitIgnoreFileName, enabled: useGitignore},
	}

	var combinedPatterns []string
	for _, ignoreFile := range ignoreFiles {
		if !ignoreFile.enabled {
			continue
		}
		filePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(rootDirectory, ignoreFile.name))
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFormat, ignoreFile.name, rootDirectory, loadError)
		}
		combinedPatterns = append(combinedPatterns, filePatterns...)
	}
	return utils.DeduplicatePatterns(append(combinedPatterns, exclusionPatterns...)), nil
}

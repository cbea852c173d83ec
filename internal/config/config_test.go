package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/sigmap/internal/utils"
)

func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(filePath), err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o600); err != nil {
		testingHandle.Fatalf("write %s: %v", filePath, err)
	}
}

func TestLoadIgnoreFilePatternsSkipsCommentsAndNegations(t *testing.T) {
	ignoreFilePath := filepath.Join(t.TempDir(), utils.IgnoreFileName)
	writeTestFile(t, ignoreFilePath, "# generated\n\n/dist\n!keep.ts\n  *.spec.ts  \nfixtures/\n")

	patterns, err := LoadIgnoreFilePatterns(ignoreFilePath)
	if err != nil {
		t.Fatalf("LoadIgnoreFilePatterns error: %v", err)
	}
	expected := []string{"dist", "*.spec.ts", "fixtures/"}
	if !reflect.DeepEqual(patterns, expected) {
		t.Fatalf("patterns = %v, want %v", patterns, expected)
	}
}

func TestLoadIgnoreFilePatternsMissingFile(t *testing.T) {
	patterns, err := LoadIgnoreFilePatterns(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadIgnoreFilePatterns error: %v", err)
	}
	if len(patterns) != 0 {
		t.Fatalf("expected no patterns, got %v", patterns)
	}
}

func TestLoadCombinedIgnorePatterns(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, utils.IgnoreFileName), "generated/\nshared\n")
	writeTestFile(t, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "coverage/\nshared\n")

	testCases := []struct {
		name          string
		useGitignore  bool
		useIgnoreFile bool
		exclusions    []string
		expected      []string
	}{
		{
			name:          "ignore_file_only",
			useIgnoreFile: true,
			exclusions:    []string{"*.d.ts"},
			expected:      []string{"generated/", "shared", "*.d.ts"},
		},
		{
			name:          "both_files_deduplicated",
			useGitignore:  true,
			useIgnoreFile: true,
			exclusions:    []string{"shared"},
			expected:      []string{"generated/", "shared", "coverage/"},
		},
		{
			name:         "gitignore_only",
			useGitignore: true,
			expected:     []string{"coverage/", "shared"},
		},
		{
			name:       "exclusions_only",
			exclusions: []string{"dist/"},
			expected:   []string{"dist/"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(subTest *testing.T) {
			patterns, err := LoadCombinedIgnorePatterns(rootDirectory, testCase.exclusions, testCase.useGitignore, testCase.useIgnoreFile)
			if err != nil {
				subTest.Fatalf("LoadCombinedIgnorePatterns error: %v", err)
			}
			if !reflect.DeepEqual(patterns, testCase.expected) {
				subTest.Fatalf("patterns = %v, want %v", patterns, testCase.expected)
			}
		})
	}
}

// Package utils holds helpers shared across sigmap packages.
package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion = "unknown"
	develVersion   = "(devel)"
)

// Version is set at link time with -ldflags "-X github.com/temirov/sigmap/internal/utils.Version=...".
var Version string

var gitDescribeAttempts = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the linked version, then the module version
// from build info, then git describe output for a source checkout.
func GetApplicationVersion() string {
	if strings.TrimSpace(Version) != "" {
		return strings.TrimSpace(Version)
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if moduleVersion := buildInfo.Main.Version; moduleVersion != "" && moduleVersion != develVersion {
			return moduleVersion
		}
	}
	repositoryRoot, found := findRepositoryRoot(".")
	if !found {
		return unknownVersion
	}
	for _, arguments := range gitDescribeAttempts {
		// #nosec G204
		describeCommand := exec.Command("git", arguments...)
		describeCommand.Dir = repositoryRoot
		if describeOutput, describeError := describeCommand.Output(); describeError == nil {
			if described := strings.TrimSpace(string(describeOutput)); described != "" {
				return described
			}
		}
	}
	return unknownVersion
}

// findRepositoryRoot walks up from startDirectory to the first directory holding .git.
func findRepositoryRoot(startDirectory string) (string, bool) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", false
	}
	for {
		if information, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil && information.IsDir() {
			return currentDirectory, true
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", false
		}
		currentDirectory = parentDirectory
	}
}

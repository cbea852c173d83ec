// Package output renders signature trees as JSON and as an indented outline
// and writes them to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/sigmap/internal/types"
)

const (
	// DefaultTreePath is where the JSON tree is written unless configured otherwise.
	DefaultTreePath = "outputs/output.json"
	// DefaultOutlinePath is where the outline document is written unless configured otherwise.
	DefaultOutlinePath = "outputs/output.txt"

	artifactDirectoryPermissions = 0o755
	artifactFilePermissions      = 0o644

	errorRenderTreeFormat      = "rendering tree: %w"
	errorCreateDirectoryFormat = "creating directory %s: %w"
	errorWriteArtifactFormat   = "writing %s: %w"
)

// ArtifactPaths names the files produced by a run. An empty path skips that artifact.
type ArtifactPaths struct {
	TreePath    string
	OutlinePath string
}

// Artifacts carries the rendered documents so callers can reuse them after writing.
type Artifacts struct {
	TreeJSON string
	Outline  string
}

// WriteArtifacts renders root once and writes the JSON tree and the outline
// document, creating parent directories as needed.
func WriteArtifacts(root *types.TreeNode, paths ArtifactPaths, header string) (Artifacts, error) {
	treeJSON, renderError := RenderTreeJSON(root)
	if renderError != nil {
		return Artifacts{}, fmt.Errorf(errorRenderTreeFormat, renderError)
	}
	artifacts := Artifacts{TreeJSON: treeJSON, Outline: RenderDocument(header, root)}

	if writeError := writeArtifact(paths.TreePath, artifacts.TreeJSON); writeError != nil {
		return Artifacts{}, writeError
	}
	if writeError := writeArtifact(paths.OutlinePath, artifacts.Outline); writeError != nil {
		return Artifacts{}, writeError
	}
	return artifacts, nil
}

func writeArtifact(path string, contents string) error {
	if path == "" {
		return nil
	}
	directory := filepath.Dir(path)
	if makeDirectoryError := os.MkdirAll(directory, artifactDirectoryPermissions); makeDirectoryError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, directory, makeDirectoryError)
	}
	if writeError := os.WriteFile(path, []byte(contents), artifactFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteArtifactFormat, path, writeError)
	}
	return nil
}

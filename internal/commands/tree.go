// Package commands contains the core logic for data collection for each command.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/sigmap/internal/signature"
	"github.com/temirov/sigmap/internal/types"
	"github.com/temirov/sigmap/internal/utils"
	"go.uber.org/zap"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"

	// errorReadFileFormat is used when a source file cannot be read.
	errorReadFileFormat = "reading file %s: %w"

	// errorParseFileFormat is used when a source file cannot be parsed.
	errorParseFileFormat = "parsing file %s: %w"

	warningFileSummaryFailed      = "Warning: file summary unavailable"
	warningFunctionSummaryFailed  = "Warning: declaration summaries unavailable"
	warningBinarySourceSkipped    = "Warning: skipping binary file with source extension"
	debugFileWithoutDeclarations  = "file has no top-level declarations"
	debugProcessingFile           = "processing file"
	rootDirectoryNameFallback     = "."
	parentDirectoryName           = ".."
	filesystemRootDirectoryMarker = string(filepath.Separator)
)

var descriptionLineBreakRemover = strings.NewReplacer("\n", "", "\r", "")

// Build walks rootPath depth-first and returns its directory node. File nodes
// appear only for files with at least one top-level declaration; directory
// nodes always appear. When enhance is set, files and declarations are
// described by the Summarizer; summarizer failures degrade to empty
// descriptions while filesystem and parse failures abort the walk.
func (treeBuilder *TreeBuilder) Build(ctx context.Context, rootPath string, enhance bool) (*types.TreeNode, error) {
	if enhance && treeBuilder.Summarizer == nil {
		return nil, ErrSummarizerRequired
	}
	if treeBuilder.Parser == nil {
		return nil, ErrParserRequired
	}
	rootName, rootNameError := directoryDisplayName(rootPath)
	if rootNameError != nil {
		return nil, rootNameError
	}

	filter := treeBuilder.Filter
	if filter == nil {
		defaultFilter, filterError := utils.NewEntryFilter(DefaultExcludedDirectories, nil)
		if filterError != nil {
			return nil, filterError
		}
		filter = defaultFilter
	}

	children, buildError := treeBuilder.buildTreeNodes(ctx, filter, rootPath, rootPath, enhance)
	if buildError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, rootPath, buildError)
	}
	return &types.TreeNode{
		Name:     rootName,
		Type:     types.NodeTypeDirectory,
		Children: children,
	}, nil
}

// buildTreeNodes recursively builds child nodes for the directory tree.
func (treeBuilder *TreeBuilder) buildTreeNodes(ctx context.Context, filter *utils.EntryFilter, currentDirectoryPath string, rootDirectoryPath string, enhance bool) ([]*types.TreeNode, error) {
	nodes := []*types.TreeNode{}

	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	for _, directoryEntry := range directoryEntries {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if filter.ShouldSkip(relativeChildPath, directoryEntry.IsDir()) {
			continue
		}

		if directoryEntry.IsDir() {
			grandChildren, subdirectoryError := treeBuilder.buildTreeNodes(ctx, filter, childPath, rootDirectoryPath, enhance)
			if subdirectoryError != nil {
				return nil, subdirectoryError
			}
			nodes = append(nodes, &types.TreeNode{
				Name:     directoryEntry.Name(),
				Type:     types.NodeTypeDirectory,
				Children: grandChildren,
			})
			continue
		}

		if !directoryEntry.Type().IsRegular() || !strings.HasSuffix(directoryEntry.Name(), treeBuilder.extension()) {
			continue
		}
		fileNode, fileError := treeBuilder.buildFileNode(ctx, childPath, relativeChildPath, directoryEntry.Name(), enhance)
		if fileError != nil {
			return nil, fileError
		}
		if fileNode != nil {
			nodes = append(nodes, fileNode)
		}
	}

	return nodes, nil
}

// buildFileNode returns nil when the file declares no functions, interfaces or classes.
func (treeBuilder *TreeBuilder) buildFileNode(ctx context.Context, filePath string, relativePath string, fileName string, enhance bool) (*types.TreeNode, error) {
	logger := treeBuilder.logger()
	if treeBuilder.Observer != nil {
		treeBuilder.Observer(relativePath)
	}
	logger.Debug(debugProcessingFile, zap.String("path", relativePath))

	fileContents, readFileError := os.ReadFile(filePath)
	if readFileError != nil {
		return nil, fmt.Errorf(errorReadFileFormat, filePath, readFileError)
	}
	if utils.IsBinary(fileContents) {
		logger.Warn(warningBinarySourceSkipped, zap.String("path", relativePath))
		return nil, nil
	}

	var fileDescription string
	var descriptions map[string]string
	if enhance {
		fileDescription, descriptions = treeBuilder.describe(ctx, relativePath, string(fileContents))
	}

	syntaxTree, parseError := treeBuilder.Parser.ParseSyntaxTree(ctx, filePath, fileContents)
	if parseError != nil {
		return nil, fmt.Errorf(errorParseFileFormat, filePath, parseError)
	}
	signatures := signature.Extract(syntaxTree, descriptions)
	if signatures.IsEmpty() {
		logger.Debug(debugFileWithoutDeclarations, zap.String("path", relativePath))
		return nil, nil
	}
	return &types.TreeNode{
		Name:        fileName,
		Type:        types.NodeTypeFile,
		Path:        filePath,
		Description: fileDescription,
		Signatures:  &signatures,
	}, nil
}

func (treeBuilder *TreeBuilder) describe(ctx context.Context, relativePath string, fileContents string) (string, map[string]string) {
	logger := treeBuilder.logger()
	fileDescription, fileSummaryError := treeBuilder.Summarizer.SummarizeFile(ctx, fileContents)
	if fileSummaryError != nil {
		logger.Warn(warningFileSummaryFailed, zap.String("path", relativePath), zap.Error(fileSummaryError))
		fileDescription = ""
	}
	descriptions, functionSummaryError := treeBuilder.Summarizer.SummarizeFunctions(ctx, fileContents)
	if functionSummaryError != nil {
		logger.Warn(warningFunctionSummaryFailed, zap.String("path", relativePath), zap.Error(functionSummaryError))
		descriptions = map[string]string{}
	}
	if descriptions == nil {
		descriptions = map[string]string{}
	}
	return descriptionLineBreakRemover.Replace(fileDescription), descriptions
}

func (treeBuilder *TreeBuilder) extension() string {
	if treeBuilder.Extension == "" {
		return DefaultExtension
	}
	return treeBuilder.Extension
}

func (treeBuilder *TreeBuilder) logger() *zap.Logger {
	if treeBuilder.Logger == nil {
		return zap.NewNop()
	}
	return treeBuilder.Logger
}

// directoryDisplayName names the root node after the last element of rootPath,
// resolving "." and similar through the absolute path.
func directoryDisplayName(rootPath string) (string, error) {
	baseName := filepath.Base(filepath.Clean(rootPath))
	if baseName != rootDirectoryNameFallback && baseName != parentDirectoryName && baseName != filesystemRootDirectoryMarker {
		return baseName, nil
	}
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	return filepath.Base(absoluteRootPath), nil
}

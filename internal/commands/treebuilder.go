package commands

import (
	"context"
	"errors"

	"github.com/temirov/sigmap/internal/signature"
	"github.com/temirov/sigmap/internal/summarizer"
	"github.com/temirov/sigmap/internal/utils"
	"go.uber.org/zap"
)

// DefaultExtension selects the source files the builder inspects.
const DefaultExtension = ".ts"

// DefaultExcludedDirectories are skipped when no Filter is configured.
var DefaultExcludedDirectories = []string{"node_modules"}

// ErrSummarizerRequired indicates that enhancement was requested without a summarizer.
var ErrSummarizerRequired = errors.New("commands: enhancement requested but no summarizer is configured")

// ErrParserRequired indicates that the builder was constructed without a parser.
var ErrParserRequired = errors.New("commands: no parser is configured")

// SyntaxTreeParser turns the contents of one source file into a syntax tree.
type SyntaxTreeParser interface {
	ParseSyntaxTree(ctx context.Context, path string, source []byte) (signature.SyntaxTree, error)
}

// TreeBuilder builds the signature tree of a directory using configured
// collaborators. A nil Filter skips hidden entries and DefaultExcludedDirectories.
type TreeBuilder struct {
	Extension  string
	Filter     *utils.EntryFilter
	Parser     SyntaxTreeParser
	Summarizer summarizer.Summarizer
	Logger     *zap.Logger
	// Observer, when set, is notified with the root-relative path of every
	// qualifying file before it is processed.
	Observer func(relativePath string)
}

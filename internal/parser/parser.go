//go:build cgo

package parser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.uber.org/zap"
)

// Parser parses TypeScript files and keeps the declarations of the most
// recently parsed ones in an LRU cache keyed by path. A Parser is not safe for
// concurrent use.
type Parser struct {
	logger           *zap.Logger
	cache            *lru.Cache[string, *ParsedFile]
	typescriptParser *sitter.Parser
	tsxParser        *sitter.Parser
}

// NewParser constructs a Parser retaining at most cacheSize parsed files.
// Non-positive sizes fall back to DefaultCacheSize.
func NewParser(cacheSize int, logger *zap.Logger) (*Parser, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, cacheError := lru.New[string, *ParsedFile](cacheSize)
	if cacheError != nil {
		return nil, fmt.Errorf(errorCacheCreateFormat, cacheError)
	}
	typescriptParser := sitter.NewParser()
	typescriptParser.SetLanguage(typescript.GetLanguage())
	tsxParser := sitter.NewParser()
	tsxParser.SetLanguage(tsx.GetLanguage())
	return &Parser{
		logger:           logger,
		cache:            cache,
		typescriptParser: typescriptParser,
		tsxParser:        tsxParser,
	}, nil
}

// Parse returns the parsed representation of source. A cached result is
// reused when the same path was already parsed with identical contents.
// Syntax errors are tolerated and logged; tree-sitter recovers the rest of the file.
func (parser *Parser) Parse(ctx context.Context, path string, source []byte) (*ParsedFile, error) {
	if cached, found := parser.cache.Get(path); found && bytes.Equal(cached.source, source) {
		return cached, nil
	}
	languageParser := parser.typescriptParser
	if strings.EqualFold(filepath.Ext(path), tsxFileExtension) {
		languageParser = parser.tsxParser
	}
	tree, parseError := languageParser.ParseCtx(ctx, nil, source)
	if parseError != nil {
		return nil, fmt.Errorf(errorParseFormat, path, parseError)
	}
	rootNode := tree.RootNode()
	if rootNode.HasError() {
		parser.logger.Warn(warningSyntaxErrors, zap.String("path", path))
	}
	parsedFile := newParsedFile(path, source, rootNode)
	tree.Close()
	parser.cache.Add(path, parsedFile)
	return parsedFile, nil
}

// Close drops the cached files and releases the underlying tree-sitter parsers.
func (parser *Parser) Close() {
	parser.cache.Purge()
	parser.typescriptParser.Close()
	parser.tsxParser.Close()
}

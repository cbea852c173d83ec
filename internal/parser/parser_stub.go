//go:build !cgo

package parser

import (
	"context"

	"github.com/temirov/sigmap/internal/signature"
	"go.uber.org/zap"
)

// Parser is unavailable without cgo; every Parse call fails with ErrParserUnavailable.
type Parser struct{}

// ParsedFile never carries declarations in builds without cgo.
type ParsedFile struct {
	Path string
}

// NewParser returns a Parser whose Parse always fails so callers can report
// the missing grammar instead of silently producing an empty tree.
func NewParser(int, *zap.Logger) (*Parser, error) {
	return &Parser{}, nil
}

// Parse reports ErrParserUnavailable.
func (parser *Parser) Parse(context.Context, string, []byte) (*ParsedFile, error) {
	return nil, ErrParserUnavailable
}

// Close is a no-op.
func (parser *Parser) Close() {}

func (parsedFile *ParsedFile) Functions() []signature.FunctionDeclaration { return nil }

func (parsedFile *ParsedFile) Interfaces() []signature.InterfaceDeclaration { return nil }

func (parsedFile *ParsedFile) Classes() []signature.ClassDeclaration { return nil }

func (parsedFile *ParsedFile) ResolveType(signature.TypePosition) string { return "" }

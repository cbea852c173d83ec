package parser

import (
	"context"

	"github.com/temirov/sigmap/internal/signature"
)

// ParseSyntaxTree is Parse viewed through signature.SyntaxTree.
func (parser *Parser) ParseSyntaxTree(ctx context.Context, path string, source []byte) (signature.SyntaxTree, error) {
	parsedFile, parseError := parser.Parse(ctx, path, source)
	if parseError != nil {
		return nil, parseError
	}
	return parsedFile, nil
}

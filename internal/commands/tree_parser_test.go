//go:build cgo

package commands_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/temirov/sigmap/internal/commands"
	"github.com/temirov/sigmap/internal/parser"
	"go.uber.org/zap"
)

func TestBuildWithTreeSitterParser(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, subdirectoryName, variablesFileName), variablesFileSource)
	sourceParser, parserError := parser.NewParser(parser.DefaultCacheSize, zap.NewNop())
	if parserError != nil {
		testingHandle.Fatalf("NewParser error: %v", parserError)
	}
	defer sourceParser.Close()
	treeBuilder := &commands.TreeBuilder{Parser: sourceParser, Logger: zap.NewNop()}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, false)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(rootNode.Children) != 2 {
		testingHandle.Fatalf("expected file and directory, got %+v", rootNode.Children)
	}
	functions := rootNode.Children[0].Signatures.Functions
	if len(functions) != 1 || functions[0].Name != functionName || functions[0].ReturnType != "string" {
		testingHandle.Fatalf("unexpected functions: %+v", functions)
	}
	if parameters := functions[0].Parameters; len(parameters) != 1 || parameters[0].Name != "x" || parameters[0].Type != "number" {
		testingHandle.Fatalf("unexpected parameters: %+v", parameters)
	}
	if subdirectoryNode := rootNode.Children[1]; len(subdirectoryNode.Children) != 0 {
		testingHandle.Fatalf("expected variables-only file to be omitted, got %+v", subdirectoryNode.Children)
	}
}

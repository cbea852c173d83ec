package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/sigmap/internal/commands"
	"github.com/temirov/sigmap/internal/signature"
	"github.com/temirov/sigmap/internal/types"
	"github.com/temirov/sigmap/internal/utils"
	"go.uber.org/zap"
)

const (
	sourceFileName      = "a.ts"
	subdirectoryName    = "sub"
	variablesFileName   = "vars.ts"
	functionName        = "f"
	numberTypePosition  = signature.TypePosition(1)
	stringTypePosition  = signature.TypePosition(2)
	sourceFileContents  = "export function f(x: number): string { return \"\"; }\n"
	variablesFileSource = "export const limit = 1;\n"
)

type fakeSyntaxTree struct {
	functions []signature.FunctionDeclaration
}

func (tree fakeSyntaxTree) Functions() []signature.FunctionDeclaration { return tree.functions }

func (tree fakeSyntaxTree) Interfaces() []signature.InterfaceDeclaration { return nil }

func (tree fakeSyntaxTree) Classes() []signature.ClassDeclaration { return nil }

func (tree fakeSyntaxTree) ResolveType(position signature.TypePosition) string {
	switch position {
	case numberTypePosition:
		return "number"
	case stringTypePosition:
		return "string"
	default:
		return ""
	}
}

type fakeParser struct {
	trees       map[string]fakeSyntaxTree
	parsedPaths []string
	err         error
}

func newFakeParser() *fakeParser {
	return &fakeParser{trees: map[string]fakeSyntaxTree{
		sourceFileName: {functions: []signature.FunctionDeclaration{{
			Name:       functionName,
			Parameters: []signature.ParameterDeclaration{{Name: "x", Type: numberTypePosition}},
			ReturnType: stringTypePosition,
		}}},
	}}
}

func (parser *fakeParser) ParseSyntaxTree(_ context.Context, path string, _ []byte) (signature.SyntaxTree, error) {
	parser.parsedPaths = append(parser.parsedPaths, path)
	if parser.err != nil {
		return nil, parser.err
	}
	return parser.trees[filepath.Base(path)], nil
}

type fakeSummarizer struct {
	fileDescription string
	descriptions    map[string]string
	fileError       error
	functionsError  error
	calls           int
}

func (summarizer *fakeSummarizer) SummarizeFile(context.Context, string) (string, error) {
	summarizer.calls++
	return summarizer.fileDescription, summarizer.fileError
}

func (summarizer *fakeSummarizer) SummarizeFunctions(context.Context, string) (map[string]string, error) {
	summarizer.calls++
	return summarizer.descriptions, summarizer.functionsError
}

func writeFixtureFile(testingHandle *testing.T, path string, contents string) {
	testingHandle.Helper()
	if makeDirectoryError := os.MkdirAll(filepath.Dir(path), 0o755); makeDirectoryError != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(path), makeDirectoryError)
	}
	if writeError := os.WriteFile(path, []byte(contents), 0o644); writeError != nil {
		testingHandle.Fatalf("writing %s: %v", path, writeError)
	}
}

// newRoundTripFixture creates root/a.ts declaring f(x: number): string and an empty root/sub.
func newRoundTripFixture(testingHandle *testing.T) string {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, sourceFileName), sourceFileContents)
	if makeDirectoryError := os.Mkdir(filepath.Join(rootDirectory, subdirectoryName), 0o755); makeDirectoryError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirectoryError)
	}
	return rootDirectory
}

func TestBuildRoundTrip(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser(), Logger: zap.NewNop()}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, false)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if rootNode.Name != filepath.Base(rootDirectory) || rootNode.Type != types.NodeTypeDirectory {
		testingHandle.Fatalf("unexpected root node: %+v", rootNode)
	}
	if len(rootNode.Children) != 2 {
		testingHandle.Fatalf("expected 2 children, got %d", len(rootNode.Children))
	}

	fileNode := rootNode.Children[0]
	if fileNode.Name != sourceFileName || fileNode.Type != types.NodeTypeFile || fileNode.Path != filepath.Join(rootDirectory, sourceFileName) {
		testingHandle.Fatalf("unexpected file node: %+v", fileNode)
	}
	if fileNode.Description != "" {
		testingHandle.Fatalf("expected no description without enhancement, got %q", fileNode.Description)
	}
	functions := fileNode.Signatures.Functions
	if len(functions) != 1 || functions[0].Name != functionName || functions[0].ReturnType != "string" || functions[0].IsAsync {
		testingHandle.Fatalf("unexpected functions: %+v", functions)
	}
	if len(functions[0].Parameters) != 1 || functions[0].Parameters[0] != (types.Parameter{Name: "x", Type: "number"}) {
		testingHandle.Fatalf("unexpected parameters: %+v", functions[0].Parameters)
	}

	subdirectoryNode := rootNode.Children[1]
	if subdirectoryNode.Name != subdirectoryName || subdirectoryNode.Type != types.NodeTypeDirectory || len(subdirectoryNode.Children) != 0 {
		testingHandle.Fatalf("unexpected subdirectory node: %+v", subdirectoryNode)
	}

	encoded, marshalError := json.Marshal(rootNode)
	if marshalError != nil {
		testingHandle.Fatalf("marshal: %v", marshalError)
	}
	encodedText := string(encoded)
	for _, expectedFragment := range []string{
		`{"name":"sub","type":"directory","children":[]}`,
		`"functions":[{"name":"f","parameters":[{"name":"x","type":"number"}],"returnType":"string","isAsync":false}]`,
		`"interfaces":[]`,
		`"classes":[]`,
	} {
		if !strings.Contains(encodedText, expectedFragment) {
			testingHandle.Fatalf("expected %s in %s", expectedFragment, encodedText)
		}
	}
	if strings.Contains(encodedText, `"description"`) {
		testingHandle.Fatalf("expected no description keys, got %s", encodedText)
	}
}

func TestBuildWithoutEnhancementNeverCallsSummarizer(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	summarizer := &fakeSummarizer{fileDescription: "unused"}
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser(), Summarizer: summarizer}

	if _, buildError := treeBuilder.Build(context.Background(), rootDirectory, false); buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if summarizer.calls != 0 {
		testingHandle.Fatalf("expected no summarizer calls, got %d", summarizer.calls)
	}
}

func TestBuildEnhancementRequiresSummarizer(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	parser := newFakeParser()
	treeBuilder := &commands.TreeBuilder{Parser: parser}

	if _, buildError := treeBuilder.Build(context.Background(), rootDirectory, true); !errors.Is(buildError, commands.ErrSummarizerRequired) {
		testingHandle.Fatalf("expected ErrSummarizerRequired, got %v", buildError)
	}
	if len(parser.parsedPaths) != 0 {
		testingHandle.Fatalf("expected no traversal before the configuration error, parsed %v", parser.parsedPaths)
	}
}

func TestBuildEnhancementAttachesDescriptions(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	summarizer := &fakeSummarizer{
		fileDescription: "Formats values.\nUsed by the CLI.\r\n",
		descriptions:    map[string]string{functionName: "Formats x."},
	}
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser(), Summarizer: summarizer}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, true)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	fileNode := rootNode.Children[0]
	if fileNode.Description != "Formats values.Used by the CLI." {
		testingHandle.Fatalf("expected line breaks to be removed, got %q", fileNode.Description)
	}
	if fileNode.Signatures.Functions[0].Description != "Formats x." {
		testingHandle.Fatalf("unexpected function description %q", fileNode.Signatures.Functions[0].Description)
	}
	if summarizer.calls != 2 {
		testingHandle.Fatalf("expected one file and one declaration summary, got %d calls", summarizer.calls)
	}
}

func TestBuildSummarizerFailuresDegrade(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	summarizer := &fakeSummarizer{
		fileDescription: "ignored",
		fileError:       errors.New("rate limited"),
		functionsError:  errors.New("rate limited"),
	}
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser(), Summarizer: summarizer, Logger: zap.NewNop()}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, true)
	if buildError != nil {
		testingHandle.Fatalf("summarizer failures must not abort the build: %v", buildError)
	}
	fileNode := rootNode.Children[0]
	if fileNode.Description != "" || fileNode.Signatures.Functions[0].Description != "" {
		testingHandle.Fatalf("expected empty descriptions after failures, got %+v", fileNode)
	}
}

func TestBuildOmitsFilesWithoutDeclarations(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, variablesFileName), variablesFileSource)
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser()}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, false)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(rootNode.Children) != 0 {
		testingHandle.Fatalf("expected declaration-less file to be omitted, got %+v", rootNode.Children)
	}
	if rootNode.Children == nil {
		testingHandle.Fatalf("expected empty, non-nil children")
	}
}

func TestBuildSkipsHiddenExcludedAndForeignEntries(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, ".hidden", sourceFileName), sourceFileContents)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "lib", sourceFileName), sourceFileContents)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, ".config.ts"), sourceFileContents)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "notes.txt"), "notes")
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "src", sourceFileName), sourceFileContents)
	parser := newFakeParser()
	treeBuilder := &commands.TreeBuilder{Parser: parser}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, false)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(rootNode.Children) != 1 || rootNode.Children[0].Name != "src" {
		testingHandle.Fatalf("expected only src directory, got %+v", rootNode.Children)
	}
	if len(parser.parsedPaths) != 1 || parser.parsedPaths[0] != filepath.Join(rootDirectory, "src", sourceFileName) {
		testingHandle.Fatalf("unexpected parsed paths: %v", parser.parsedPaths)
	}
}

func TestBuildAppliesFilterAndExtension(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "dist", sourceFileName), sourceFileContents)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "api.generated.tsx"), sourceFileContents)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "view.tsx"), sourceFileContents)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, sourceFileName), sourceFileContents)
	filter, filterError := utils.NewEntryFilter(nil, []string{"dist/", "*.generated.tsx"})
	if filterError != nil {
		testingHandle.Fatalf("NewEntryFilter error: %v", filterError)
	}
	parser := newFakeParser()
	parser.trees["view.tsx"] = parser.trees[sourceFileName]
	treeBuilder := &commands.TreeBuilder{Extension: ".tsx", Filter: filter, Parser: parser}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, false)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(rootNode.Children) != 1 || rootNode.Children[0].Name != "view.tsx" {
		testingHandle.Fatalf("expected only view.tsx, got %+v", rootNode.Children)
	}
}

func TestBuildParseFailureAborts(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	parseFailure := errors.New("grammar missing")
	parser := newFakeParser()
	parser.err = parseFailure
	treeBuilder := &commands.TreeBuilder{Parser: parser}

	if _, buildError := treeBuilder.Build(context.Background(), rootDirectory, false); !errors.Is(buildError, parseFailure) {
		testingHandle.Fatalf("expected parse failure to abort the build, got %v", buildError)
	}
}

func TestBuildMissingRootFails(testingHandle *testing.T) {
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser()}
	missingRoot := filepath.Join(testingHandle.TempDir(), "missing")
	if _, buildError := treeBuilder.Build(context.Background(), missingRoot, false); !errors.Is(buildError, os.ErrNotExist) {
		testingHandle.Fatalf("expected not-exist error, got %v", buildError)
	}
}

func TestBuildSkipsBinarySources(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, "clip.ts"), "G\x00\x11\x10")
	parser := newFakeParser()
	treeBuilder := &commands.TreeBuilder{Parser: parser}

	rootNode, buildError := treeBuilder.Build(context.Background(), rootDirectory, false)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(rootNode.Children) != 0 || len(parser.parsedPaths) != 0 {
		testingHandle.Fatalf("expected binary file to be skipped without parsing, got %+v", rootNode.Children)
	}
}

func TestBuildNotifiesObserver(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	writeFixtureFile(testingHandle, filepath.Join(rootDirectory, subdirectoryName, variablesFileName), variablesFileSource)
	var observed []string
	treeBuilder := &commands.TreeBuilder{
		Parser:   newFakeParser(),
		Observer: func(relativePath string) { observed = append(observed, relativePath) },
	}

	if _, buildError := treeBuilder.Build(context.Background(), rootDirectory, false); buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(observed) != 2 || observed[0] != sourceFileName || observed[1] != subdirectoryName+"/"+variablesFileName {
		testingHandle.Fatalf("unexpected observed paths: %v", observed)
	}
}

func TestBuildStopsOnCancelledContext(testingHandle *testing.T) {
	rootDirectory := newRoundTripFixture(testingHandle)
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()
	treeBuilder := &commands.TreeBuilder{Parser: newFakeParser()}

	if _, buildError := treeBuilder.Build(cancelledContext, rootDirectory, false); !errors.Is(buildError, context.Canceled) {
		testingHandle.Fatalf("expected context cancellation, got %v", buildError)
	}
}

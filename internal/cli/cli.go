// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sigmap/internal/commands"
	"github.com/temirov/sigmap/internal/config"
	"github.com/temirov/sigmap/internal/output"
	"github.com/temirov/sigmap/internal/parser"
	"github.com/temirov/sigmap/internal/services/clipboard"
	"github.com/temirov/sigmap/internal/summarizer"
	"github.com/temirov/sigmap/internal/tokenizer"
	"github.com/temirov/sigmap/internal/types"
	"github.com/temirov/sigmap/internal/utils"
)

const (
	rootUse              = utils.ApplicationName + " [root]"
	rootShortDescription = "map TypeScript sources to a signature tree and outline"
	rootLongDescription  = `sigmap walks a directory of TypeScript sources and records the functions,
interfaces and classes declared at the top level of every file.
It writes the tree as JSON and as an indented outline. Use --enhance to ask a
language model for a summary of each file and a description of each function.`
	rootUsageExample = `  # Map the current directory
  sigmap

  # Map ./src with language model descriptions, copying the outline
  sigmap ./src --enhance --copy

  # Write artifacts elsewhere and skip test files
  sigmap -e '*.spec.ts' --tree-output map.json --outline-output map.txt`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./` + utils.ConfigFileName + `, or with --global
to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.GlobalConfigFileName + `.`

	enhanceFlagName        = "enhance"
	configFlagName         = "config"
	exclusionFlagName      = "exclude"
	exclusionFlagShorthand = "e"
	treeOutputFlagName     = "tree-output"
	outlineOutputFlagName  = "outline-output"
	copyFlagName           = "copy"
	gitignoreFlagName      = "gitignore"
	noIgnoreFlagName       = "no-ignore"
	versionFlagName        = "version"
	verboseFlagName        = "verbose"
	globalFlagName         = "global"
	forceFlagName          = "force"

	enhanceFlagDescription       = "summarize files and describe functions with a language model"
	configFlagDescription        = "path to a configuration file replacing ./" + utils.ConfigFileName
	exclusionFlagDescription     = "exclude entries matching a glob pattern (repeatable)"
	treeOutputFlagDescription    = "path of the JSON tree artifact"
	outlineOutputFlagDescription = "path of the outline artifact"
	copyFlagDescription          = "copy the outline to the clipboard"
	gitignoreFlagDescription     = "also honor patterns from .gitignore"
	noIgnoreFlagDescription      = "do not read " + utils.IgnoreFileName
	versionFlagDescription       = "display application version"
	verboseFlagDescription       = "enable debug logging"
	globalFlagDescription        = "write the global configuration instead of the local one"
	forceFlagDescription         = "overwrite an existing configuration file"

	defaultRootPath = "."
	versionTemplate = utils.ApplicationName + " version: %s\n"

	mapCompletedMessage         = "signature map written"
	configurationWrittenMessage = "configuration written"
	warningEnvironmentFile      = "Warning: failed to load environment file"
	warningClipboardCopy        = "Warning: failed to copy outline to clipboard"
	warningOutlineTokens        = "Warning: failed to count outline tokens"

	errorLoadConfigurationFormat = "loading configuration: %w"
	errorAbsolutePathFormat      = "abs failed for '%s': %w"
	errorIgnorePatternsFormat    = "loading ignore patterns: %w"
	errorEntryFilterFormat       = "building entry filter: %w"
	errorTokenizerFormat         = "initializing tokenizer: %w"
	errorSummarizerFormat        = "configuring summarizer: %w"
	errorParserFormat            = "initializing parser: %w"
	errorVerboseLoggerFormat     = "initializing verbose logger: %w"
)

// dependencies are the collaborators a run constructs. Tests replace them
// with fakes; defaultDependencies wires the production implementations.
type dependencies struct {
	newParser        func(cacheSize int, logger *zap.Logger) (commands.SyntaxTreeParser, func(), error)
	newCounter       func(model string) (tokenizer.Counter, error)
	newCompleter     func(ctx context.Context, completerConfig summarizer.CompleterConfig) (summarizer.Completer, error)
	clipboard        clipboard.Copier
	progressEnabled  func() bool
	progressWriter   io.Writer
	workingDirectory string
	homeDirectory    string
}

func defaultDependencies() dependencies {
	return dependencies{
		newParser: func(cacheSize int, logger *zap.Logger) (commands.SyntaxTreeParser, func(), error) {
			typeScriptParser, parserError := parser.NewParser(cacheSize, logger)
			if parserError != nil {
				return nil, nil, parserError
			}
			return typeScriptParser, typeScriptParser.Close, nil
		},
		newCounter: func(model string) (tokenizer.Counter, error) {
			counter, _, counterError := tokenizer.NewCounter(tokenizer.Config{Model: model})
			return counter, counterError
		},
		newCompleter: func(ctx context.Context, completerConfig summarizer.CompleterConfig) (summarizer.Completer, error) {
			return summarizer.NewCompleter(ctx, completerConfig, os.Getenv)
		},
		clipboard:       clipboard.NewSystemClipboard(),
		progressEnabled: stderrIsTerminal,
		progressWriter:  os.Stderr,
	}
}

// Execute runs the sigmap application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	if loadError := godotenv.Load(utils.EnvironmentFileName); loadError != nil && !errors.Is(loadError, fs.ErrNotExist) {
		logger.Warn(warningEnvironmentFile, zap.String("path", utils.EnvironmentFileName), zap.Error(loadError))
	}
	rootCommand := newRootCommand(&application{logger: logger, dependencies: defaultDependencies()})
	rootCommand.SetArgs(joinToggleValues(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// application holds the state shared by the root command and its subcommands.
type application struct {
	logger       *zap.Logger
	dependencies dependencies
}

// mapOptions stores the root command flags.
type mapOptions struct {
	enhance           *toggleFlag
	copyOutline       *toggleFlag
	useGitignore      *toggleFlag
	skipIgnoreFile    *toggleFlag
	configPath        string
	exclusionPatterns []string
	treeOutputPath    string
	outlineOutputPath string
	showVersion       bool
}

// newRootCommand builds the root Cobra command.
func newRootCommand(app *application) *cobra.Command {
	var options mapOptions
	var verbose bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !verbose {
				return nil
			}
			verboseLogger, loggerError := utils.NewApplicationLogger(true)
			if loggerError != nil {
				return fmt.Errorf(errorVerboseLoggerFormat, loggerError)
			}
			app.logger = verboseLogger
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			rootPath := defaultRootPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			return app.runMap(command, rootPath, options)
		},
	}

	rootFlags := rootCommand.Flags()
	options.enhance = registerToggleFlag(rootFlags, enhanceFlagName, "", enhanceFlagDescription)
	options.copyOutline = registerToggleFlag(rootFlags, copyFlagName, "", copyFlagDescription)
	options.useGitignore = registerToggleFlag(rootFlags, gitignoreFlagName, "", gitignoreFlagDescription)
	options.skipIgnoreFile = registerToggleFlag(rootFlags, noIgnoreFlagName, "", noIgnoreFlagDescription)
	rootFlags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootFlags.StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagShorthand, nil, exclusionFlagDescription)
	rootFlags.StringVar(&options.treeOutputPath, treeOutputFlagName, "", treeOutputFlagDescription)
	rootFlags.StringVar(&options.outlineOutputPath, outlineOutputFlagName, "", outlineOutputFlagDescription)
	rootFlags.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)

	rootCommand.AddCommand(newInitCommand(app))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// newInitCommand returns the init subcommand.
func newInitCommand(app *application) *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.dependencies.workingDirectory,
				HomeDirectory:    app.dependencies.homeDirectory,
			})
			if initError != nil {
				return initError
			}
			app.logger.Info(configurationWrittenMessage, zap.String("path", destinationPath))
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runMap builds the signature tree of rootPath and writes its artifacts.
func (app *application) runMap(command *cobra.Command, rootPath string, options mapOptions) error {
	ctx := command.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := app.logger

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.dependencies.workingDirectory,
		ExplicitFilePath: options.configPath,
		HomeDirectory:    app.dependencies.homeDirectory,
	})
	if loadError != nil {
		return fmt.Errorf(errorLoadConfigurationFormat, loadError)
	}
	settings := configuration.Resolve()
	flags := command.Flags()
	settings.Exclude = append(settings.Exclude, options.exclusionPatterns...)
	if flags.Changed(treeOutputFlagName) {
		settings.TreePath = options.treeOutputPath
	}
	if flags.Changed(outlineOutputFlagName) {
		settings.OutlinePath = options.outlineOutputPath
	}
	settings.Clipboard = options.copyOutline.resolve(settings.Clipboard)
	settings.UseGitignore = options.useGitignore.resolve(settings.UseGitignore)
	settings.UseIgnoreFile = !options.skipIgnoreFile.resolve(!settings.UseIgnoreFile)
	enhance := options.enhance.resolve(false)

	absoluteRootPath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, rootPath, absoluteError)
	}
	ignorePatterns, ignoreError := config.LoadCombinedIgnorePatterns(absoluteRootPath, settings.Exclude, settings.UseGitignore, settings.UseIgnoreFile)
	if ignoreError != nil {
		return fmt.Errorf(errorIgnorePatternsFormat, ignoreError)
	}
	entryFilter, filterError := utils.NewEntryFilter(settings.ExcludeDirectories, ignorePatterns)
	if filterError != nil {
		return fmt.Errorf(errorEntryFilterFormat, filterError)
	}

	counter, counterError := app.dependencies.newCounter(settings.TokenizerModel)
	if counterError != nil {
		return fmt.Errorf(errorTokenizerFormat, counterError)
	}

	var fileSummarizer summarizer.Summarizer
	if enhance {
		completer, completerError := app.dependencies.newCompleter(ctx, summarizer.CompleterConfig{
			Provider:    settings.Provider,
			Model:       settings.Model,
			Temperature: settings.Temperature,
		})
		if completerError != nil {
			return fmt.Errorf(errorSummarizerFormat, completerError)
		}
		fileSummarizer = summarizer.NewSummarizer(completer, counter, summarizer.Config{
			FileMaxTokens:      settings.FileMaxTokens,
			FunctionsMaxTokens: settings.FunctionsMaxTokens,
			InputTokenLimit:    settings.InputTokenLimit,
		}, logger)
	}

	syntaxTreeParser, closeParser, parserError := app.dependencies.newParser(settings.ParseCacheSize, logger)
	if parserError != nil {
		return fmt.Errorf(errorParserFormat, parserError)
	}
	if closeParser != nil {
		defer closeParser()
	}

	progress := newProgressReporter(app.dependencies.progressWriter, app.dependencies.progressEnabled != nil && app.dependencies.progressEnabled())
	treeBuilder := &commands.TreeBuilder{
		Extension:  settings.Extension,
		Filter:     entryFilter,
		Parser:     syntaxTreeParser,
		Summarizer: fileSummarizer,
		Logger:     logger,
		Observer:   progress.observer(),
	}
	rootNode, buildError := treeBuilder.Build(ctx, rootPath, enhance)
	progress.finish()
	if buildError != nil {
		return buildError
	}

	artifacts, writeError := output.WriteArtifacts(rootNode, output.ArtifactPaths{
		TreePath:    settings.TreePath,
		OutlinePath: settings.OutlinePath,
	}, settings.Header)
	if writeError != nil {
		return writeError
	}

	if settings.Clipboard && app.dependencies.clipboard != nil {
		if copyError := app.dependencies.clipboard.Copy(artifacts.Outline); copyError != nil {
			logger.Warn(warningClipboardCopy, zap.Error(copyError))
		}
	}

	outlineSize, measureError := tokenizer.Measure(counter, artifacts.Outline)
	if measureError != nil {
		logger.Warn(warningOutlineTokens, zap.Error(measureError))
	}
	logger.Info(mapCompletedMessage,
		zap.Int("files", countFileNodes(rootNode)),
		zap.Int("outline_bytes", outlineSize.Bytes),
		zap.Int("outline_tokens", outlineSize.Tokens),
		zap.String("tokenizer", counter.Name()),
		zap.String("tree", settings.TreePath),
		zap.String("outline", settings.OutlinePath),
	)
	return nil
}

func countFileNodes(node *types.TreeNode) int {
	if node == nil {
		return 0
	}
	if node.Type == types.NodeTypeFile {
		return 1
	}
	total := 0
	for _, child := range node.Children {
		total += countFileNodes(child)
	}
	return total
}

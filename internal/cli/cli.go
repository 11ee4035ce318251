// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ptree/internal/config"
	"github.com/temirov/ptree/internal/filter"
	"github.com/temirov/ptree/internal/gitignore"
	"github.com/temirov/ptree/internal/output"
	"github.com/temirov/ptree/internal/render"
	"github.com/temirov/ptree/internal/services/clipboard"
	"github.com/temirov/ptree/internal/tokenizer"
	"github.com/temirov/ptree/internal/tree"
	"github.com/temirov/ptree/internal/types"
	"github.com/temirov/ptree/internal/utils"
)

const (
	ignoreFlagName          = "ignore"
	ignoreFlagShorthand     = "i"
	stopFlagName            = "stop"
	stopFlagShorthand       = "s"
	outputFlagName          = "output"
	outputFlagShorthand     = "o"
	nodeModulesFlagName     = "node-modules"
	gitFlagName             = "git"
	vscodeFlagName          = "vscode"
	targetFlagName          = "target"
	noClipboardFlagName     = "noclip"
	rootFlagName            = "root"
	rootFlagShorthand       = "r"
	dirsFlagName            = "dirs"
	dirsFlagShorthand       = "d"
	gitignoreFlagName       = "gitignore"
	gitignoreOffFlagName    = "gi-off"
	gitignoreIgnoreFlagName = "gi-ignore"
	gitignoreStopFlagName   = "gi-stop"
	gitignoreDimFlagName    = "gi-dim"
	gitignoreDimStopFlag    = "gi-dim-stop"
	nestedGitignoreFlagName = "nested-gitignore"
	colorFlagName           = "color"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	jobsFlagName            = "jobs"
	jobsFlagShorthand       = "j"
	configFlagName          = "config"
	verboseFlagName         = "verbose"
	verboseFlagShorthand    = "v"
	versionFlagName         = "version"
	initGlobalFlagName      = "global"
	initForceFlagName       = "force"

	ignoreFlagDescription          = "ignore a path: a name anywhere in the tree, or a path relative to the root (repeatable)"
	stopFlagDescription            = "list a directory without expanding it (repeatable)"
	outputFlagDescription          = "also write the plain tree to this file"
	nodeModulesFlagDescription     = "include node_modules directories"
	gitFlagDescription             = "include .git directories"
	vscodeFlagDescription          = "include .vscode directories"
	targetFlagDescription          = "include target in Rust projects"
	noClipboardFlagDescription     = "do not copy the tree to the clipboard"
	rootFlagDescription            = "print the root directory name as the first line"
	dirsFlagDescription            = "list directories before files"
	gitignoreFlagDescription       = "how .gitignore matches are shown: off, ignore, stop, dim, dim-stop (default: dim when a .gitignore exists)"
	gitignoreOffFlagDescription    = "shorthand for --gitignore off"
	gitignoreIgnoreFlagDescription = "shorthand for --gitignore ignore"
	gitignoreStopFlagDescription   = "shorthand for --gitignore stop"
	gitignoreDimFlagDescription    = "shorthand for --gitignore dim"
	gitignoreDimStopDescription    = "shorthand for --gitignore dim-stop"
	nestedGitignoreFlagDescription = "also honor .gitignore files in subdirectories"
	colorFlagDescription           = "style output: auto, always, never"
	tokensFlagDescription          = "report the token count of the rendered tree"
	modelFlagDescription           = "tokenizer model used by --tokens"
	jobsFlagDescription            = "number of directories read in parallel"
	configFlagDescription          = "configuration file used instead of ./.ptree.yaml"
	verboseFlagDescription         = "enable debug logging"
	versionFlagDescription         = "display application version"
	initGlobalFlagDescription      = "write ~/.ptree/config.yaml instead of ./.ptree.yaml"
	initForceFlagDescription       = "overwrite an existing configuration file"

	versionTemplate      = "ptree version: %s\n"
	defaultPath          = "."
	defaultJobs          = 1
	rootUse              = "ptree [path]"
	rootShortDescription = "print a directory tree"
	rootLongDescription  = `ptree walks a directory and prints it as a tree.
node_modules, .git, .vscode and (in Rust projects) target are left out unless included with
their flags. When a .gitignore is present at the root its matches are dimmed; use --gitignore
to ignore, stop at, or dim them instead. The tree is printed, optionally written to a file,
and copied to the clipboard unless --noclip is given.

Boolean flags accept an optional value ("--root no"). A value that names an existing path is
read as the path instead, so "ptree --dirs t" lists the directory t.

Defaults can be kept in ~/.ptree/config.yaml and ./.ptree.yaml (see "ptree init").`
	rootUsageExample = `  # Show the current directory with the root name, directories first
  ptree -r -d

  # Ignore build output and list vendor without expanding it
  ptree -i dist -s vendor ./service

  # Hide everything .gitignore matches and skip the clipboard
  ptree --gi-ignore --noclip`
	initUse              = "init"
	initShortDescription = "write a default configuration file"

	usingGitignoreMessage       = "Using .gitignore"
	gitignoreDisabledMessage    = "no readable .gitignore at the root; gitignore handling disabled"
	gitignoreWarningMessage     = "unsupported .gitignore line skipped"
	subtreeSkippedMessage       = "skipping unreadable directory"
	clipboardFailedMessage      = "could not copy the tree to the clipboard"
	clipboardUnavailableMessage = "no clipboard utility found; skipping clipboard copy"
	tokenCountMessage           = "token count"
	tokenCountFailedMessage     = "could not count tokens"
	configurationWrittenFormat  = "Configuration written to %s\n"
	logFieldPath                = "path"
	logFieldLine                = "line"
	logFieldPattern             = "pattern"
	logFieldReason              = "reason"
	logFieldMode                = "mode"
	logFieldTokens              = "tokens"
	logFieldModel               = "model"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorNotDirectoryFormat     = "path '%s' is not a directory"
	errorInvalidJobsFormat      = "--%s must be at least 1, got %d"
	errorConfigurationValueFmt  = "configuration key %s: %w"
)

// Dependencies are the collaborators of the root command. Zero values fall back to the
// process environment.
type Dependencies struct {
	Logger   *zap.Logger
	LogLevel zap.AtomicLevel
	Copier   clipboard.Copier
	// WorkingDirectory resolves relative paths and the local configuration file.
	WorkingDirectory string
	// HomeDirectory locates the global configuration file.
	HomeDirectory string
	NewCounter    func(tokenizer.Config) (tokenizer.Counter, string, error)
	// ClipboardAvailable reports whether Copier can reach a clipboard; nil means it can.
	ClipboardAvailable func() bool
}

// Execute runs the ptree application.
func Execute(logger *zap.Logger, logLevel zap.AtomicLevel) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCommand := NewRootCommand(Dependencies{Logger: logger, LogLevel: logLevel})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:], pathExists))
	return rootCommand.ExecuteContext(ctx)
}

// commandFlags receives raw flag values; only flags marked Changed override configuration.
type commandFlags struct {
	ignore          []string
	stop            []string
	outputPath      string
	includeNodeMods bool
	includeGit      bool
	includeVSCode   bool
	includeTarget   bool
	noClipboard     bool
	includeRoot     bool
	directoriesTop  bool
	gitignoreMode   config.GitignoreMode
	gitignoreOff    bool
	gitignoreIgnore bool
	gitignoreStop   bool
	gitignoreDim    bool
	gitignoreDimAll bool
	nestedGitignore bool
	colorMode       output.ColorMode
	tokens          bool
	model           string
	jobs            int
	configPath      string
	verbose         bool
	showVersion     bool
}

// runSettings is the merged result of configuration files and command-line flags.
type runSettings struct {
	workingDirectory string
	path             string
	options          config.Options
	requestedMode    config.GitignoreMode
	outputPath       string
	clipboard        bool
	colorMode        output.ColorMode
	tokens           bool
	model            string
	jobs             int
}

// NewRootCommand builds the ptree command with its init subcommand.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var flags commandFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if flags.verbose {
				dependencies.LogLevel.SetLevel(zap.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			settings, settingsError := resolveSettings(command, flags, arguments, dependencies)
			if settingsError != nil {
				return settingsError
			}
			return runTree(command.Context(), command.OutOrStdout(), settings, dependencies)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringArrayVarP(&flags.ignore, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	flagSet.StringArrayVarP(&flags.stop, stopFlagName, stopFlagShorthand, nil, stopFlagDescription)
	flagSet.StringVarP(&flags.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeNodeMods, nodeModulesFlagName, "", false, nodeModulesFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeGit, gitFlagName, "", false, gitFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeVSCode, vscodeFlagName, "", false, vscodeFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeTarget, targetFlagName, "", false, targetFlagDescription)
	registerBooleanFlag(flagSet, &flags.noClipboard, noClipboardFlagName, "", false, noClipboardFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeRoot, rootFlagName, rootFlagShorthand, false, rootFlagDescription)
	registerBooleanFlag(flagSet, &flags.directoriesTop, dirsFlagName, dirsFlagShorthand, false, dirsFlagDescription)
	registerGitignoreModeFlag(flagSet, &flags.gitignoreMode, gitignoreFlagName, gitignoreFlagDescription)
	flagSet.BoolVar(&flags.gitignoreOff, gitignoreOffFlagName, false, gitignoreOffFlagDescription)
	flagSet.BoolVar(&flags.gitignoreIgnore, gitignoreIgnoreFlagName, false, gitignoreIgnoreFlagDescription)
	flagSet.BoolVar(&flags.gitignoreStop, gitignoreStopFlagName, false, gitignoreStopFlagDescription)
	flagSet.BoolVar(&flags.gitignoreDim, gitignoreDimFlagName, false, gitignoreDimFlagDescription)
	flagSet.BoolVar(&flags.gitignoreDimAll, gitignoreDimStopFlag, false, gitignoreDimStopDescription)
	rootCommand.MarkFlagsMutuallyExclusive(gitignoreFlagName, gitignoreOffFlagName, gitignoreIgnoreFlagName, gitignoreStopFlagName, gitignoreDimFlagName, gitignoreDimStopFlag)
	registerBooleanFlag(flagSet, &flags.nestedGitignore, nestedGitignoreFlagName, "", false, nestedGitignoreFlagDescription)
	registerColorModeFlag(flagSet, &flags.colorMode, colorFlagName, colorFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, "", false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.IntVarP(&flags.jobs, jobsFlagName, jobsFlagShorthand, defaultJobs, jobsFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&flags.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.CompletionOptions.DisableDefaultCmd = true
	return rootCommand
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.LogLevel == (zap.AtomicLevel{}) {
		dependencies.LogLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
		if dependencies.ClipboardAvailable == nil {
			dependencies.ClipboardAvailable = clipboard.Available
		}
	}
	if dependencies.ClipboardAvailable == nil {
		dependencies.ClipboardAvailable = func() bool { return true }
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	return dependencies
}

func (dependencies Dependencies) workingDirectory() (string, error) {
	if dependencies.WorkingDirectory != "" {
		return dependencies.WorkingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return workingDirectory, nil
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := dependencies.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return printError
		},
	}
	initCommand.Flags().BoolVar(&global, initGlobalFlagName, false, initGlobalFlagDescription)
	initCommand.Flags().BoolVar(&force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}

// resolveSettings loads configuration files and overlays the flags set on the command line.
func resolveSettings(command *cobra.Command, flags commandFlags, arguments []string, dependencies Dependencies) (runSettings, error) {
	workingDirectory, workingDirectoryError := dependencies.workingDirectory()
	if workingDirectoryError != nil {
		return runSettings{}, workingDirectoryError
	}
	fileConfiguration, loadError := config.LoadFileConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if loadError != nil {
		return runSettings{}, loadError
	}

	requestedMode, modeError := config.ParseGitignoreMode(fileConfiguration.Gitignore)
	if modeError != nil {
		return runSettings{}, fmt.Errorf(errorConfigurationValueFmt, gitignoreFlagName, modeError)
	}
	colorMode, colorError := output.ParseColorMode(fileConfiguration.Color)
	if colorError != nil {
		return runSettings{}, fmt.Errorf(errorConfigurationValueFmt, colorFlagName, colorError)
	}

	changed := command.Flags().Changed
	pick := func(name string, flagValue bool, configured *bool) bool {
		if changed(name) {
			return flagValue
		}
		return config.BoolValue(configured, false)
	}

	settings := runSettings{
		workingDirectory: workingDirectory,
		path:             defaultPath,
		options: config.Options{
			IncludeNodeModules:    pick(nodeModulesFlagName, flags.includeNodeMods, fileConfiguration.Include.NodeModules),
			IncludeGit:            pick(gitFlagName, flags.includeGit, fileConfiguration.Include.Git),
			IncludeVSCode:         pick(vscodeFlagName, flags.includeVSCode, fileConfiguration.Include.VSCode),
			IncludeTarget:         pick(targetFlagName, flags.includeTarget, fileConfiguration.Include.Target),
			Ignore:                utils.DeduplicatePatterns(append(append([]string{}, fileConfiguration.Ignore...), flags.ignore...)),
			Stop:                  utils.DeduplicatePatterns(append(append([]string{}, fileConfiguration.Stop...), flags.stop...)),
			NestedGitignore:       pick(nestedGitignoreFlagName, flags.nestedGitignore, fileConfiguration.NestedGitignore),
			PrioritizeDirectories: pick(dirsFlagName, flags.directoriesTop, fileConfiguration.Dirs),
			IncludeRoot:           pick(rootFlagName, flags.includeRoot, fileConfiguration.Root),
		},
		requestedMode: requestedMode,
		outputPath:    fileConfiguration.Output,
		clipboard:     config.BoolValue(fileConfiguration.Clipboard, true),
		colorMode:     colorMode,
		tokens:        pick(tokensFlagName, flags.tokens, fileConfiguration.Tokens),
		model:         fileConfiguration.Model,
		jobs:          config.IntValue(fileConfiguration.Jobs, defaultJobs),
	}
	if len(arguments) > 0 {
		settings.path = arguments[0]
	}
	if changed(outputFlagName) {
		settings.outputPath = flags.outputPath
	}
	if changed(noClipboardFlagName) {
		settings.clipboard = !flags.noClipboard
	}
	if changed(colorFlagName) {
		settings.colorMode = flags.colorMode
	}
	if changed(modelFlagName) || settings.model == "" {
		settings.model = flags.model
	}
	if changed(jobsFlagName) {
		settings.jobs = flags.jobs
	}
	if settings.jobs < 1 {
		return runSettings{}, fmt.Errorf(errorInvalidJobsFormat, jobsFlagName, settings.jobs)
	}
	if changed(gitignoreFlagName) {
		settings.requestedMode = flags.gitignoreMode
	}
	for _, shorthand := range []struct {
		enabled bool
		mode    config.GitignoreMode
	}{
		{flags.gitignoreOff, config.GitignoreOff},
		{flags.gitignoreIgnore, config.GitignoreIgnore},
		{flags.gitignoreStop, config.GitignoreStop},
		{flags.gitignoreDim, config.GitignoreDim},
		{flags.gitignoreDimAll, config.GitignoreDimAndStop},
	} {
		if shorthand.enabled {
			settings.requestedMode = shorthand.mode
		}
	}
	if settings.outputPath != "" && !filepath.IsAbs(settings.outputPath) {
		settings.outputPath = filepath.Join(workingDirectory, settings.outputPath)
	}
	settings.path = resolveRelative(workingDirectory, settings.path)
	return settings, nil
}

func resolveRelative(workingDirectory string, inputPath string) string {
	if filepath.IsAbs(inputPath) {
		return inputPath
	}
	return filepath.Join(workingDirectory, inputPath)
}

// runTree builds, renders and dispatches the tree described by settings.
func runTree(ctx context.Context, stdout io.Writer, settings runSettings, dependencies Dependencies) error {
	logger := dependencies.Logger
	root, rootError := resolveRoot(settings.path)
	if rootError != nil {
		return rootError
	}
	fileSystem := os.DirFS(root.AbsolutePath)

	options := settings.options
	options.RustProject = config.DetectRustProject(fileSystem)

	rootPatterns, gitignoreError := gitignore.Load(fileSystem, defaultPath)
	rootAvailable := gitignoreError == nil
	available := rootAvailable || (options.NestedGitignore && settings.requestedMode != config.GitignoreAuto)
	options.GitignoreMode = config.ResolveGitignoreMode(settings.requestedMode, available)
	switch {
	case options.GitignoreMode != config.GitignoreOff && rootAvailable:
		logger.Info(usingGitignoreMessage,
			zap.String(logFieldPath, utils.RelativePathOrSelf(filepath.Join(root.AbsolutePath, gitignore.FileName), settings.workingDirectory)),
			zap.String(logFieldMode, options.GitignoreMode.String()))
		for _, warning := range rootPatterns.Warnings() {
			logger.Warn(gitignoreWarningMessage,
				zap.Int(logFieldLine, warning.Line),
				zap.String(logFieldPattern, warning.Pattern),
				zap.String(logFieldReason, warning.Message))
		}
	case settings.requestedMode != config.GitignoreAuto && settings.requestedMode != config.GitignoreOff && !available:
		logger.Warn(gitignoreDisabledMessage, zap.String(logFieldMode, settings.requestedMode.String()))
	}

	builder := &tree.Builder{
		FileSystem:            fileSystem,
		Filter:                filter.New(options, rootPatterns),
		PrioritizeDirectories: options.PrioritizeDirectories,
		NestedGitignore:       options.NestedGitignore,
		Concurrency:           settings.jobs,
		OnSubtreeError: func(relativePath string, err error) {
			logger.Warn(subtreeSkippedMessage, zap.String(logFieldPath, relativePath), zap.Error(err))
		},
	}
	builtTree, buildError := builder.Build(ctx, filepath.Base(root.AbsolutePath), options.IncludeRoot)
	if buildError != nil {
		return buildError
	}

	copyToClipboard := settings.clipboard
	if copyToClipboard && !dependencies.ClipboardAvailable() {
		logger.Debug(clipboardUnavailableMessage)
		copyToClipboard = false
	}

	colored := render.Render(builtTree, output.NewPainter(settings.colorMode.Profile(stdout)))
	plain := render.Render(builtTree, render.PlainPainter{})
	dispatcher := output.Dispatcher{
		Stdout:          stdout,
		Copier:          dependencies.Copier,
		OutputPath:      settings.outputPath,
		CopyToClipboard: copyToClipboard,
	}
	if emitError := dispatcher.Emit(colored, plain); emitError != nil {
		if !errors.Is(emitError, output.ErrClipboardCopy) {
			return emitError
		}
		logger.Warn(clipboardFailedMessage, zap.Error(emitError))
	}

	if settings.tokens {
		reportTokens(logger, dependencies, settings.model, plain)
	}
	return nil
}

func reportTokens(logger *zap.Logger, dependencies Dependencies, model string, plain string) {
	counter, resolvedModel, counterError := dependencies.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		logger.Warn(tokenCountFailedMessage, zap.Error(counterError))
		return
	}
	tokens, countError := tokenizer.CountText(counter, plain)
	if countError != nil {
		logger.Warn(tokenCountFailedMessage, zap.Error(countError))
		return
	}
	logger.Info(tokenCountMessage, zap.Int(logFieldTokens, tokens), zap.String(logFieldModel, resolvedModel))
}

// resolveRoot converts the input path to absolute form and checks that it is a directory.
func resolveRoot(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true}, nil
}

// pathExists reports whether argument names an existing file or directory.
func pathExists(argument string) bool {
	_, statError := os.Stat(argument)
	return statError == nil
}

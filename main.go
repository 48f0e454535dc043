package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/mcncl/tinyjson/internal/config"
	"github.com/mcncl/tinyjson/internal/errors"
	"github.com/mcncl/tinyjson/internal/formatter"
	"github.com/mcncl/tinyjson/internal/logging"
	"github.com/mcncl/tinyjson/internal/models"
	"github.com/mcncl/tinyjson/internal/parser"
	"github.com/mcncl/tinyjson/internal/transform"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input YAML or JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. Defaults to the nearest .tinyjson.yml." short:"c" type:"path"`
	Escape      string `help:"String escaping policy: quotes or full." short:"e"`
	Keys        string `help:"Rewrite object keys: camel, lower_camel, snake, kebab, screaming_snake or keep." short:"k"`
	NoNewline   bool   `help:"Do not append a trailing newline to the output." short:"n"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("tinyjson"),
		kong.Description("A tool to render YAML or JSON documents as compact JSON"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		parser.FatalIfErrorf(err)
	}

	// Parse resets flags, so the no-arguments default is applied afterwards
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if CLI.Version {
		fmt.Printf("tinyjson version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	ctx := &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logging.New(os.Stderr, logging.Level(cfg.Dev.Debug)),
	}

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: tinyjson --help\n")
		os.Exit(1)
	}
}

// loadConfig resolves the config file and applies CLI overrides
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{
		Escaping: CLI.Escape,
		KeyStyle: CLI.Keys,
		Debug:    CLI.Debug,
	}
	if CLI.NoNewline {
		newline := false
		overrides.TrailingNewline = &newline
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	if ctx.Logger == nil {
		ctx.Logger = logging.New(os.Stderr, logging.Level(ctx.Debug))
	}
	logger := ctx.Logger
	c := logging.WithLogger(context.Background(), logger)

	// 1. Read the source document into a value tree
	stage := logging.StartStage(logger, "parse")
	root, err := parseInput(c)
	if err != nil {
		return err
	}
	stage.Done()

	// 2. Rewrite keys if requested
	rules := ctx.Config.KeyRules()
	if !rules.IsNoop() {
		stage = logging.StartStage(logger, "transform")
		root = transform.RenameKeys(root, rules)
		stage.Done("style", string(rules.Style), "mappings", len(rules.Mappings))
	}

	// 3. Serialize
	stage = logging.StartStage(logger, "serialize")
	opts := ctx.Config.FormatterOptions()
	out := formatter.NewFormatterWithOptions(opts).Format(root)
	stage.Done("escaping", opts.Escaping.String(), "bytes", len(out))

	if ctx.Config.Output.TrailingNewline {
		out += "\n"
	}

	// 4. Output the result
	return writeOutput(c, out)
}

// parseInput reads the document from file or stdin
func parseInput(ctx context.Context) (models.Container, error) {
	logger := logging.FromContext(ctx)

	if CLI.Input != "" {
		logger.Debug("reading input file", "path", CLI.Input)
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	logger.Debug("reading piped stdin")
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(data))
}

// writeOutput writes the rendered text to file or stdout
func writeOutput(ctx context.Context, text string) error {
	logger := logging.FromContext(ctx)

	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(text), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		logger.Debug("output written", "path", CLI.Output, "bytes", len(text))
		fmt.Fprintf(os.Stderr, "JSON written to %s\n", CLI.Output)
		return nil
	}

	if _, err := io.WriteString(os.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste a document and finish with Ctrl+D (EOF)
func readInteractiveInput() (models.Container, error) {
	fmt.Fprintln(os.Stderr, "tinyjson Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your YAML or JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	data := builder.String()
	if strings.TrimSpace(data) == "" {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing input...")
	return parser.ParseString(data)
}

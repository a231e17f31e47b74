// Command pascal implements spec §6's CLI:
//
//	pascal SOURCE.pas [-o OUT.json]
//
// running the lexer, parser, and semantic analyzer over SOURCE.pas and
// writing the resulting AST as indented JSON, either to OUT.json or to
// standard output. A lexical, syntactic, or semantic error produces a
// one-line diagnostic on stderr and exit code 1.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"isapascal/ast"
	"isapascal/config"
	"isapascal/lexer"
	"isapascal/parser"
	"isapascal/semantic"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&analyzeCmd{}, "")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "flags", "commands", "analyze":
		default:
			os.Args = append([]string{os.Args[0], "analyze"}, os.Args[1:]...)
		}
	}

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// analyzeCmd runs the lex → parse → analyze pipeline over a single
// Pascal source file.
type analyzeCmd struct {
	outPath    string
	verbose    bool
	configPath string
}

func (*analyzeCmd) Name() string { return "analyze" }
func (*analyzeCmd) Synopsis() string {
	return "lex, parse, and type-check a Pascal source file"
}
func (*analyzeCmd) Usage() string {
	return `analyze SOURCE.pas [-o OUT.json]:
  Parse and semantically check SOURCE.pas, writing its AST as JSON.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outPath, "o", "", "write the AST as indented JSON to this path instead of stdout")
	f.BoolVar(&c.verbose, "v", false, "print each pipeline stage's progress to stderr")
	f.StringVar(&c.configPath, "config", "", "path to a TOML config file (defaults to the platform config dir)")
}

func (c *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pascal SOURCE.pas [-o OUT.json]")
		return subcommands.ExitUsageError
	}
	sourcePath := args[0]

	configPath := c.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	verbose := c.verbose || cfg.Logging.Verbose

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %q: %v\n", sourcePath, err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(string(data))
	tokens, err := lex.Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "lexed %d tokens from %s\n", len(tokens), sourcePath)
	}

	prog, err := parser.New(tokens).Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "parsed program %q\n", prog.Name)
	}

	if err := semantic.NewAnalyzer().Analyze(prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "semantic analysis passed")
	}

	out, err := ast.MarshalIndentJSONWidth(prog, cfg.AST.IndentWidth)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.outPath == "" {
		fmt.Println(string(out))
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %q: %v\n", c.outPath, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

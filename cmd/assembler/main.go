// Command assembler implements spec §6's CLI:
//
//	assembler INPUT.asm OUTPUT.hex ISA.json
//
// exiting 0 on success, 1 on any static/configuration error, and 2 on
// a usage error, following the teacher's google/subcommands wiring
// (cmd_run.go, cmd_emit_bytecode.go) but actually registering the
// command with a Commander, which the teacher's own main.go never did.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"isapascal/assembler"
	"isapascal/config"
	"isapascal/isa"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&assembleCmd{}, "")

	// spec §6 documents a bare positional syntax with no subcommand
	// token; default to "assemble" unless the first argument already
	// names a registered command.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "flags", "commands", "assemble":
		default:
			os.Args = append([]string{os.Args[0], "assemble"}, os.Args[1:]...)
		}
	}

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// assembleCmd runs the full preprocess → first pass → second pass →
// write pipeline over a single source file.
type assembleCmd struct {
	verbose    bool
	configPath string
}

func (*assembleCmd) Name() string     { return "assemble" }
func (*assembleCmd) Synopsis() string { return "assemble a source file against an ISA descriptor" }
func (*assembleCmd) Usage() string {
	return `assemble INPUT.asm OUTPUT.hex ISA.json:
  Run the two-pass assembler and write the encoded output.
`
}

func (c *assembleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.verbose, "v", false, "print each pass's intermediate state to stderr")
	f.StringVar(&c.configPath, "config", "", "path to a TOML config file (defaults to the platform config dir)")
}

func (c *assembleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: assembler INPUT.asm OUTPUT.hex ISA.json")
		return subcommands.ExitUsageError
	}
	inputPath, outputPath, isaPath := args[0], args[1], args[2]

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

	descriptor, err := isa.Load(isaPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "isa: %d instructions, %d registers loaded from %s\n",
			len(descriptor.Instructions), len(descriptor.Registers), isaPath)
	}

	result, err := assembler.Assemble(inputPath, descriptor)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "encoded %d text word(s), %d static entries\n",
			len(result.Table.Text), len(result.Table.Static))
	}

	if err := assembler.WriteOutput(outputPath, result.Table, cfg.Output.UppercaseHex); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

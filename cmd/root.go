package cmd

import (
	"flag"
	"io"
	"os"
	"slices"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rv32asm/assembler"
	"rv32asm/output"
)

type options struct {
	coe     bool
	format  string
	out     string
	symbols bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "rv32asm [flags] [sourceFile]",
	Short: "Two-pass RV32I assembler",
	Long: `Rv32asm translates RV32I assembly into 32-bit machine words.

Each non-blank line holds a label ("name:") or one instruction. Comments start
with '#'. Base integer instructions plus the li, mv, not, neg, j, jr, ret, nop,
beqz and bnez pseudo-instructions are accepted.

Words are written as 8-digit hex lines by default, or as a memory
initialization listing with --coe. Source is read from stdin when no file is
given.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssemble(args)
	},
}

func init() {
	// glog registers its flags on the standard flag set
	flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		flag.CommandLine.Parse(nil)
	}

	f := rootCmd.Flags()
	f.BoolVar(&opts.coe, "coe", false, "emit a memory initialization listing (same as --format coe)")
	f.StringVarP(&opts.format, "format", "f", "hex", "output format: hex, coe, bin or listing")
	f.StringVarP(&opts.out, "output", "o", "", "output file (default stdout)")
	f.BoolVar(&opts.symbols, "symbols", false, "print the label table to stderr")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		glog.Errorf("%v", err)
	}
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

// openInput returns the named file, or stdin when no name is given.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("no source file given and stdin is a terminal")
		}
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "opening source")
	}
	return f, nil
}

func runAssemble(args []string) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.coe {
		format = output.COE
	}

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()
	glog.V(1).Infof("assembling %v as %s", args, format)

	prog, err := assembler.AssembleReader(in)
	if err != nil {
		return err
	}
	glog.V(1).Infof("%d words, %d labels", len(prog.Words), len(prog.Labels))

	if opts.symbols {
		dumpSymbols(os.Stderr, prog.Labels)
	}

	var w io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer f.Close()
		w = f
	} else if format == output.Binary && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write binary output to a terminal, use -o")
	}
	return output.Write(w, format, prog)
}

type symbol struct {
	Name string
	Addr uint32
}

func dumpSymbols(w io.Writer, labels map[string]uint32) {
	names := lo.Keys(labels)
	slices.Sort(names)
	syms := lo.Map(names, func(n string, _ int) symbol {
		return symbol{Name: n, Addr: labels[n]}
	})
	pp.Fprintln(w, syms)
}

// Command kevs is a thin external collaborator around package kevs: it
// reads a file, runs the scan/parse pipeline, and prints either the
// resulting tree or an error. The core pipeline has no knowledge of
// this binary.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevs-lang/kevs"
	"github.com/kevs-lang/kevs/core/ast"
)

func main() {
	var (
		abort  bool
		scan   bool
		dump   bool
		noErr  bool
		free   bool
		noFile bool
	)

	rootCmd := &cobra.Command{
		Use:           "kevs [flags] <file>",
		Short:         "Scan and parse a KEVS configuration file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], runOptions{
				abort:  abort,
				scan:   scan,
				dump:   dump,
				noErr:  noErr,
				free:   free,
				noFile: noFile,
			}, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().BoolVar(&abort, "abort", false, "terminate the process on the first diagnostic instead of reporting it")
	rootCmd.Flags().BoolVar(&scan, "scan", false, "stop after scanning; do not build the tree")
	rootCmd.Flags().BoolVar(&dump, "dump", false, "print the resulting tree (or token stream with --scan)")
	rootCmd.Flags().BoolVar(&noErr, "no-err", false, "exit 0 even if an error occurred")
	rootCmd.Flags().BoolVar(&free, "free", false, "free buffers before exit (no-op; Go is garbage collected)")
	rootCmd.Flags().BoolVar(&noFile, "no-file", false, "omit the file:line prefix in diagnostics")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !noErr {
			os.Exit(1)
		}
	}
}

type runOptions struct {
	abort  bool
	scan   bool
	dump   bool
	noErr  bool
	free   bool
	noFile bool
}

func run(path string, opts runOptions, out io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error opening file %s: %w", path, err)
	}

	name := path
	if opts.noFile {
		name = ""
	}

	kevsOpts := []kevs.Option{kevs.WithFileLineInErrors(!opts.noFile)}
	if opts.abort {
		kevsOpts = append(kevsOpts, kevs.WithAbortOnError())
	}

	if opts.scan {
		tokens, err := kevs.Scan(name, src, kevsOpts...)
		if err != nil {
			return reportAndExit(err, opts.noErr)
		}
		if opts.dump {
			for _, t := range tokens {
				fmt.Fprintf(out, "%s %q @%d\n", t.Kind, t.Value, t.Line)
			}
		}
		return nil
	}

	table, err := kevs.Parse(name, src, kevsOpts...)
	if err != nil {
		return reportAndExit(err, opts.noErr)
	}
	if opts.dump {
		dumpTable(out, table, 0)
	}
	return nil
}

// reportAndExit returns err unless --no-err is set, in which case the
// diagnostic is printed to stderr and nil is returned, so the error does
// not propagate to Execute and the process exits 0.
func reportAndExit(err error, noErr bool) error {
	if noErr {
		fmt.Fprintln(os.Stderr, err)
		return nil
	}
	return err
}

func dumpTable(out io.Writer, t *ast.TableValue, depth int) {
	indent := func(n int) string {
		s := ""
		for i := 0; i < n; i++ {
			s += "  "
		}
		return s
	}

	for _, key := range t.Keys() {
		v, err := t.Get(key)
		if err != nil {
			continue
		}
		switch v.Kind() {
		case ast.Table:
			fmt.Fprintf(out, "%s%s = {\n", indent(depth), key)
			sub, _ := v.AsTable()
			dumpTable(out, sub, depth+1)
			fmt.Fprintf(out, "%s};\n", indent(depth))
		case ast.List:
			list, _ := v.AsList()
			fmt.Fprintf(out, "%s%s = [%d elements];\n", indent(depth), key, list.Len())
		case ast.String:
			s, _ := v.AsString()
			fmt.Fprintf(out, "%s%s = %q;\n", indent(depth), key, s)
		case ast.Integer:
			n, _ := v.AsInteger()
			fmt.Fprintf(out, "%s%s = %d;\n", indent(depth), key, n)
		case ast.Boolean:
			b, _ := v.AsBoolean()
			fmt.Fprintf(out, "%s%s = %t;\n", indent(depth), key, b)
		}
	}
}

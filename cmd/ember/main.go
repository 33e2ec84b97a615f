// Command ember is the reference CLI host for the interpreter core:
// run, compile, disassemble and repl subcommands mirroring the
// teacher's own CLI shape, adapted to the core's actual input contract
// (an expr tree, not ember source text — see exprjson.go).
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emberlang/ember/internal/code"
	"github.com/emberlang/ember/internal/compiler"
	"github.com/emberlang/ember/internal/engine"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:     "ember",
		Short:   "ember - a small dynamically-typed scripting language core",
		Version: version,
	}

	root.AddCommand(
		newRunCmd(),
		newCompileCmd(),
		newDisasmCmd(),
		newReplCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func newRunCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "run <file.ejson>",
		Short: "compile and run an expr-tree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			root, err := decodeExprTree(f)
			if err != nil {
				return err
			}

			e := engine.New(newLogger(verbose))
			defer e.Uninit()

			c, err := compiler.Compile(args[0], e.Atoms, root)
			if err != nil {
				return fmt.Errorf("compile error: %w", err)
			}

			result, err := e.Run(c)
			if err != nil {
				return fmt.Errorf("runtime error: %w", err)
			}
			fmt.Println(result)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
	return cmd
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <in.ejson>",
		Short: "compile an expr-tree file and print its instruction count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			root, err := decodeExprTree(f)
			if err != nil {
				return err
			}

			e := engine.New(nil)
			defer e.Uninit()

			c, err := compiler.Compile(args[0], e.Atoms, root)
			if err != nil {
				return fmt.Errorf("compile error: %w", err)
			}
			fmt.Printf("compiled %s: %d instructions, %d literals\n", args[0], c.Len(), len(c.Literals))
			return nil
		},
	}
	return cmd
}

func newDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm <file.ejson>",
		Short: "compile an expr-tree file and print its disassembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			root, err := decodeExprTree(f)
			if err != nil {
				return err
			}

			e := engine.New(nil)
			defer e.Uninit()

			c, err := compiler.Compile(args[0], e.Atoms, root)
			if err != nil {
				return fmt.Errorf("compile error: %w", err)
			}
			printDisassembly(c)
			return nil
		},
	}
	return cmd
}

func printDisassembly(c *code.CodeArray) {
	fmt.Printf("=== %s: %d literals ===\n", c.File, len(c.Literals))
	for i, lit := range c.Literals {
		fmt.Printf("  [%d] %v\n", i, lit)
	}
	fmt.Println("instructions:")
	for i, instr := range c.Instructions {
		line := 0
		if i < len(c.Lines) {
			line = c.Lines[i]
		}
		fmt.Printf("  %4d (line %d): %s A=%d B=%d\n", i, line, instr.Op, instr.A, instr.B)
	}
}

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "read one expr-tree JSON document per line, compile and run it",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl()
			return nil
		},
	}
	return cmd
}

// runRepl keeps one Engine (and so one Globals scope) alive across
// inputs, the same persistent-state shape the teacher's own REPL uses
// for its VM and compiler, generalized to the engine facade.
func runRepl() {
	fmt.Printf("ember REPL v%s\n", version)
	fmt.Println("Each line is a JSON expr-tree document. Ctrl-D to exit.")

	e := engine.New(nil)
	defer e.Uninit()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("ember> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		var root exprNode
		if err := json.Unmarshal([]byte(line), &root); err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		expr, err := root.toExpr()
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		c, err := compiler.Compile("<repl>", e.Atoms, expr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
			continue
		}
		result, err := e.Run(c)
		if err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
			continue
		}
		fmt.Printf("=> %v\n", result)
	}
}

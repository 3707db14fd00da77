// Command aspdbg is an interactive shell around the asp embedding API: load
// a script, step it one instruction at a time, and inspect engine state
// between steps. It pairs with asps the way a debugger pairs with a plain
// runner.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/asplang/asp-sub001/appspec"
	"github.com/asplang/asp-sub001/asp"
)

func main() {
	var appspecPath string
	var dataCells int

	root := &cobra.Command{
		Use:   "aspdbg script",
		Short: "interactively step an asp bytecode script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(args[0], appspecPath, dataCells)
		},
	}
	root.Flags().StringVar(&appspecPath, "appspec", "", "path to a YAML AppSpec manifest describing host functions")
	root.Flags().IntVarP(&dataCells, "d", "d", 1024, "number of data arena cells")
	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func runShell(path, appspecPath string, dataCells int) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var spec *appspec.Spec
	if appspecPath != "" {
		spec, err = appspec.Load(appspecPath)
		if err != nil {
			return fmt.Errorf("loading appspec: %w", err)
		}
	}

	e := asp.NewEngine(dataCells, spec, nil)
	if res := e.AddCode(code); res != asp.AddCodeOK {
		return fmt.Errorf("add code: %v", res)
	}
	if res := e.Seal(); res != asp.AddCodeOK {
		return fmt.Errorf("seal: %v", res)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "(aspdbg) ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Printf("aspdbg: loaded %s (code version %v)\n", path, e.CodeVersion())
	fmt.Println("commands: step [n], run, pc, result, reset, restart, quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch fields := strings.Fields(line); {
		case len(fields) == 0:
			continue
		case fields[0] == "quit" || fields[0] == "exit":
			return nil
		case fields[0] == "step":
			n := 1
			if len(fields) > 1 {
				fmt.Sscanf(fields[1], "%d", &n)
			}
			for i := 0; i < n && e.IsRunning(); i++ {
				r := e.Step()
				fmt.Printf("pc=%d result=%v\n", e.ProgramCounter(), r)
				if r != asp.OK {
					break
				}
			}
		case fields[0] == "run":
			for e.IsRunning() {
				r := e.Step()
				if r != asp.OK {
					fmt.Printf("pc=%d result=%v\n", e.ProgramCounter(), r)
					break
				}
			}
		case fields[0] == "pc":
			fmt.Println(e.ProgramCounter())
		case fields[0] == "result":
			fmt.Println(e.RunResult())
		case fields[0] == "reset":
			e.Reset()
			fmt.Println("arena reset")
		case fields[0] == "restart":
			fmt.Println(e.Restart())
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", fields[0])
		}
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.aspdbg_history"
}

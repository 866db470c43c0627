package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/sarchlab/clocktree/console"
)

func (s *session) consoleBuilder(out io.Writer) console.Builder {
	b := console.MakeBuilder().
		WithRegistry(s.reg).
		WithOutput(out).
		WithPowerManager(s.pm)

	if s.irq != nil {
		b = b.WithEPLD(s.irq)
	}

	return b
}

func (s *session) console(out io.Writer) *console.Console {
	return s.consoleBuilder(out).Build()
}

// runConsole opens a session and runs input on it.
func runConsole(out io.Writer, input string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	return s.console(out).Exec(input)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all the clocks of the board.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConsole(cmd.OutOrStdout(), "show")
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the clock hierarchy of the board.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConsole(cmd.OutOrStdout(), "tree")
	},
}

var scriptFile string

var runCmd = &cobra.Command{
	Use:   "run [commands...]",
	Short: "Run console commands on a fresh board.",
	Long: "Run console commands, given as arguments or in a script file, on " +
		"a freshly instantiated board. Commands are separated by newlines " +
		"or semicolons. Run `clktree run help` for the list of commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.Join(args, "\n")

		if scriptFile != "" {
			script, err := os.ReadFile(scriptFile)
			if err != nil {
				return err
			}

			input = string(script) + "\n" + input
		}

		return runConsole(cmd.OutOrStdout(), input)
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Drive the board interactively.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          s.board.Name + "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()

		return shell(rl, s.console(rl.Stdout()), rl.Stderr())
	},
}

type lineReader interface {
	Readline() (string, error)
}

// shell runs lines until the input ends or the user types exit. Failing
// commands are reported and do not stop the shell.
func shell(rl lineReader, c *console.Console, errOut io.Writer) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}

		if line == "" {
			continue
		}

		if err := c.Exec(line); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}
}

func init() {
	runCmd.Flags().StringVarP(&scriptFile, "script", "f", "",
		"file with commands to run before the arguments")

	rootCmd.AddCommand(listCmd, treeCmd, runCmd, shellCmd)
}

// Package cmd provides the command-line interface of clktree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	envFile   string
	boardFlag string
	cfg       config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clktree",
	Short: "clktree inspects and drives the clock trees of reference boards.",
	Long: `clktree loads the clock tree of a board, either a builtin one or a
YAML description, on top of a simulated register bank. The tree can then be
listed, exported, changed with console commands, recorded into a database or
served over HTTP.

Examples:
  clktree boards                            # List the builtin boards
  clktree --board stx7100 tree              # Print the clock hierarchy
  clktree run "enable emi_clk; show"        # Run console commands
  clktree serve --open                      # Browse the clock tree`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error

		cfg, err = loadConfig(envFile)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("board") {
			cfg.Board = boardFlag
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"file with CLKTREE_* settings")
	rootCmd.PersistentFlags().StringVarP(&boardFlag, "board", "b", defaultBoard,
		"builtin board name or board YAML file")
}

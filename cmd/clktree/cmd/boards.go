package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/clocktree/board"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the builtin boards.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range board.BuiltinNames() {
			b, err := board.Builtin(name)
			if err != nil {
				log.Fatalf("Error loading board %s: %v", name, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", b.Name, b.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the calculator keypad",
	Run: func(cmd *cobra.Command, args []string) {
		md := tui.KeypadMarkdown()
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			fmt.Print(md)
			return
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			fmt.Printf("Error rendering keypad: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().Bool("plain", false, "Print raw Markdown")
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression once and print the result",
	Long: `Evaluates a calculator expression using the same grammar as the keypad,
for example: abacus eval "2×(3+4)" or abacus eval --deg "sin(30)".`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := mustApp(ctx, cmd)
		defer app.Close()

		mode := domain.Radians
		if deg, _ := cmd.Flags().GetBool("deg"); deg {
			mode = domain.Degrees
		}

		ev, err := app.Calculator.Evaluate(ctx, strings.Join(args, " "), mode)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			fmt.Printf("%s = %s\n", ev.Canonical, ev.Result)
			return
		}
		fmt.Println(ev.Result)
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("deg", false, "Interpret trigonometric arguments in degrees")
	evalCmd.Flags().BoolP("verbose", "v", false, "Print the canonical expression too")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/abacus/internal/expr"
	"github.com/aretw0/abacus/internal/presentation/graph"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <expression>",
	Short: "Print the parse tree of an expression as a Mermaid flowchart",
	Long: `Shows how an expression is grouped after keypad symbols are rewritten.
The output can be pasted into any Mermaid viewer.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := mustApp(ctx, cmd)
		defer app.Close()

		mode := domain.Radians
		if deg, _ := cmd.Flags().GetBool("deg"); deg {
			mode = domain.Degrees
		}

		ev, evalErr := app.Calculator.Evaluate(ctx, strings.Join(args, " "), mode)
		tree, err := expr.Inspect(ev.Canonical)
		if err != nil {
			fmt.Printf("Error parsing %q: %v\n", ev.Canonical, err)
			os.Exit(1)
		}

		overlay := &graph.Overlay{Result: ev.Result}
		if evalErr != nil {
			var ee *expr.EvalError
			if !errors.As(evalErr, &ee) {
				fmt.Printf("Error: %v\n", evalErr)
				os.Exit(1)
			}
			overlay = &graph.Overlay{Result: ee.Error(), Failed: true}
		}
		if noResult, _ := cmd.Flags().GetBool("no-result"); noResult {
			overlay = nil
		}

		fmt.Print(graph.GenerateMermaid(tree, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("deg", false, "Interpret trigonometric arguments in degrees")
	graphCmd.Flags().Bool("no-result", false, "Omit the evaluated result node")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive calculator session",
	Long: `Reads key sequences from standard input, one line at a time, and prints
the equation and result after each line. Type "help" for the key list.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := mustApp(ctx, cmd)
		defer app.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		fresh, _ := cmd.Flags().GetBool("fresh")

		opts := []runner.Option{
			runner.WithLogger(app.Logger),
			runner.WithSessionID(sessionID),
			runner.WithMaxInputSize(app.Config.Input.MaxSize),
		}
		if jsonMode {
			opts = append(opts, runner.WithInputHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)))
		} else if runner.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, abacus.Version)
		}

		if fresh {
			if _, err := app.Calculator.Start(ctx, sessionID); err != nil {
				fmt.Printf("Error starting session: %v\n", err)
				os.Exit(1)
			}
		}

		r := runner.NewRunner(app.Calculator, opts...)
		if err := r.Run(ctx); err != nil {
			fmt.Printf("Error running session: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", runner.DefaultSessionID, "Session ID to resume or create")
	runCmd.Flags().Bool("json", false, "Read and write JSON lines instead of text")
	runCmd.Flags().Bool("fresh", false, "Reset the session before reading input")
}

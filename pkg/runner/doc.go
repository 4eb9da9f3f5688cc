/*
Package runner implements the interactive read-press-print loop for a
calculator session.

The Runner reads lines through an IOHandler, splits them into keys and shows
the session after every line. TextHandler is the human console (coloured on
a terminal); JSONHandler speaks JSON Lines for scripts and other programs.

# Usage

	r := runner.NewRunner(calc,
		runner.WithSessionID("desk"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

Input is cleaned with SanitizeInput before it reaches the calculator.
*/
package runner

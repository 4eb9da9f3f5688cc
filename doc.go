/*
Package abacus is a scientific calculator engine driven by key presses.

A session holds an equation, a live result preview, an angle mode and the
last good answer. Each key (a digit, an operator, a function name, "=" and
so on) moves the session through a small state machine. Expressions are
normalized from keypad notation ("×", "÷", "π", implicit multiplication)
into a canonical form and evaluated by a closed, side-effect free grammar.

# Concept

The Calculator is the host-facing entry point. Sessions live in a
ports.StateStore (memory, file or Redis) and are updated under a per-session
lock, so HTTP handlers, MCP tools and the REPL can share one Calculator.
Observers receive a domain.StateDiff after every key that changed something.

# Usage

	calc := abacus.New()
	ctx := context.Background()

	state, err := calc.PressKeys(ctx, "desk", "DEG sin(30)=")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(state.Result) // 0.5

	out, err := calc.Evaluate(ctx, "2^10", domain.Radians)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Result) // 1024
*/
package abacus

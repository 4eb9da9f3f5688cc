package expr

import "math"

// Func is a function from the closed table. It receives every argument of the
// call; table functions use the first and return NaN when there is none.
type Func func(args []float64) float64

// Monadic adapts a one-argument function to Func.
func Monadic(f func(float64) float64) Func {
	return func(args []float64) float64 {
		if len(args) == 0 {
			return math.NaN()
		}
		return f(args[0])
	}
}

// guarded returns NaN outside the domain accepted by ok.
func guarded(f func(float64) float64, ok func(float64) bool) Func {
	return Monadic(func(x float64) float64 {
		if !ok(x) {
			return math.NaN()
		}
		return f(x)
	})
}

func positive(x float64) bool    { return x > 0 }
func nonNegative(x float64) bool { return x >= 0 }
func unit(x float64) bool        { return x >= -1 && x <= 1 }

// newFuncTable builds the function table for one evaluation.
func newFuncTable() map[string]Func {
	return map[string]Func{
		"degToRad": Monadic(func(x float64) float64 { return x * math.Pi / 180 }),
		"radToDeg": Monadic(func(x float64) float64 { return x * 180 / math.Pi }),
		"log":      guarded(math.Log10, positive),
		"ln":       guarded(math.Log, positive),
		"sqrt":     guarded(math.Sqrt, nonNegative),
		"sin":      Monadic(math.Sin),
		"cos":      Monadic(math.Cos),
		"tan":      Monadic(math.Tan),
		"asin":     guarded(math.Asin, unit),
		"acos":     guarded(math.Acos, unit),
		"atan":     Monadic(math.Atan),
	}
}

// FuncNames lists the names callable from an expression.
func FuncNames() []string {
	return []string{"degToRad", "radToDeg", "log", "ln", "sqrt", "sin", "cos", "tan", "asin", "acos", "atan"}
}

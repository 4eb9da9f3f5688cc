package runtime

import (
	"math"
	"math/big"

	"github.com/aretw0/abacus/pkg/domain"
)

// maxFactorial is the largest n whose factorial fits in a float64.
const maxFactorial = 170

func factorial(v float64) (float64, error) {
	if v < 0 || v > maxFactorial || v != math.Floor(v) {
		return 0, &domain.DomainError{Op: "factorial", Message: domain.MsgInvalidInput}
	}
	n := new(big.Int).MulRange(1, int64(v))
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, nil
}

func reciprocal(v float64) (float64, error) {
	if v == 0 {
		return 0, &domain.DomainError{Op: "reciprocal", Message: domain.MsgDivideByZero}
	}
	return 1 / v, nil
}

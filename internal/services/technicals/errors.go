package technicals

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientData means the input window is shorter than the
	// indicator's mathematical minimum. Raised before any computation.
	ErrInsufficientData = errors.New("technicals: insufficient data")

	// ErrInvalidInput means mismatched array lengths or non-finite values.
	ErrInvalidInput = errors.New("technicals: invalid input")
)

func insufficient(indicator string, required, got int) error {
	return fmt.Errorf("%w: %s requires at least %d points, got %d", ErrInsufficientData, indicator, required, got)
}

func mismatched(indicator string, lens ...int) error {
	return fmt.Errorf("%w: %s given arrays of mismatched lengths %v", ErrInvalidInput, indicator, lens)
}

func checkFinite(indicator string, series ...[]float64) error {
	for _, s := range series {
		for i, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s input contains non-finite value at index %d", ErrInvalidInput, indicator, i)
			}
		}
	}
	return nil
}

package window

import (
	"fmt"

	"github.com/cwbudde/algo-grain/dsp/core"
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window: size must be > 0: %d: %w", size, core.ErrInvalidConfiguration)
	}
	return nil
}

func validateType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("window: unknown type %d: %w", int(t), core.ErrInvalidConfiguration)
	}
	return nil
}

func validateKaiser(size int, beta float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if beta < 0 {
		return fmt.Errorf("window: kaiser beta must be >= 0: %f: %w", beta, core.ErrInvalidConfiguration)
	}
	return nil
}

func validateGauss(size int, sigma float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if sigma <= 0 {
		return fmt.Errorf("window: gaussian sigma must be > 0: %f: %w", sigma, core.ErrInvalidConfiguration)
	}
	return nil
}

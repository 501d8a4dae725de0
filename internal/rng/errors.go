package rng

import (
	"fmt"

	"terrasim/internal/simerr"
)

var errInvalidSeed = fmt.Errorf("seed must be finite: %w", simerr.ErrInvalidArgument)

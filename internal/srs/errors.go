package srs

import "errors"

// Sentinel errors for caller contract violations.
// Use errors.Is to check: errors.Is(err, srs.ErrInvalidQuality)
var (
	ErrInvalidQuality      = errors.New("srs: quality outside 0..5")
	ErrInvalidResponseTime = errors.New("srs: response time must be positive")
	ErrInvalidState        = errors.New("srs: invalid scheduling state")
)

package srs

import (
	"fmt"
	"time"
)

// Quality is an SM-2 recall grade from 0 (blackout) to 5 (perfect).
type Quality int

const (
	// QualityBlackout: no recall at all.
	QualityBlackout Quality = 0
	// QualityIncorrect: wrong, but the answer was recognized once shown.
	QualityIncorrect Quality = 1
	// QualityIncorrectFamiliar: wrong, but the answer was close at hand.
	QualityIncorrectFamiliar Quality = 2
	// QualityCorrectDifficult: correct after significant effort.
	QualityCorrectDifficult Quality = 3
	// QualityCorrectHesitation: correct after some hesitation.
	QualityCorrectHesitation Quality = 4
	// QualityPerfect: correct with no hesitation.
	QualityPerfect Quality = 5
)

// PassThreshold is the lowest quality that counts as a successful recall.
const PassThreshold = QualityCorrectDifficult

// IsValid reports whether q is within 0..5.
func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passed reports whether q is a successful recall.
func (q Quality) Passed() bool {
	return q >= PassThreshold
}

// Thresholds splits response latency into fast, normal and slow bands.
type Thresholds struct {
	Fast time.Duration // answers quicker than this are "fast"
	Slow time.Duration // answers at or beyond this are "slow"
}

// DefaultThresholds returns the latency bands used by InferQuality.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Fast: 3 * time.Second,
		Slow: 8 * time.Second,
	}
}

// Infer maps a correctness flag and response latency to a Quality.
// Correct answers grade 5/4/3 for fast/normal/slow; incorrect answers
// grade 2/1/0, so every incorrect answer stays below PassThreshold.
func (t Thresholds) Infer(correct bool, responseTimeMs int) (Quality, error) {
	if responseTimeMs <= 0 {
		return 0, fmt.Errorf("%w: got %dms", ErrInvalidResponseTime, responseTimeMs)
	}
	rt := time.Duration(responseTimeMs) * time.Millisecond

	if correct {
		switch {
		case rt < t.Fast:
			return QualityPerfect, nil
		case rt < t.Slow:
			return QualityCorrectHesitation, nil
		default:
			return QualityCorrectDifficult, nil
		}
	}

	switch {
	case rt < t.Fast:
		return QualityIncorrectFamiliar, nil
	case rt < t.Slow:
		return QualityIncorrect, nil
	default:
		return QualityBlackout, nil
	}
}

// InferQuality grades a review with DefaultThresholds.
func InferQuality(correct bool, responseTimeMs int) (Quality, error) {
	return DefaultThresholds().Infer(correct, responseTimeMs)
}

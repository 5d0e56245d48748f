package biometric

import (
	"fmt"
	"math"

	"campusgate.io/infrastructure/biometric/types"
)

// MatchThreshold is the decision boundary on euclidean distance between two
// descriptors. Lower distance means more similar faces; a distance equal to
// the threshold is NOT a match. Policy constant, not derived from data.
const MatchThreshold = 0.6

// EuclideanDistance returns the straight-line distance between two
// descriptors in their shared N-dimensional space.
func EuclideanDistance(a []float64, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("descriptor dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

// MatchDescriptors applies the match policy: distance below the threshold is
// a match, and confidence is a clamped linear transform of distance into
// [0,100]. Not a calibrated probability.
func MatchDescriptors(reference []float64, live []float64) (*types.FaceMatchResult, error) {
	distance, err := EuclideanDistance(reference, live)
	if err != nil {
		return nil, err
	}
	confidence := (1 - distance) * 100
	if confidence < 0 {
		confidence = 0
	} else if confidence > 100 {
		confidence = 100
	}
	return &types.FaceMatchResult{
		IsMatch:           distance < MatchThreshold,
		ConfidencePercent: confidence,
	}, nil
}

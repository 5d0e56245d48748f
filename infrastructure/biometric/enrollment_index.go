package biometric

import (
	"sync"

	"campusgate.io/infrastructure/logger"
	"github.com/coder/hnsw"
)

// EnrollmentIndex keeps every enrolled descriptor in an in-memory HNSW graph
// so enrollment can detect a face already registered under another profile.
// Rebuilt from the profile store at startup; best-effort, not a durable
// source of truth.
type EnrollmentIndex struct {
	mu    sync.Mutex
	graph *hnsw.Graph[string]
}

func NewEnrollmentIndex() *EnrollmentIndex {
	graph := hnsw.NewGraph[string]()
	graph.Distance = hnsw.EuclideanDistance
	return &EnrollmentIndex{graph: graph}
}

var Enrollments = NewEnrollmentIndex()

// Add registers (or replaces) a profile's descriptor.
func (ei *EnrollmentIndex) Add(profileID string, descriptor []float64) {
	ei.mu.Lock()
	defer ei.mu.Unlock()
	ei.graph.Add(hnsw.MakeNode(profileID, toFloat32(descriptor)))
}

// NearestMatch returns the closest enrolled profile within the match
// threshold, skipping selfID so re-enrollment never flags itself.
func (ei *EnrollmentIndex) NearestMatch(descriptor []float64, selfID string) (string, bool) {
	ei.mu.Lock()
	defer ei.mu.Unlock()

	vector := toFloat32(descriptor)
	neighbors := ei.graph.Search(vector, 2)
	for _, neighbor := range neighbors {
		if neighbor.Key == selfID {
			continue
		}
		distance := hnsw.EuclideanDistance(neighbor.Value, vector)
		if float64(distance) < MatchThreshold {
			logger.Warning("enrollment descriptor matches an existing profile", logger.LoggerOptions{
				Key:  "existingProfileID",
				Data: neighbor.Key,
			})
			return neighbor.Key, true
		}
	}
	return "", false
}

func toFloat32(descriptor []float64) []float32 {
	vector := make([]float32, len(descriptor))
	for i, v := range descriptor {
		vector[i] = float32(v)
	}
	return vector
}

package biometric

import "testing"

func descriptorWithLead(lead float64) []float64 {
	d := make([]float64, 128)
	d[0] = lead
	return d
}

func TestEnrollmentIndexFlagsReusedFace(t *testing.T) {
	index := NewEnrollmentIndex()
	index.Add("student-a", descriptorWithLead(0.0))
	index.Add("student-b", descriptorWithLead(5.0))

	// A descriptor near student-a's enrollment, submitted by someone else.
	existing, found := index.NearestMatch(descriptorWithLead(0.1), "student-c")
	if !found {
		t.Fatal("expected the reused face to be flagged")
	}
	if existing != "student-a" {
		t.Errorf("expected student-a, got %s", existing)
	}
}

func TestEnrollmentIndexIgnoresSelf(t *testing.T) {
	index := NewEnrollmentIndex()
	index.Add("student-a", descriptorWithLead(0.0))

	if _, found := index.NearestMatch(descriptorWithLead(0.05), "student-a"); found {
		t.Error("re-enrollment must not flag the student's own descriptor")
	}
}

func TestEnrollmentIndexDistantFacesPass(t *testing.T) {
	index := NewEnrollmentIndex()
	index.Add("student-a", descriptorWithLead(0.0))

	if existing, found := index.NearestMatch(descriptorWithLead(3.0), "student-b"); found {
		t.Errorf("distant descriptor should not match, flagged %s", existing)
	}
}

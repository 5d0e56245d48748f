package biometric

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ModelVersion tags every descriptor this build produces. Descriptors from a
// different embedding model are incomparable and must be rejected, never
// silently mismatched.
const ModelVersion = "sface-2021dec"

// DecodeError indicates a stored descriptor is corrupted or was never a
// descriptor. Verification fails and the user is routed to re-enrollment.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("descriptor decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("descriptor decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ModelVersionMismatchError is returned when a stored descriptor was produced
// by a different embedding model than this build runs.
type ModelVersionMismatchError struct {
	Stored  string
	Current string
}

func (e *ModelVersionMismatchError) Error() string {
	return fmt.Sprintf("stored descriptor was produced by model %q but this build runs %q; re-enrollment required", e.Stored, e.Current)
}

// versionedDescriptor is the stored envelope. Legacy records hold a bare JSON
// array instead and decode with an empty Model.
type versionedDescriptor struct {
	Model      string    `json:"model"`
	Descriptor []float64 `json:"descriptor"`
}

// EncodeDescriptor serializes a descriptor to a base64 JSON array. ASCII-safe
// and lossless for IEEE-754 doubles.
func EncodeDescriptor(descriptor []float64) string {
	payload, _ := json.Marshal(descriptor)
	return base64.StdEncoding.EncodeToString(payload)
}

// DecodeDescriptor is the inverse of EncodeDescriptor.
func DecodeDescriptor(text string) ([]float64, error) {
	payload, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, &DecodeError{Reason: "not valid base64", Err: err}
	}
	var descriptor []float64
	if err := json.Unmarshal(payload, &descriptor); err != nil {
		return nil, &DecodeError{Reason: "not a numeric array", Err: err}
	}
	return descriptor, nil
}

// EncodeVersionedDescriptor wraps a descriptor in the model-tagged envelope
// used for persistence.
func EncodeVersionedDescriptor(descriptor []float64) string {
	payload, _ := json.Marshal(versionedDescriptor{
		Model:      ModelVersion,
		Descriptor: descriptor,
	})
	return base64.StdEncoding.EncodeToString(payload)
}

// DecodeVersionedDescriptor reads a stored descriptor. Bare legacy arrays are
// accepted with an empty model tag; the caller decides whether that is
// comparable.
func DecodeVersionedDescriptor(text string) (string, []float64, error) {
	payload, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", nil, &DecodeError{Reason: "not valid base64", Err: err}
	}
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var descriptor []float64
		if err := json.Unmarshal(payload, &descriptor); err != nil {
			return "", nil, &DecodeError{Reason: "not a numeric array", Err: err}
		}
		return "", descriptor, nil
	}
	var envelope versionedDescriptor
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", nil, &DecodeError{Reason: "not a descriptor envelope", Err: err}
	}
	if envelope.Descriptor == nil {
		return "", nil, &DecodeError{Reason: "envelope has no descriptor"}
	}
	return envelope.Model, envelope.Descriptor, nil
}

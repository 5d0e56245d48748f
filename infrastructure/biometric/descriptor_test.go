package biometric

import (
	"encoding/base64"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestDescriptorRoundTrip(t *testing.T) {
	vectors := [][]float64{
		{0},
		{0.1, -0.2, 0.3},
		{math.Pi, -math.E, 1e-17, 123456.789},
		make([]float64, 128),
	}
	for _, v := range vectors {
		decoded, err := DecodeDescriptor(EncodeDescriptor(v))
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if !reflect.DeepEqual(decoded, v) {
			t.Errorf("round trip changed the vector: %v != %v", decoded, v)
		}
	}
}

func TestDecodeDescriptorRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"base64 of non-json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"base64 of json object", base64.StdEncoding.EncodeToString([]byte(`{"a":1}`))},
		{"base64 of string array", base64.StdEncoding.EncodeToString([]byte(`["a","b"]`))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDescriptor(tc.text)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("expected DecodeError, got %v", err)
			}
		})
	}
}

func TestVersionedDescriptorRoundTrip(t *testing.T) {
	v := []float64{0.25, -0.5, 0.75}
	model, decoded, err := DecodeVersionedDescriptor(EncodeVersionedDescriptor(v))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if model != ModelVersion {
		t.Errorf("expected model %q, got %q", ModelVersion, model)
	}
	if !reflect.DeepEqual(decoded, v) {
		t.Errorf("round trip changed the vector: %v != %v", decoded, v)
	}
}

func TestDecodeVersionedDescriptorLegacyArray(t *testing.T) {
	v := []float64{1, 2, 3}
	model, decoded, err := DecodeVersionedDescriptor(EncodeDescriptor(v))
	if err != nil {
		t.Fatalf("legacy arrays must still decode: %v", err)
	}
	if model != "" {
		t.Errorf("legacy arrays carry no model tag, got %q", model)
	}
	if !reflect.DeepEqual(decoded, v) {
		t.Errorf("round trip changed the vector: %v != %v", decoded, v)
	}
}

func TestDecodeReferenceRejectsForeignModels(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"legacy untagged", EncodeDescriptor([]float64{1, 2})},
		{"other model", base64.StdEncoding.EncodeToString([]byte(`{"model":"facenet-2018","descriptor":[1,2]}`))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeReference(tc.encoded)
			var mismatch *ModelVersionMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("expected ModelVersionMismatchError, got %v", err)
			}
		})
	}
}

func TestDecodeReferenceAcceptsCurrentModel(t *testing.T) {
	v := []float64{0.5, 0.5}
	decoded, err := DecodeReference(EncodeVersionedDescriptor(v))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decoded, v) {
		t.Errorf("got %v, want %v", decoded, v)
	}
}

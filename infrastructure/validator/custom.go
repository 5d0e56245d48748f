package validator

import (
	"encoding/base64"
	"strings"

	"github.com/go-playground/validator/v10"
)

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180 && lon <= 180
}

// Uploaded photos arrive as base64 text, optionally with a data-URL prefix.
// Only the encoding is checked here; the pipeline decodes the actual image.
func validateEncodedImage(fl validator.FieldLevel) bool {
	text := fl.Field().String()
	if idx := strings.Index(text, ","); idx != -1 && strings.HasPrefix(text, "data:") {
		text = text[idx+1:]
	}
	if text == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(text)
	return err == nil
}

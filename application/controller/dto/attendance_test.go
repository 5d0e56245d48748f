package dto

import (
	"testing"

	"campusgate.io/infrastructure/validator"
)

func TestLocationCheckDTOValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    LocationCheckDTO
		wantErr bool
	}{
		{
			name: "valid fix",
			body: LocationCheckDTO{Fix: &GeoFixDTO{Latitude: 6.5244, Longitude: 3.3792, AccuracyMeters: 12}},
		},
		{
			name: "valid error code only",
			body: LocationCheckDTO{ErrorCode: "permission_denied"},
		},
		{
			name: "empty payload is allowed, gate reports unavailable",
			body: LocationCheckDTO{},
		},
		{
			name:    "latitude out of range",
			body:    LocationCheckDTO{Fix: &GeoFixDTO{Latitude: 91, Longitude: 0, AccuracyMeters: 5}},
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			body:    LocationCheckDTO{Fix: &GeoFixDTO{Latitude: 0, Longitude: -181, AccuracyMeters: 5}},
			wantErr: true,
		},
		{
			name:    "negative accuracy",
			body:    LocationCheckDTO{Fix: &GeoFixDTO{Latitude: 0, Longitude: 0, AccuracyMeters: -1}},
			wantErr: true,
		},
		{
			name:    "unknown error code",
			body:    LocationCheckDTO{ErrorCode: "gps_exploded"},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validator.ValidatorInstance.ValidateStruct(tc.body)
			if tc.wantErr && errs == nil {
				t.Fatal("expected validation to fail")
			}
			if !tc.wantErr && errs != nil {
				t.Fatalf("expected validation to pass, got %v", *errs)
			}
		})
	}
}

func TestMarkAttendanceDTOValidation(t *testing.T) {
	valid := MarkAttendanceDTO{
		SessionID: "01J0000000000000000000000",
		QRNonce:   "01J0000000000000000000001",
		Location:  LocationCheckDTO{Fix: &GeoFixDTO{Latitude: 6.5, Longitude: 3.4, AccuracyMeters: 8}},
		Image:     "aGVsbG8=",
	}
	if errs := validator.ValidatorInstance.ValidateStruct(valid); errs != nil {
		t.Fatalf("expected validation to pass, got %v", *errs)
	}

	missingImage := valid
	missingImage.Image = ""
	if errs := validator.ValidatorInstance.ValidateStruct(missingImage); errs == nil {
		t.Fatal("a mark attempt without a photo must fail validation")
	}

	missingNonce := valid
	missingNonce.QRNonce = ""
	if errs := validator.ValidatorInstance.ValidateStruct(missingNonce); errs == nil {
		t.Fatal("a mark attempt without the qr nonce must fail validation")
	}

	badImage := valid
	badImage.Image = "not base64!!!"
	if errs := validator.ValidatorInstance.ValidateStruct(badImage); errs == nil {
		t.Fatal("a photo that is not base64 must fail validation")
	}

	dataURL := valid
	dataURL.Image = "data:image/jpeg;base64,aGVsbG8="
	if errs := validator.ValidatorInstance.ValidateStruct(dataURL); errs != nil {
		t.Fatalf("data-url photos must pass validation, got %v", *errs)
	}
}

func TestCreateAccountDTOValidation(t *testing.T) {
	valid := CreateAccountDTO{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.edu",
		Role:      "student",
	}
	if errs := validator.ValidatorInstance.ValidateStruct(valid); errs != nil {
		t.Fatalf("expected validation to pass, got %v", *errs)
	}

	badRole := valid
	badRole.Role = "admin"
	if errs := validator.ValidatorInstance.ValidateStruct(badRole); errs == nil {
		t.Fatal("unknown roles must fail validation")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if errs := validator.ValidatorInstance.ValidateStruct(badEmail); errs == nil {
		t.Fatal("malformed emails must fail validation")
	}
}

package types

// FaceMatchResult is the outcome of one verification attempt. Ephemeral.
type FaceMatchResult struct {
	IsMatch           bool    `json:"isMatch"`
	ConfidencePercent float64 `json:"confidencePercent"`
}

// SessionState tracks a capture/verify session through its lifecycle.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionLoading   SessionState = "loading"
	SessionReady     SessionState = "ready"
	SessionCapturing SessionState = "capturing"
	SessionVerifying SessionState = "verifying"
	SessionSuccess   SessionState = "success"
	SessionFailed    SessionState = "failed"
	SessionError     SessionState = "error"
)

// NoFaceDetectedError is the expected negative outcome of a capture: the
// frame held no usable face. Callers branch on it and offer a retry.
type NoFaceDetectedError struct{}

func (e *NoFaceDetectedError) Error() string {
	return "no face detected. Ensure your face is clearly visible and try again"
}

// CameraErrorCause classifies camera acquisition failures. Remediation
// differs per cause, so each gets its own user-facing message.
type CameraErrorCause string

const (
	CameraPermissionDenied       CameraErrorCause = "permission_denied"
	CameraNotFound               CameraErrorCause = "not_found"
	CameraBusy                   CameraErrorCause = "busy"
	CameraUnsupportedConstraints CameraErrorCause = "unsupported_constraints"
	CameraUnsupported            CameraErrorCause = "unsupported"
)

type CameraError struct {
	Cause   CameraErrorCause
	Message string
	Err     error
}

func (e *CameraError) Error() string { return e.Message }

func (e *CameraError) Unwrap() error { return e.Err }

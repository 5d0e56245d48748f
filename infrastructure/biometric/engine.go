package biometric

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campusgate.io/infrastructure/biometric/types"
	"campusgate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// The visible countdown before a capture: three sequential one-second waits,
// each cancellable. UX pacing only; no correctness obligation.
const (
	countdownSteps = 3
	countdownStep  = time.Second
)

// DescriptorSource supplies live descriptors to a session. The production
// source binds the camera and the pipeline; tests substitute their own.
type DescriptorSource interface {
	Prepare(ctx context.Context) error
	CaptureDescriptor(ctx context.Context) ([]float64, error)
	Release()
}

// VerificationSession drives one enrollment or verification attempt through
// idle → loading → ready → capturing|verifying → success|failed|error.
// failed and error are recoverable by explicit user action; success is
// terminal for the session. Steps within a session are strictly sequential.
type VerificationSession struct {
	mu     sync.Mutex
	state  types.SessionState
	source DescriptorSource

	// Overridable so tests do not sit through real countdowns.
	stepDelay time.Duration
}

func NewVerificationSession(source DescriptorSource) *VerificationSession {
	return &VerificationSession{
		state:     types.SessionIdle,
		source:    source,
		stepDelay: countdownStep,
	}
}

func (vs *VerificationSession) State() types.SessionState {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.state
}

func (vs *VerificationSession) setState(state types.SessionState) {
	vs.mu.Lock()
	vs.state = state
	vs.mu.Unlock()
}

// Begin loads models and acquires the camera. Initialization failures are
// terminal for the session; the caller starts a fresh session to retry.
func (vs *VerificationSession) Begin(ctx context.Context) error {
	vs.mu.Lock()
	if vs.state != types.SessionIdle {
		state := vs.state
		vs.mu.Unlock()
		return fmt.Errorf("cannot begin a session in state %s", state)
	}
	vs.state = types.SessionLoading
	vs.mu.Unlock()

	if err := vs.source.Prepare(ctx); err != nil {
		vs.source.Release()
		vs.setState(types.SessionError)
		return err
	}
	vs.setState(types.SessionReady)
	return nil
}

// countdown runs the visible pre-capture delay. Cancellation interrupts it
// immediately; the camera is released before control returns.
func (vs *VerificationSession) countdown(ctx context.Context) error {
	timer := time.NewTimer(vs.stepDelay)
	defer timer.Stop()
	for step := 0; step < countdownSteps; step++ {
		select {
		case <-timer.C:
			timer.Reset(vs.stepDelay)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (vs *VerificationSession) beginAttempt(next types.SessionState) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if vs.state != types.SessionReady {
		return fmt.Errorf("session is %s, not ready", vs.state)
	}
	vs.state = next
	return nil
}

// capture runs countdown + extraction with cancellation honored at every
// suspension point.
func (vs *VerificationSession) capture(ctx context.Context) ([]float64, error) {
	if err := vs.countdown(ctx); err != nil {
		vs.source.Release()
		vs.setState(types.SessionIdle)
		return nil, err
	}
	descriptor, err := vs.source.CaptureDescriptor(ctx)
	if err != nil {
		if ctx.Err() != nil {
			vs.source.Release()
			vs.setState(types.SessionIdle)
			return nil, ctx.Err()
		}
		vs.source.Release()
		vs.setState(types.SessionError)
		return nil, err
	}
	return descriptor, nil
}

// Enroll captures a reference descriptor and returns it in encoded form for
// the caller to persist against the user's profile.
func (vs *VerificationSession) Enroll(ctx context.Context) (string, error) {
	if err := vs.beginAttempt(types.SessionCapturing); err != nil {
		return "", err
	}

	descriptor, err := vs.capture(ctx)
	if err != nil {
		return "", err
	}
	if descriptor == nil {
		vs.setState(types.SessionFailed)
		return "", &types.NoFaceDetectedError{}
	}

	vs.source.Release()
	vs.setState(types.SessionSuccess)
	return EncodeVersionedDescriptor(descriptor), nil
}

// Verify captures a live descriptor and compares it to the enrolled
// reference. "No face" and "no match" are expected negatives — the first is
// a typed error, the second a result with IsMatch false; neither is retried
// automatically.
func (vs *VerificationSession) Verify(ctx context.Context, referenceEncoded string) (*types.FaceMatchResult, error) {
	if err := vs.beginAttempt(types.SessionVerifying); err != nil {
		return nil, err
	}

	descriptor, err := vs.capture(ctx)
	if err != nil {
		return nil, err
	}
	if descriptor == nil {
		vs.setState(types.SessionFailed)
		return nil, &types.NoFaceDetectedError{}
	}

	reference, err := DecodeReference(referenceEncoded)
	if err != nil {
		// Corrupted or incompatible enrollment data; the caller routes the
		// user back to re-enrollment.
		vs.setState(types.SessionFailed)
		return nil, err
	}

	result, err := MatchDescriptors(reference, descriptor)
	if err != nil {
		vs.setState(types.SessionFailed)
		return nil, err
	}

	if result.IsMatch {
		vs.source.Release()
		vs.setState(types.SessionSuccess)
	} else {
		vs.setState(types.SessionFailed)
	}
	return result, nil
}

// Retry re-arms a failed session for another attempt. Initialization errors
// cannot be retried in place; those need a fresh session.
func (vs *VerificationSession) Retry() error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if vs.state != types.SessionFailed {
		return fmt.Errorf("only failed sessions can be retried, session is %s", vs.state)
	}
	vs.state = types.SessionReady
	return nil
}

// Cancel abandons the session without producing a result and releases the
// camera immediately.
func (vs *VerificationSession) Cancel() {
	vs.source.Release()
	vs.setState(types.SessionIdle)
}

// Close releases held resources on teardown. Idempotent.
func (vs *VerificationSession) Close() {
	vs.source.Release()
}

// DecodeReference decodes a stored descriptor and enforces model-version
// compatibility. Untagged descriptors predate versioning; their model is
// unknowable, so comparison is refused rather than silently mismatched.
func DecodeReference(encoded string) ([]float64, error) {
	model, reference, err := DecodeVersionedDescriptor(encoded)
	if err != nil {
		return nil, err
	}
	if model != ModelVersion {
		stored := model
		if stored == "" {
			stored = "unversioned"
		}
		logger.Warning("stored descriptor rejected for model mismatch", logger.LoggerOptions{
			Key:  "storedModel",
			Data: stored,
		})
		return nil, &ModelVersionMismatchError{Stored: stored, Current: ModelVersion}
	}
	return reference, nil
}

// KioskSource is the production descriptor source: host camera + local
// models, used where the attendance kiosk runs on the server machine.
type KioskSource struct {
	Pipeline *FacePipeline
	DeviceID int

	mu     sync.Mutex
	camera *CameraHandle
}

func NewKioskSource(pipeline *FacePipeline, deviceID int) *KioskSource {
	return &KioskSource{Pipeline: pipeline, DeviceID: deviceID}
}

func (ks *KioskSource) Prepare(ctx context.Context) error {
	if err := ks.Pipeline.Registry.Await(ctx); err != nil {
		return err
	}
	camera, err := AcquireCamera(ks.DeviceID)
	if err != nil {
		return err
	}
	ks.mu.Lock()
	ks.camera = camera
	ks.mu.Unlock()
	return nil
}

func (ks *KioskSource) CaptureDescriptor(ctx context.Context) ([]float64, error) {
	ks.mu.Lock()
	camera := ks.camera
	ks.mu.Unlock()
	if camera == nil {
		return nil, fmt.Errorf("camera not acquired")
	}

	frame := gocv.NewMat()
	defer frame.Close()
	if err := camera.ReadFrame(&frame); err != nil {
		return nil, err
	}
	return ks.Pipeline.CaptureDescriptor(ctx, frame)
}

func (ks *KioskSource) Release() {
	ks.mu.Lock()
	camera := ks.camera
	ks.camera = nil
	ks.mu.Unlock()
	if camera != nil {
		camera.Release()
	}
}

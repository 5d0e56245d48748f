package biometric

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusgate.io/infrastructure/biometric/types"
)

type stubSource struct {
	descriptor  []float64
	captureErr  error
	prepareErr  error
	releases    int
	captures    int
	prepareDone bool
}

func (ss *stubSource) Prepare(_ context.Context) error {
	if ss.prepareErr != nil {
		return ss.prepareErr
	}
	ss.prepareDone = true
	return nil
}

func (ss *stubSource) CaptureDescriptor(ctx context.Context) ([]float64, error) {
	ss.captures++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ss.captureErr != nil {
		return nil, ss.captureErr
	}
	return ss.descriptor, nil
}

func (ss *stubSource) Release() { ss.releases++ }

func newTestSession(source *stubSource) *VerificationSession {
	session := NewVerificationSession(source)
	session.stepDelay = time.Millisecond
	return session
}

func TestSessionLifecycleEnrollSuccess(t *testing.T) {
	source := &stubSource{descriptor: []float64{0.1, 0.2, 0.3}}
	session := newTestSession(source)

	if session.State() != types.SessionIdle {
		t.Fatalf("new sessions start idle, got %s", session.State())
	}
	if err := session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}
	if session.State() != types.SessionReady {
		t.Fatalf("expected ready after Begin, got %s", session.State())
	}

	encoded, err := session.Enroll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if session.State() != types.SessionSuccess {
		t.Errorf("expected success, got %s", session.State())
	}
	if source.releases == 0 {
		t.Error("the camera must be released on success")
	}

	decoded, err := DecodeReference(encoded)
	if err != nil {
		t.Fatalf("enrollment output must decode: %v", err)
	}
	if len(decoded) != 3 || decoded[0] != 0.1 {
		t.Errorf("unexpected decoded descriptor: %v", decoded)
	}
}

func TestSessionBeginFailureIsTerminal(t *testing.T) {
	source := &stubSource{prepareErr: &types.CameraError{Cause: types.CameraBusy, Message: "busy"}}
	session := newTestSession(source)

	if err := session.Begin(context.Background()); err == nil {
		t.Fatal("expected Begin to fail")
	}
	if session.State() != types.SessionError {
		t.Errorf("expected error state, got %s", session.State())
	}
	if source.releases == 0 {
		t.Error("resources must be released on init failure")
	}
	if _, err := session.Enroll(context.Background()); err == nil {
		t.Error("an errored session must not accept captures")
	}
}

func TestSessionEnrollNoFace(t *testing.T) {
	source := &stubSource{descriptor: nil}
	session := newTestSession(source)
	if err := session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := session.Enroll(context.Background())
	var noFace *types.NoFaceDetectedError
	if !errors.As(err, &noFace) {
		t.Fatalf("expected NoFaceDetectedError, got %v", err)
	}
	if session.State() != types.SessionFailed {
		t.Errorf("no-face is a failed state, got %s", session.State())
	}
	if source.releases != 0 {
		t.Error("failed sessions keep the camera for a retry")
	}

	// failed → ready → second attempt succeeds.
	if err := session.Retry(); err != nil {
		t.Fatal(err)
	}
	source.descriptor = []float64{0.4, 0.5}
	if _, err := session.Enroll(context.Background()); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
}

func TestSessionVerifyMatchAndMismatch(t *testing.T) {
	reference := []float64{0.1, 0.2, 0.3}
	encoded := EncodeVersionedDescriptor(reference)

	t.Run("identical descriptor matches at full confidence", func(t *testing.T) {
		source := &stubSource{descriptor: []float64{0.1, 0.2, 0.3}}
		session := newTestSession(source)
		if err := session.Begin(context.Background()); err != nil {
			t.Fatal(err)
		}
		result, err := session.Verify(context.Background(), encoded)
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsMatch || result.ConfidencePercent != 100 {
			t.Errorf("expected a 100%% match, got %+v", result)
		}
		if session.State() != types.SessionSuccess {
			t.Errorf("expected success, got %s", session.State())
		}
		if source.releases == 0 {
			t.Error("the camera must be released on success")
		}
	})

	t.Run("distant descriptor fails without error", func(t *testing.T) {
		source := &stubSource{descriptor: []float64{1.1, 0.2, 0.3}}
		session := newTestSession(source)
		if err := session.Begin(context.Background()); err != nil {
			t.Fatal(err)
		}
		result, err := session.Verify(context.Background(), encoded)
		if err != nil {
			t.Fatal("a mismatch is a result, not an error")
		}
		if result.IsMatch {
			t.Error("expected a mismatch")
		}
		if session.State() != types.SessionFailed {
			t.Errorf("mismatch is a failed state, got %s", session.State())
		}
	})
}

func TestSessionVerifyCorruptReference(t *testing.T) {
	source := &stubSource{descriptor: []float64{0.1}}
	session := newTestSession(source)
	if err := session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := session.Verify(context.Background(), "???not-a-descriptor???")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if session.State() != types.SessionFailed {
		t.Errorf("expected failed, got %s", session.State())
	}
}

func TestSessionCancelMidCountdown(t *testing.T) {
	source := &stubSource{descriptor: []float64{0.1}}
	session := NewVerificationSession(source)
	session.stepDelay = 50 * time.Millisecond
	if err := session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := session.Enroll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if source.captures != 0 {
		t.Error("cancellation during countdown must prevent extraction")
	}
	if source.releases == 0 {
		t.Error("cancellation must release the camera")
	}
	if session.State() != types.SessionIdle {
		t.Errorf("cancelled sessions return to idle, got %s", session.State())
	}
}

func TestSessionCancelReleasesCamera(t *testing.T) {
	source := &stubSource{descriptor: []float64{0.1}}
	session := newTestSession(source)
	if err := session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}

	session.Cancel()
	if source.releases == 0 {
		t.Error("Cancel must release the camera")
	}
	if session.State() != types.SessionIdle {
		t.Errorf("expected idle after cancel, got %s", session.State())
	}
}

func TestSessionCaptureErrorIsTerminal(t *testing.T) {
	source := &stubSource{captureErr: errors.New("camera unplugged")}
	session := newTestSession(source)
	if err := session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := session.Enroll(context.Background()); err == nil {
		t.Fatal("expected capture error to surface")
	}
	if session.State() != types.SessionError {
		t.Errorf("hard capture errors are terminal, got %s", session.State())
	}
	if source.releases == 0 {
		t.Error("the camera must be released on hard errors")
	}
	if err := session.Retry(); err == nil {
		t.Error("errored sessions must require a fresh session, not Retry")
	}
}

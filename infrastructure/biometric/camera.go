package biometric

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"campusgate.io/infrastructure/biometric/types"
	"campusgate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// Kiosk capture resolution. A modest size keeps inference fast and is enough
// for the embedding model.
const (
	captureWidth  = 640
	captureHeight = 480
)

// CameraHandle is the one exclusive hardware resource in the face flow.
// Acquisition and release are explicit and paired: whichever code path ends a
// session must call Release before signalling completion, or later sessions
// fail with a device-busy error.
type CameraHandle struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	closed  bool
}

// AcquireCamera opens the capture device. Failures are classified because the
// remediation differs per cause.
func AcquireCamera(deviceID int) (*CameraHandle, error) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		return nil, &types.CameraError{
			Cause:   types.CameraUnsupported,
			Message: "Camera capture is not supported on this platform.",
		}
	}

	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, classifyCameraError(err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, &types.CameraError{
			Cause:   types.CameraNotFound,
			Message: "No camera was found. Connect a camera and try again.",
		}
	}

	capture.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, captureHeight)
	if capture.Get(gocv.VideoCaptureFrameWidth) == 0 {
		capture.Close()
		return nil, &types.CameraError{
			Cause:   types.CameraUnsupportedConstraints,
			Message: "The camera does not support the requested capture settings.",
		}
	}

	logger.Info("camera acquired", logger.LoggerOptions{
		Key:  "deviceID",
		Data: deviceID,
	})
	return &CameraHandle{capture: capture}, nil
}

func classifyCameraError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission") || strings.Contains(msg, "denied"):
		return &types.CameraError{
			Cause:   types.CameraPermissionDenied,
			Message: "Camera access was denied.\nGrant camera permission in your system settings and try again.",
			Err:     err,
		}
	case strings.Contains(msg, "busy") || strings.Contains(msg, "in use"):
		return &types.CameraError{
			Cause:   types.CameraBusy,
			Message: "The camera is in use by another application.\nClose other apps using the camera and try again.",
			Err:     err,
		}
	default:
		return &types.CameraError{
			Cause:   types.CameraNotFound,
			Message: "No usable camera was found. Connect a camera and try again.",
			Err:     err,
		}
	}
}

// ReadFrame grabs the current frame into dst.
func (ch *CameraHandle) ReadFrame(dst *gocv.Mat) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return fmt.Errorf("camera already released")
	}
	if ok := ch.capture.Read(dst); !ok || dst.Empty() {
		return fmt.Errorf("could not read a frame from the camera")
	}
	return nil
}

// Release stops the underlying hardware tracks. Idempotent; safe to call on
// every exit path.
func (ch *CameraHandle) Release() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return
	}
	ch.closed = true
	ch.capture.Close()
	logger.Info("camera released")
}

package biometric

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"campusgate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

type ModelState string

const (
	ModelsUninitialized ModelState = "uninitialized"
	ModelsLoading       ModelState = "loading"
	ModelsReady         ModelState = "ready"
	ModelsFailed        ModelState = "failed"
)

const (
	detectorModelFile   = "face_detection_yunet_2023mar.onnx"
	recognizerModelFile = "face_recognition_sface_2021dec.onnx"

	detectorScoreThreshold = 0.9
	detectorNMSThreshold   = 0.3
	detectorTopK           = 5000
)

// ModelRegistry owns the face detection and recognition models. Models load
// once per process; a load failure is cached as a terminal failed state and
// every later Await returns the same error (restart to retry).
type ModelRegistry struct {
	mu       sync.Mutex
	state    ModelState
	err      error
	done     chan struct{}
	doneOnce sync.Once

	detector   gocv.FaceDetectorYN
	recognizer gocv.FaceRecognizerSF

	// Serializes inference; neither model is safe for concurrent use.
	inferMu sync.Mutex
}

func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{
		state: ModelsUninitialized,
		done:  make(chan struct{}),
	}
}

var Models = NewModelRegistry()

// Load fetches both model bundles from assetsDir. The first call does the
// work; repeated calls are no-ops regardless of outcome.
func (mr *ModelRegistry) Load(assetsDir string) {
	mr.mu.Lock()
	if mr.state != ModelsUninitialized {
		mr.mu.Unlock()
		return
	}
	mr.state = ModelsLoading
	mr.mu.Unlock()

	err := mr.load(assetsDir)

	mr.mu.Lock()
	if err != nil {
		mr.state = ModelsFailed
		mr.err = err
		logger.Error("face model loading failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "assetsDir",
			Data: assetsDir,
		})
	} else {
		mr.state = ModelsReady
		logger.Info("face models loaded", logger.LoggerOptions{
			Key:  "assetsDir",
			Data: assetsDir,
		})
	}
	mr.mu.Unlock()
	mr.doneOnce.Do(func() { close(mr.done) })
}

func (mr *ModelRegistry) load(assetsDir string) error {
	detectorPath := filepath.Join(assetsDir, detectorModelFile)
	if _, err := os.Stat(detectorPath); os.IsNotExist(err) {
		return fmt.Errorf("detector model not found: %s", detectorPath)
	}
	recognizerPath := filepath.Join(assetsDir, recognizerModelFile)
	if _, err := os.Stat(recognizerPath); os.IsNotExist(err) {
		return fmt.Errorf("recognizer model not found: %s", recognizerPath)
	}

	detector := gocv.NewFaceDetectorYN(detectorPath, "", image.Pt(320, 320))
	detector.SetScoreThreshold(detectorScoreThreshold)
	detector.SetNMSThreshold(detectorNMSThreshold)
	detector.SetTopK(detectorTopK)
	mr.detector = detector

	mr.recognizer = gocv.NewFaceRecognizerSF(recognizerPath, "")
	return nil
}

// Await blocks until the registry reaches a terminal state or ctx ends.
// Callers never poll a boolean; readiness is awaited.
func (mr *ModelRegistry) Await(ctx context.Context) error {
	select {
	case <-mr.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if mr.state == ModelsFailed {
		return fmt.Errorf("face models unavailable: %w", mr.err)
	}
	return nil
}

func (mr *ModelRegistry) State() ModelState {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	return mr.state
}

func (mr *ModelRegistry) Close() {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if mr.state == ModelsReady {
		mr.detector.Close()
		mr.recognizer.Close()
	}
	mr.state = ModelsFailed
	mr.err = fmt.Errorf("model registry closed")
	mr.doneOnce.Do(func() { close(mr.done) })
}

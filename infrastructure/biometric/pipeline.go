package biometric

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"campusgate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// ErrInferenceBusy means a previous inference still holds the models, usually
// one that outlived its caller's timeout. The caller retries shortly instead
// of queueing behind it.
var ErrInferenceBusy = errors.New("face processing is still busy with an earlier frame. Try again shortly")

// Detection/embedding on one frame must finish within this window. The
// geolocation call has always been bounded; model inference is bounded too.
const inferenceTimeout = 10 * time.Second

// SFace produces 128-dimensional embeddings.
const descriptorDimensions = 128

// Column holding the detection score in a YuNet result row.
const detectionScoreCol = 14

// FacePipeline turns one video frame into a face descriptor, or reports that
// no usable face is present.
type FacePipeline struct {
	Registry *ModelRegistry
}

var Pipeline = &FacePipeline{Registry: Models}

type captureOutcome struct {
	descriptor []float64
	err        error
}

// CaptureDescriptor runs detection, landmark alignment and embedding on the
// frame. A frame with no face resolves to (nil, nil) — absence is the
// expected negative case, not an error.
//
// On timeout the extraction goroutine is abandoned but keeps the model lock
// until gocv returns; a retry arriving in that window gets ErrInferenceBusy
// rather than silently blocking behind the stuck inference.
func (fp *FacePipeline) CaptureDescriptor(ctx context.Context, frame gocv.Mat) ([]float64, error) {
	if err := fp.Registry.Await(ctx); err != nil {
		return nil, err
	}

	outcome := make(chan captureOutcome, 1)
	go func() {
		descriptor, err := fp.extract(frame)
		outcome <- captureOutcome{descriptor, err}
	}()

	select {
	case res := <-outcome:
		return res.descriptor, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(inferenceTimeout):
		logger.Error("face inference exceeded its deadline", logger.LoggerOptions{
			Key:  "timeout",
			Data: inferenceTimeout.String(),
		})
		return nil, fmt.Errorf("face processing timed out after %s", inferenceTimeout)
	}
}

func (fp *FacePipeline) extract(frame gocv.Mat) ([]float64, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	if !fp.Registry.inferMu.TryLock() {
		return nil, ErrInferenceBusy
	}
	defer fp.Registry.inferMu.Unlock()

	fp.Registry.detector.SetInputSize(image.Pt(frame.Cols(), frame.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	fp.Registry.detector.Detect(frame, &faces)

	if faces.Rows() == 0 {
		return nil, nil
	}

	// Each row is one detection: box, 5 landmarks, then the score. Keep the
	// highest-confidence face when several are present.
	best := 0
	bestScore := faces.GetFloatAt(0, detectionScoreCol)
	for row := 1; row < faces.Rows(); row++ {
		if score := faces.GetFloatAt(row, detectionScoreCol); score > bestScore {
			best = row
			bestScore = score
		}
	}
	face := faces.RowRange(best, best+1)
	defer face.Close()

	aligned := gocv.NewMat()
	defer aligned.Close()
	fp.Registry.recognizer.AlignCrop(frame, face, &aligned)
	if aligned.Empty() {
		return nil, fmt.Errorf("face alignment produced an empty crop")
	}

	feature := gocv.NewMat()
	defer feature.Close()
	fp.Registry.recognizer.Feature(aligned, &feature)

	descriptor := make([]float64, descriptorDimensions)
	for i := 0; i < descriptorDimensions; i++ {
		descriptor[i] = float64(feature.GetFloatAt(0, i))
	}
	return descriptor, nil
}

// DescriptorFromImage decodes an encoded image (JPEG/PNG bytes) and runs the
// pipeline on it. Used by the HTTP surface, where the browser captures the
// frame and uploads it.
func (fp *FacePipeline) DescriptorFromImage(ctx context.Context, imageBytes []byte) ([]float64, error) {
	frame, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	defer frame.Close()
	if frame.Empty() {
		return nil, fmt.Errorf("could not decode image: empty frame")
	}
	return fp.CaptureDescriptor(ctx, frame)
}

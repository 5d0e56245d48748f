package biometric

import (
	"os"

	"campusgate.io/application/repository"
	"campusgate.io/infrastructure/logger"
)

// InitialiseBiometricService loads the face models once for the process and
// rebuilds the enrollment index from stored profiles. Repeated calls are
// no-ops; a load failure is cached and surfaces on Await.
func InitialiseBiometricService() {
	assetsDir := os.Getenv("FACE_MODEL_ASSETS_DIR")
	if assetsDir == "" {
		assetsDir = "./models"
	}
	go Models.Load(assetsDir)
	go warmEnrollmentIndex()
	logger.Info("biometric service initialisation started", logger.LoggerOptions{
		Key:  "assetsDir",
		Data: assetsDir,
	})
}

func warmEnrollmentIndex() {
	students, err := repository.StudentRepo().FindMany(map[string]interface{}{
		"faceDescriptor": map[string]interface{}{"$nin": []interface{}{nil, ""}},
	})
	if err != nil || students == nil {
		logger.Warning("could not warm the enrollment index", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	loaded := 0
	for _, student := range *students {
		if !student.HasEnrolledFace() {
			continue
		}
		descriptor, err := DecodeReference(*student.FaceDescriptor)
		if err != nil {
			logger.Warning("skipping unreadable stored descriptor", logger.LoggerOptions{
				Key:  "profileID",
				Data: student.ID,
			}, logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
			continue
		}
		Enrollments.Add(student.ID, descriptor)
		loaded++
	}
	logger.Info("enrollment index warmed", logger.LoggerOptions{
		Key:  "profiles",
		Data: loaded,
	})
}

package startup

import (
	"campusgate.io/infrastructure/biometric"
	"campusgate.io/infrastructure/database"
	"campusgate.io/infrastructure/database/connection/datastore"
	"campusgate.io/infrastructure/geofence"
	"campusgate.io/infrastructure/logger"
)

// Used to start services such as loggers, databases, queues, etc.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	biometric.InitialiseBiometricService()
	geofence.InitialiseGeofenceGate()
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	biometric.Models.Close()
	datastore.CleanUp()
}

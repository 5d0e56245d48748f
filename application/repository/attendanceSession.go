package repository

import (
	"sync"

	"campusgate.io/entities"
	"campusgate.io/infrastructure/database/connection/datastore"
	"campusgate.io/infrastructure/database/repository/mongo"
)

var attendanceSessionOnce = sync.Once{}

var attendanceSessionRepository mongo.MongoRepository[entities.AttendanceSession]

func AttendanceSessionRepo() *mongo.MongoRepository[entities.AttendanceSession] {
	attendanceSessionOnce.Do(func() {
		attendanceSessionRepository = mongo.MongoRepository[entities.AttendanceSession]{Model: datastore.AttendanceSessionModel}
	})
	return &attendanceSessionRepository
}

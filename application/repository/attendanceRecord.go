package repository

import (
	"sync"

	"campusgate.io/entities"
	"campusgate.io/infrastructure/database/connection/datastore"
	"campusgate.io/infrastructure/database/repository/mongo"
)

var attendanceRecordOnce = sync.Once{}

var attendanceRecordRepository mongo.MongoRepository[entities.AttendanceRecord]

func AttendanceRecordRepo() *mongo.MongoRepository[entities.AttendanceRecord] {
	attendanceRecordOnce.Do(func() {
		attendanceRecordRepository = mongo.MongoRepository[entities.AttendanceRecord]{Model: datastore.AttendanceRecordModel}
	})
	return &attendanceRecordRepository
}

package repository

import (
	"sync"

	"campusgate.io/entities"
	"campusgate.io/infrastructure/database/connection/datastore"
	"campusgate.io/infrastructure/database/repository/mongo"
)

var studentOnce = sync.Once{}

var studentRepository mongo.MongoRepository[entities.Student]

func StudentRepo() *mongo.MongoRepository[entities.Student] {
	studentOnce.Do(func() {
		studentRepository = mongo.MongoRepository[entities.Student]{Model: datastore.StudentModel}
	})
	return &studentRepository
}

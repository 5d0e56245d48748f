package connection

import (
	"campusgate.io/infrastructure/database/connection/cache"
	"campusgate.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase() {
	datastore.ConnectToDatabase()
	cache.ConnectToCache()
}

// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends ClubHub talks to.
type DBDeps struct {
	ClubHubMongoClient   *mongo.Client
	ClubHubMongoDatabase *mongo.Database
}

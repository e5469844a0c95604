// File: database/repository/business/interface.go
package businessRepo

import (
	"context"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BusinessRepository interface {
	// GetByID returns the business config with defaults applied, or nil when
	// the business does not exist.
	GetByID(ctx context.Context, id string) (*models.BusinessConfig, error)
}

type mongoBusinessRepo struct {
	coll *mongo.Collection
}

// NewMongoBusinessRepo constructs a new MongoDB BusinessRepository.
func NewMongoBusinessRepo() BusinessRepository {
	return &mongoBusinessRepo{
		coll: database.DB().Collection("businesses"),
	}
}

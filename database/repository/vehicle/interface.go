// File: database/repository/vehicle/interface.go
package vehicleRepo

import (
	"context"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	// ListActiveByModel returns the business's active vehicles whose model
	// matches case-insensitively, sorted by id for deterministic allocation.
	ListActiveByModel(ctx context.Context, businessID, model string) ([]models.Vehicle, error)
}

type mongoVehicleRepo struct {
	coll *mongo.Collection
}

// NewMongoVehicleRepo constructs a new MongoDB VehicleRepository.
func NewMongoVehicleRepo() VehicleRepository {
	return &mongoVehicleRepo{
		coll: database.DB().Collection("vehicles"),
	}
}

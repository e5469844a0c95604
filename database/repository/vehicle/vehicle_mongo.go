package vehicleRepo

import (
	"context"
	"fmt"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// caseInsensitive is a strength-2 collation: letter case and diacritics are
// ignored when matching the model label.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

func (repo *mongoVehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&v); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching vehicle %s: %w", id, err)
	}
	return &v, nil
}

func (repo *mongoVehicleRepo) ListActiveByModel(ctx context.Context, businessID, model string) ([]models.Vehicle, error) {
	filter := bson.M{
		"businessId": businessID,
		"model":      model,
		"active":     true,
	}
	opts := options.Find().
		SetCollation(caseInsensitive).
		SetSort(bson.D{{Key: "id", Value: 1}})

	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles for model %q: %w", model, err)
	}
	defer cur.Close(ctx)

	var vehicles []models.Vehicle
	if err := cur.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	return vehicles, nil
}

package businessRepo

import (
	"context"
	"fmt"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *mongoBusinessRepo) GetByID(ctx context.Context, id string) (*models.BusinessConfig, error) {
	var biz models.BusinessConfig
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&biz); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching business %s: %w", id, err)
	}
	biz.ApplyDefaults()
	return &biz, nil
}

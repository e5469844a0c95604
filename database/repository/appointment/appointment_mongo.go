package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Upsert runs the idempotency lookup, the overlap check and the insert inside
// one transaction so two racing requests for the same vehicle/window cannot
// both commit. The unique index on idempotencyKey is the backstop for the
// replay race outside the transaction.
func (repo *MongoAppointmentRepo) Upsert(ctx context.Context, appt *models.Appointment) (*models.Appointment, bool, error) {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, false, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var result *models.Appointment
	var created bool

	txnFn := func(sc mongo.SessionContext) error {
		var existing models.Appointment
		err := repo.coll.FindOne(sc, bson.M{"idempotencyKey": appt.IdempotencyKey}).Decode(&existing)
		if err == nil {
			result = &existing
			created = false
			return nil
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("idempotency lookup failed: %w", err)
		}

		if appt.VehicleID != "" {
			n, err := repo.coll.CountDocuments(sc, bson.M{
				"businessId": appt.BusinessID,
				"vehicleId":  appt.VehicleID,
				"status":     models.StatusBooked,
				"start":      bson.M{"$lt": appt.End},
				"end":        bson.M{"$gt": appt.Start},
			})
			if err != nil {
				return fmt.Errorf("overlap check failed: %w", err)
			}
			if n > 0 {
				return ErrOverlap
			}
		}

		if _, err := repo.coll.InsertOne(sc, appt); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Lost the idempotency race to a concurrent retry; surface the winner.
				if ferr := repo.coll.FindOne(sc, bson.M{"idempotencyKey": appt.IdempotencyKey}).Decode(&existing); ferr == nil {
					result = &existing
					created = false
					return nil
				}
			}
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		result = appt
		created = true
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, false, err
	}

	return result, created, nil
}

func (repo *MongoAppointmentRepo) AttachEventID(ctx context.Context, id, eventID string) error {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"eventId": eventID}},
	)
	if err != nil {
		return fmt.Errorf("failed to attach event id to appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

func (repo *MongoAppointmentRepo) Delete(ctx context.Context, id string) error {
	_, err := repo.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment %s: %w", id, err)
	}
	return nil
}

func (repo *MongoAppointmentRepo) FindUpcoming(ctx context.Context, businessID string, from time.Time, limit int64) ([]models.Appointment, error) {
	filter := bson.M{
		"businessId": businessID,
		"status":     models.StatusBooked,
		"start":      bson.M{"$gte": from},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start", Value: 1}}).
		SetLimit(limit)

	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming appointments: %w", err)
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode upcoming appointments: %w", err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := repo.coll.UpdateMany(ctx,
		bson.M{"status": models.StatusBooked, "end": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"status": models.StatusCompleted}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark past appointments completed: %w", err)
	}
	return res.ModifiedCount, nil
}

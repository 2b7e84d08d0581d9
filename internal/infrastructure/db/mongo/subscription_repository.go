package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentora/property-saas/internal/core/domain"
)

const subscriptionsCollection = "subscriptions"

type SubscriptionRepository struct {
	coll *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{coll: db.Collection(subscriptionsCollection)}
}

type planDoc struct {
	ID           string  `bson:"id"`
	Name         string  `bson:"name"`
	PriceMonthly float64 `bson:"price_monthly"`
	MaxSeats     int     `bson:"max_seats"`
}

type subscriptionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	PlanID    string             `bson:"plan_id"`
	Status    string             `bson:"status"`
	StartDate time.Time          `bson:"start_date"`
	EndDate   time.Time          `bson:"end_date"`
	Plan      *planDoc           `bson:"plan,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

// FindCurrentByUserID returns the user's most recent subscription, or
// (nil, nil) when they own none. "Current" is the latest by creation, the
// raw status untouched — computing the effective status is the domain's job.
func (r *SubscriptionRepository) FindCurrentByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc subscriptionDoc
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}

	sub := &domain.Subscription{
		ID:        doc.ID.Hex(),
		UserID:    doc.UserID,
		PlanID:    doc.PlanID,
		Status:    domain.SubscriptionStatus(doc.Status),
		StartDate: doc.StartDate,
		EndDate:   doc.EndDate,
	}
	if doc.Plan != nil {
		sub.Plan = &domain.Plan{
			ID:           doc.Plan.ID,
			Name:         doc.Plan.Name,
			PriceMonthly: doc.Plan.PriceMonthly,
			MaxSeats:     doc.Plan.MaxSeats,
		}
	}
	return sub, nil
}

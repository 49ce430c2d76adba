package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingSeedRepository implements BookingSeedSource against the
// container_bookings collection maintained by the booking workflow. It is
// read-only here; reconciliation state is never written back.
type MongoBookingSeedRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingSeedRepository creates a new booking seed repository
func NewMongoBookingSeedRepository(db *mongo.Database) repository.BookingSeedSource {
	collection := db.Collection("container_bookings")

	// Unique index on containerNumber; the booking workflow owns writes but
	// the registry relies on the key being unique.
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"containerNumber": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoBookingSeedRepository{
		collection: collection,
	}
}

type bookingDocument struct {
	ContainerNumber     string    `bson:"containerNumber"`
	BookingTime         time.Time `bson:"bookingTime"`
	ExpectedArrivalTime time.Time `bson:"expectedArrivalTime"`
}

// LoadBookings reads the full booking set ordered by booking time.
func (r *MongoBookingSeedRepository) LoadBookings(ctx context.Context) ([]entity.BookingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "bookingTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query container bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode container bookings: %w", err)
	}

	records := make([]entity.BookingRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, entity.BookingRecord{
			ContainerNumber:     d.ContainerNumber,
			BookingTime:         d.BookingTime,
			ExpectedArrivalTime: d.ExpectedArrivalTime,
			Status:              entity.StatusPending,
		})
	}
	return records, nil
}

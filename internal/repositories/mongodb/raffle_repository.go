package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RaffleRepository implements the repositories.RaffleRepository interface.
// Tickets are embedded in the raffle document so one write covers both.
type RaffleRepository struct {
	collection *mongo.Collection
}

var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(db *mongo.Database) *RaffleRepository {
	return &RaffleRepository{
		collection: db.Collection("raffles"),
	}
}

// Insert creates a new raffle document
func (r *RaffleRepository) Insert(ctx context.Context, raffle *models.Raffle) error {
	doc, err := newRaffleDocument(raffle)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID finds a raffle by ID
func (r *RaffleRepository) FindByID(ctx context.Context, id string) (*models.Raffle, error) {
	var doc raffleDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

// FindAll returns raffles matching filter, newest first
func (r *RaffleRepository) FindAll(ctx context.Context, filter models.RaffleFilter) ([]*models.Raffle, error) {
	query := bson.M{}
	if filter.Active != nil {
		if *filter.Active {
			query["state"] = string(models.RaffleStateActive)
		} else {
			query["state"] = bson.M{"$ne": string(models.RaffleStateActive)}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []raffleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	raffles := make([]*models.Raffle, 0, len(docs))
	for i := range docs {
		raffle, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		raffles = append(raffles, raffle)
	}
	return raffles, nil
}

// Replace overwrites the raffle document if its stored version equals expectedVersion
func (r *RaffleRepository) Replace(ctx context.Context, raffle *models.Raffle, expectedVersion int64) error {
	doc, err := newRaffleDocument(raffle)
	if err != nil {
		return err
	}

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": raffle.ID, "version": expectedVersion}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace raffle: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": raffle.ID})
	if err != nil {
		return err
	}
	if count == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrVersionConflict
}

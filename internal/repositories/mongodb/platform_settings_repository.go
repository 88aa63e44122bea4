package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const platformSettingsID = "platform"

// PlatformSettingsRepository implements repositories.PlatformSettingsRepository
type PlatformSettingsRepository struct {
	collection        *mongo.Collection
	defaultFeeAccount string
}

var _ repositories.PlatformSettingsRepository = (*PlatformSettingsRepository)(nil)

// NewPlatformSettingsRepository creates a new PlatformSettingsRepository.
// defaultFeeAccount seeds the settings document the first time it is read.
func NewPlatformSettingsRepository(db *mongo.Database, defaultFeeAccount string) *PlatformSettingsRepository {
	return &PlatformSettingsRepository{
		collection:        db.Collection("platform_settings"),
		defaultFeeAccount: defaultFeeAccount,
	}
}

// GetSettings retrieves the current platform settings
func (r *PlatformSettingsRepository) GetSettings(ctx context.Context) (*models.PlatformSettings, error) {
	var doc settingsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": platformSettingsID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// If no settings exist, create default settings
		doc = settingsDocument{
			ID:         platformSettingsID,
			FeeAccount: r.defaultFeeAccount,
			UpdatedAt:  time.Now().UTC(),
		}
		if _, err := r.collection.InsertOne(ctx, doc); err != nil && !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return &models.PlatformSettings{
		FeeAccount: doc.FeeAccount,
		UpdatedAt:  doc.UpdatedAt,
		UpdatedBy:  doc.UpdatedBy,
	}, nil
}

// UpdateFeeAccount updates only the fee account setting
func (r *PlatformSettingsRepository) UpdateFeeAccount(ctx context.Context, feeAccount string, updatedBy string) error {
	update := bson.M{
		"$set": bson.M{
			"feeAccount": feeAccount,
			"updatedAt":  time.Now().UTC(),
			"updatedBy":  updatedBy,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": platformSettingsID}, update, options.Update().SetUpsert(true))
	return err
}

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

// Ensure accountRepository implements repositories.AccountRepository
var _ repositories.AccountRepository = (*accountRepository)(nil)

type accountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a new repository for accounts keyed by address
func NewAccountRepository(db *mongo.Database) repositories.AccountRepository {
	return &accountRepository{
		collection: db.Collection("accounts"),
	}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	doc := accountDocument{
		Address:      account.Address,
		Role:         string(account.Role),
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *accountRepository) FindByAddress(ctx context.Context, address string) (*models.Account, error) {
	var doc accountDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": address}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *accountRepository) UpdateRole(ctx context.Context, address string, role models.Role) error {
	update := bson.M{
		"$set": bson.M{
			"role":      string(role),
			"updatedAt": time.Now().UTC(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": address}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *accountRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	accounts := make([]*models.Account, 0, len(docs))
	for i := range docs {
		accounts = append(accounts, docs[i].toModel())
	}
	return accounts, nil
}

func (doc *accountDocument) toModel() *models.Account {
	return &models.Account{
		Address:      doc.Address,
		Role:         models.Role(doc.Role),
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

const cartsCollection = "carts"

// CartRepository implements ports.CartRepository using MongoDB.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(cartsCollection)}
}

type mongoCartEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Email      string             `bson:"email"`
	MenuItemID string             `bson:"menuId"`
	Name       string             `bson:"name"`
	Image      string             `bson:"image,omitempty"`
	Price      float64            `bson:"price"`
	Quantity   int                `bson:"quantity"`
}

func (r *CartRepository) Insert(ctx context.Context, e *domain.CartEntry) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoCartEntry{
		Email:      e.Email,
		MenuItemID: e.MenuItemID,
		Name:       e.Name,
		Image:      e.Image,
		Price:      e.Price,
		Quantity:   e.Quantity,
	})
	if err != nil {
		return "", fmt.Errorf("insert cart entry: %w", err)
	}
	return insertedID(res), nil
}

func (r *CartRepository) FindByEmail(ctx context.Context, email string) ([]domain.CartEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	var docs []mongoCartEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	entries := make([]domain.CartEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, domain.CartEntry{
			ID:         d.ID.Hex(),
			Email:      d.Email,
			MenuItemID: d.MenuItemID,
			Name:       d.Name,
			Image:      d.Image,
			Price:      d.Price,
			Quantity:   d.Quantity,
		})
	}
	return entries, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete cart entry: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteMany only removes entries owned by email.
func (r *CartRepository) DeleteMany(ctx context.Context, email string, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids, err := objectIDs(ids)
	if err != nil {
		return 0, err
	}
	res, err := r.col.DeleteMany(ctx, ownedCartFilter(email, oids))
	if err != nil {
		return 0, fmt.Errorf("delete cart entries: %w", err)
	}
	return res.DeletedCount, nil
}

func ownedCartFilter(email string, oids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": oids}, "email": email}
}

// EnsureIndexes creates the owner lookup index on the carts collection.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}})
	return err
}

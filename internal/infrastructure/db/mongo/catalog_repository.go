package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

const (
	menuCollection    = "menu"
	reviewsCollection = "reviews"
)

// MenuRepository implements ports.MenuRepository using MongoDB.
type MenuRepository struct {
	col *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{col: db.Collection(menuCollection)}
}

// _id is left untyped: seeded menu documents carry string ids, inserted ones
// carry ObjectIDs.
type mongoMenuItem struct {
	ID       interface{} `bson:"_id,omitempty"`
	Name     string      `bson:"name"`
	Recipe   string      `bson:"recipe,omitempty"`
	Image    string      `bson:"image,omitempty"`
	Category string      `bson:"category"`
	Price    float64     `bson:"price"`
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	var docs []mongoMenuItem
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.MenuItem{
			ID:       hexID(d.ID),
			Name:     d.Name,
			Recipe:   d.Recipe,
			Image:    d.Image,
			Category: d.Category,
			Price:    d.Price,
		})
	}
	return items, nil
}

func (r *MenuRepository) Insert(ctx context.Context, item *domain.MenuItem) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoMenuItem{
		ID:       primitive.NewObjectID(),
		Name:     item.Name,
		Recipe:   item.Recipe,
		Image:    item.Image,
		Category: item.Category,
		Price:    item.Price,
	})
	if err != nil {
		return "", fmt.Errorf("insert menu item: %w", err)
	}
	return insertedID(res), nil
}

func (r *MenuRepository) Delete(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, anyIDFilter(id))
	if err != nil {
		return 0, fmt.Errorf("delete menu item: %w", err)
	}
	return res.DeletedCount, nil
}

// anyIDFilter matches id stored either as an ObjectID or as a string.
func anyIDFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// ReviewRepository implements ports.ReviewRepository using MongoDB.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(reviewsCollection)}
}

type mongoReview struct {
	ID      interface{} `bson:"_id,omitempty"`
	Name    string      `bson:"name"`
	Details string      `bson:"details"`
	Rating  float64     `bson:"rating"`
}

func (r *ReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	var docs []mongoReview
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, domain.Review{
			ID:      hexID(d.ID),
			Name:    d.Name,
			Details: d.Details,
			Rating:  d.Rating,
		})
	}
	return reviews, nil
}

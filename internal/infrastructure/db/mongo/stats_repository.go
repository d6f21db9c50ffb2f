package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// StatsRepository implements ports.StatsRepository using MongoDB.
type StatsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, usersCollection)
}

func (r *StatsRepository) CountMenuItems(ctx context.Context) (int64, error) {
	return r.count(ctx, menuCollection)
}

func (r *StatsRepository) CountPayments(ctx context.Context) (int64, error) {
	return r.count(ctx, paymentsCollection)
}

func (r *StatsRepository) count(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.db.Collection(collection).EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (r *StatsRepository) PaymentPrices(ctx context.Context) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 0, "price": 1})
	cur, err := r.db.Collection(paymentsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("scan payment prices: %w", err)
	}
	var docs []struct {
		Price float64 `bson:"price"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payment prices: %w", err)
	}

	prices := make([]float64, 0, len(docs))
	for _, d := range docs {
		prices = append(prices, d.Price)
	}
	return prices, nil
}

// orderLinesPipeline emits one {category, price} row per purchased menu item.
// Menu ids are converted to ObjectIDs when possible so both seeded string ids
// and inserted ObjectIDs resolve; unknown ids are dropped by the second unwind.
var orderLinesPipeline = mongo.Pipeline{
	{{Key: "$unwind", Value: "$menuItemIds"}},
	{{Key: "$addFields", Value: bson.M{
		"menuRef": bson.M{"$convert": bson.M{
			"input":   "$menuItemIds",
			"to":      "objectId",
			"onError": "$menuItemIds",
		}},
	}}},
	{{Key: "$lookup", Value: bson.M{
		"from":         menuCollection,
		"localField":   "menuRef",
		"foreignField": "_id",
		"as":           "menuItem",
	}}},
	{{Key: "$unwind", Value: "$menuItem"}},
	{{Key: "$project", Value: bson.M{
		"_id":      0,
		"category": "$menuItem.category",
		"price":    "$menuItem.price",
	}}},
}

func (r *StatsRepository) OrderLines(ctx context.Context) ([]domain.OrderLine, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	cur, err := r.db.Collection(paymentsCollection).Aggregate(ctx, orderLinesPipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate order lines: %w", err)
	}
	var docs []struct {
		Category string  `bson:"category"`
		Price    float64 `bson:"price"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}

	lines := make([]domain.OrderLine, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, domain.OrderLine{Category: d.Category, Price: d.Price})
	}
	return lines, nil
}

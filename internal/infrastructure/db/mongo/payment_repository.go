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

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

const paymentsCollection = "payments"

// errCartChanged aborts a settlement transaction when some referenced cart
// entries are gone or belong to someone else.
var errCartChanged = errors.New("referenced cart entries changed during settlement")

// PaymentRepository implements ports.PaymentRepository using MongoDB.
//
// With transactions enabled the payment insert and the cart deletion commit
// together or not at all. Without them (standalone servers) the entries are
// counted first, then the two writes run back to back and the caller is told
// how many entries were actually removed.
type PaymentRepository struct {
	client        *mongo.Client
	payments      *mongo.Collection
	carts         *mongo.Collection
	transactional bool
}

func NewPaymentRepository(client *mongo.Client, db *mongo.Database, transactional bool) *PaymentRepository {
	return &PaymentRepository{
		client:        client,
		payments:      db.Collection(paymentsCollection),
		carts:         db.Collection(cartsCollection),
		transactional: transactional,
	}
}

type mongoPayment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Price         float64            `bson:"price"`
	TransactionID string             `bson:"transactionId,omitempty"`
	CartItemIDs   []string           `bson:"cartIds"`
	MenuItemIDs   []string           `bson:"menuItemIds"`
	Status        string             `bson:"status"`
	Date          time.Time          `bson:"date"`
}

func (r *PaymentRepository) Settle(ctx context.Context, p *domain.Payment) (*ports.Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids, err := objectIDs(p.CartItemIDs)
	if err != nil {
		return nil, err
	}
	doc := mongoPayment{
		ID:            primitive.NewObjectID(),
		Email:         p.Email,
		Price:         p.Price,
		TransactionID: p.TransactionID,
		CartItemIDs:   p.CartItemIDs,
		MenuItemIDs:   p.MenuItemIDs,
		Status:        p.Status,
		Date:          p.CreatedAt,
	}
	if doc.MenuItemIDs == nil {
		doc.MenuItemIDs = []string{}
	}

	if r.transactional {
		return r.settleAtomic(ctx, doc, oids)
	}
	return r.settleSequential(ctx, doc, oids)
}

func (r *PaymentRepository) settleAtomic(ctx context.Context, doc mongoPayment, oids []primitive.ObjectID) (*ports.Settlement, error) {
	s, err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) (*ports.Settlement, error) {
		if _, err := r.payments.InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("insert payment: %w", err)
		}
		res, err := r.carts.DeleteMany(sc, ownedCartFilter(doc.Email, oids))
		if err != nil {
			return nil, fmt.Errorf("delete cart entries: %w", err)
		}
		if res.DeletedCount != int64(len(oids)) {
			return nil, errCartChanged
		}
		return &ports.Settlement{
			PaymentID: doc.ID.Hex(),
			Requested: len(oids),
			Deleted:   res.DeletedCount,
			Atomic:    true,
		}, nil
	})
	if errors.Is(err, errCartChanged) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidReference, err)
	}
	return s, err
}

// settleSequential refuses payments whose entries are not all present before
// the insert. Entries that vanish between the count and the delete show up as a
// short Deleted count.
func (r *PaymentRepository) settleSequential(ctx context.Context, doc mongoPayment, oids []primitive.ObjectID) (*ports.Settlement, error) {
	owned, err := r.carts.CountDocuments(ctx, ownedCartFilter(doc.Email, oids))
	if err != nil {
		return nil, fmt.Errorf("count cart entries: %w", err)
	}
	if owned != int64(len(oids)) {
		return nil, fmt.Errorf("%w: %d of %d cart entries found", domain.ErrInvalidReference, owned, len(oids))
	}

	if _, err := r.payments.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	s := &ports.Settlement{PaymentID: doc.ID.Hex(), Requested: len(oids)}

	res, err := r.carts.DeleteMany(ctx, ownedCartFilter(doc.Email, oids))
	if err != nil {
		return s, fmt.Errorf("delete cart entries: %w", err)
	}
	s.Deleted = res.DeletedCount
	return s, nil
}

// FindByEmail returns the payer's payments, newest first.
func (r *PaymentRepository) FindByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.payments.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	var docs []mongoPayment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}

	out := make([]domain.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Payment{
			ID:            d.ID.Hex(),
			Email:         d.Email,
			Price:         d.Price,
			TransactionID: d.TransactionID,
			CartItemIDs:   d.CartItemIDs,
			MenuItemIDs:   d.MenuItemIDs,
			Status:        d.Status,
			CreatedAt:     d.Date.UTC(),
		})
	}
	return out, nil
}

// pendingCleanupPipeline joins every payment with the cart entries it still
// references and keeps only payments with leftovers.
var pendingCleanupPipeline = mongo.Pipeline{
	{{Key: "$match", Value: bson.M{"cartIds.0": bson.M{"$exists": true}}}},
	{{Key: "$lookup", Value: bson.M{
		"from": cartsCollection,
		"let":  bson.M{"ids": "$cartIds", "payer": "$email"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{"$email", "$$payer"}},
				bson.M{"$in": bson.A{bson.M{"$toString": "$_id"}, "$$ids"}},
			}}}},
			bson.M{"$project": bson.M{"_id": 1}},
		},
		"as": "leftover",
	}}},
	{{Key: "$match", Value: bson.M{"leftover.0": bson.M{"$exists": true}}}},
	{{Key: "$project", Value: bson.M{
		"email": 1,
		"leftover": bson.M{"$map": bson.M{
			"input": "$leftover",
			"as":    "c",
			"in":    bson.M{"$toString": "$$c._id"},
		}},
	}}},
}

// PendingCleanups rebuilds cleanup jobs from the payments collection.
func (r *PaymentRepository) PendingCleanups(ctx context.Context) ([]ports.CartCleanupJob, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	cur, err := r.payments.Aggregate(ctx, pendingCleanupPipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate pending cleanups: %w", err)
	}
	var docs []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Email    string             `bson:"email"`
		Leftover []string           `bson:"leftover"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pending cleanups: %w", err)
	}

	jobs := make([]ports.CartCleanupJob, 0, len(docs))
	for _, d := range docs {
		jobs = append(jobs, ports.CartCleanupJob{
			Email:       d.Email,
			PaymentID:   d.ID.Hex(),
			CartItemIDs: d.Leftover,
		})
	}
	return jobs, nil
}

// EnsureIndexes creates the payment history index.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	_, err := r.payments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}},
	})
	return err
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/astrape/storefront/internal/core/domain"
	"github.com/astrape/storefront/internal/core/ports"
)

const collectionCarts = "carts"

// maxMutateAttempts bounds the optimistic-retry loop. Conflicts only occur
// when two sessions of the same user write simultaneously, so contention is
// low and a handful of attempts is plenty.
const maxMutateAttempts = 5

// cartStore is the versioned persistence slot under the CAS loop. store
// reports whether the compare-and-swap took effect; (false, nil) is a version
// conflict and triggers a reload.
type cartStore interface {
	load(ctx context.Context, userID string) (domain.Cart, int64, error)
	store(ctx context.Context, userID string, cart domain.Cart, version int64) (bool, error)
}

// CartRepository stores one cart document per user. Mutations use a
// version-compare-and-swap discipline: read the record, apply the transform,
// write back only if the version is unchanged, retry on conflict. Concurrent
// mutations of the same record therefore never lose updates.
type CartRepository struct {
	records cartStore
	col     *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	col := db.Collection(collectionCarts)
	return &CartRepository{records: &mongoCartStore{col: col}, col: col}
}

// Get returns the user's cart, empty when no record exists yet.
func (r *CartRepository) Get(ctx context.Context, userID string) (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cart, _, err := r.records.load(ctx, userID)
	return cart, err
}

// Mutate applies fn to the user's current cart under CAS, retrying when a
// concurrent write bumps the record version first.
func (r *CartRepository) Mutate(ctx context.Context, userID string, fn ports.CartMutation) (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		current, version, err := r.records.load(ctx, userID)
		if err != nil {
			return nil, err
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}

		ok, err := r.records.store(ctx, userID, next, version)
		if err != nil {
			return nil, err
		}
		if ok {
			return next, nil
		}
		// Version moved under us; reload and reapply.
	}

	return nil, fmt.Errorf("mutate cart for %s: exceeded %d attempts under contention", userID, maxMutateAttempts)
}

// EnsureIndexes creates the unique per-user index the CAS discipline relies on.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// mongoCartStore implements cartStore on the carts collection.
type mongoCartStore struct {
	col *mongo.Collection
}

type cartRecord struct {
	UserID    string            `bson:"user_id"`
	Lines     []domain.CartLine `bson:"lines"`
	Version   int64             `bson:"version"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func (s *mongoCartStore) load(ctx context.Context, userID string) (domain.Cart, int64, error) {
	var rec cartRecord
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Cart{}, 0, nil
		}
		return nil, 0, fmt.Errorf("load cart: %w", err)
	}
	return domain.Cart(rec.Lines), rec.Version, nil
}

// store writes the cart back. version 0 means no record existed at read time,
// so an insert is attempted; a duplicate-key failure there means another
// session created the record first and counts as a CAS conflict.
func (s *mongoCartStore) store(ctx context.Context, userID string, cart domain.Cart, version int64) (bool, error) {
	lines := []domain.CartLine(cart)
	if lines == nil {
		lines = []domain.CartLine{}
	}
	now := time.Now().UTC()

	if version == 0 {
		_, err := s.col.InsertOne(ctx, cartRecord{
			UserID:    userID,
			Lines:     lines,
			Version:   1,
			UpdatedAt: now,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return false, nil
			}
			return false, fmt.Errorf("insert cart: %w", err)
		}
		return true, nil
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "version": version},
		bson.M{
			"$set": bson.M{"lines": lines, "updated_at": now},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("update cart: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

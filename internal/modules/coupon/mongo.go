package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	couponsCollection     = "coupons"
	redemptionsCollection = "coupon_redemptions"
)

type mongoRepo struct {
	coupons     *mongo.Collection
	redemptions *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepo{
		coupons:     db.Collection(couponsCollection),
		redemptions: db.Collection(redemptionsCollection),
	}
}

// EnsureIndexes creates the unique code index and the redemption indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(couponsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create coupons index: %w", err)
	}

	_, err = db.Collection(redemptionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "couponCode", Value: 1}, {Key: "userId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create redemption indexes: %w", err)
	}
	return nil
}

func (r *mongoRepo) Create(ctx context.Context, c *Coupon) error {
	res, err := r.coupons.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (r *mongoRepo) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.coupons.FindOne(ctx, bson.M{"code": code}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &c, nil
}

func (r *mongoRepo) List(ctx context.Context) ([]*Coupon, error) {
	cur, err := r.coupons.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer cur.Close(ctx)

	coupons := []*Coupon{}
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return coupons, nil
}

func (r *mongoRepo) SetActive(ctx context.Context, code string, active bool) (*Coupon, error) {
	var c Coupon
	err := r.coupons.FindOneAndUpdate(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return &c, nil
}

func (r *mongoRepo) IncrementUsage(ctx context.Context, code string) (*Coupon, error) {
	filter := bson.M{
		"code":  code,
		"$expr": bson.M{"$lt": bson.A{"$usedCount", "$totalQuantity"}},
	}
	update := bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	var c Coupon
	err := r.coupons.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("increment coupon usage: %w", err)
	}

	n, err := r.coupons.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return nil, fmt.Errorf("count coupon: %w", err)
	}
	if n == 0 {
		return nil, ErrCouponNotFound
	}
	return nil, ErrCouponExhausted
}

func (r *mongoRepo) DecrementUsage(ctx context.Context, code string) error {
	_, err := r.coupons.UpdateOne(ctx,
		bson.M{"code": code, "usedCount": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"usedCount": -1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("decrement coupon usage: %w", err)
	}
	return nil
}

func (r *mongoRepo) InsertRedemption(ctx context.Context, red *Redemption) error {
	if _, err := r.redemptions.InsertOne(ctx, red); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyRedeemed
		}
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

func (r *mongoRepo) DeleteRedemption(ctx context.Context, orderID string) (bool, error) {
	res, err := r.redemptions.DeleteOne(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return false, fmt.Errorf("delete redemption: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoRepo) CountRedemptions(ctx context.Context, code, userID string) (int, error) {
	n, err := r.redemptions.CountDocuments(ctx, bson.M{"couponCode": code, "userId": userID})
	if err != nil {
		return 0, fmt.Errorf("count redemptions: %w", err)
	}
	return int(n), nil
}

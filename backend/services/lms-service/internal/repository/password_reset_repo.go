package repository

import (
	"context"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/shared/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PasswordResetRepository interface {
	Upsert(ctx context.Context, email, otp string, expireAt time.Time) error
	Get(ctx context.Context, email string) (*models.PasswordReset, error)
	Delete(ctx context.Context, email string) error
}

type mongoPasswordResetRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoPasswordResetRepo(db *mongo.Database) PasswordResetRepository {
	return &mongoPasswordResetRepo{col: db.Collection(PasswordResetsCollection), now: utils.NowUTC}
}

func (r *mongoPasswordResetRepo) Upsert(ctx context.Context, email, otp string, expireAt time.Time) error {
	now := r.now()
	update := bson.M{
		"$set":         bson.M{"otp": otp, "expire_at": expireAt, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoPasswordResetRepo) Get(ctx context.Context, email string) (*models.PasswordReset, error) {
	return findOne[models.PasswordReset](ctx, r.col, bson.M{"email": email})
}

func (r *mongoPasswordResetRepo) Delete(ctx context.Context, email string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"email": email})
	return err
}

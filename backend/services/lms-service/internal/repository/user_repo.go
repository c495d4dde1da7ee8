package repository

import (
	"context"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/shared/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error)
	SetPasswordByEmail(ctx context.Context, email, hash string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoUserRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &mongoUserRepo{col: db.Collection(UsersCollection), now: utils.NowUTC}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	id, err := insert(ctx, r.col, u)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"email": email})
}

func (r *mongoUserRepo) List(ctx context.Context) ([]models.User, error) {
	return findMany[models.User](ctx, r.col, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *mongoUserRepo) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	return updateByID[models.User](ctx, r.col, id, bson.M{"role": role, "updated_at": r.now()})
}

func (r *mongoUserRepo) SetPasswordByEmail(ctx context.Context, email, hash string) (bool, error) {
	return setPasswordByEmail(ctx, r.col, email, hash, r.now())
}

func (r *mongoUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.col, bson.M{"_id": id})
}

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

type ContactRepository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
	GetByEmail(ctx context.Context, email string) (*models.ContactMessage, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoContactRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoContactRepo(db *mongo.Database) ContactRepository {
	return &mongoContactRepo{col: db.Collection(ContactsCollection), now: utils.NowUTC}
}

func (r *mongoContactRepo) Create(ctx context.Context, m *models.ContactMessage) error {
	now := r.now()
	m.CreatedAt, m.UpdatedAt = now, now
	id, err := insert(ctx, r.col, m)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (r *mongoContactRepo) List(ctx context.Context) ([]models.ContactMessage, error) {
	return findMany[models.ContactMessage](ctx, r.col, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *mongoContactRepo) GetByEmail(ctx context.Context, email string) (*models.ContactMessage, error) {
	return findOne[models.ContactMessage](ctx, r.col, bson.M{"email": email})
}

func (r *mongoContactRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.col, bson.M{"_id": id})
}

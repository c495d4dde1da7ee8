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

type InstructorFilter struct {
	Expertise     string
	MinExperience *int
	Page          Page
}

type InstructorRepository interface {
	Create(ctx context.Context, in *models.Instructor) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Instructor, error)
	GetByEmail(ctx context.Context, email string) (*models.Instructor, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Instructor, error)
	List(ctx context.Context, f InstructorFilter) ([]models.Instructor, Pagination, error)
	Search(ctx context.Context, query, expertise string) ([]models.Instructor, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.InstructorPatch) (*models.Instructor, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetPasswordByEmail(ctx context.Context, email, hash string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoInstructorRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoInstructorRepo(db *mongo.Database) InstructorRepository {
	return &mongoInstructorRepo{col: db.Collection(InstructorsCollection), now: utils.NowUTC}
}

func (r *mongoInstructorRepo) Create(ctx context.Context, in *models.Instructor) error {
	now := r.now()
	in.CreatedAt, in.UpdatedAt = now, now
	id, err := insert(ctx, r.col, in)
	if err != nil {
		return err
	}
	in.ID = id
	return nil
}

func (r *mongoInstructorRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Instructor, error) {
	return findOne[models.Instructor](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoInstructorRepo) GetByEmail(ctx context.Context, email string) (*models.Instructor, error) {
	return findOne[models.Instructor](ctx, r.col, bson.M{"email": email})
}

func (r *mongoInstructorRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Instructor, error) {
	if len(ids) == 0 {
		return []models.Instructor{}, nil
	}
	return findMany[models.Instructor](ctx, r.col, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoInstructorRepo) List(ctx context.Context, f InstructorFilter) ([]models.Instructor, Pagination, error) {
	filter := bson.M{}
	if f.Expertise != "" {
		filter["expertise"] = bson.M{"$in": bson.A{f.Expertise}}
	}
	if f.MinExperience != nil {
		filter["experience"] = bson.M{"$gte": *f.MinExperience}
	}
	return findPage[models.Instructor](ctx, r.col, filter, bson.D{{Key: "created_at", Value: -1}}, f.Page)
}

func (r *mongoInstructorRepo) Search(ctx context.Context, query, expertise string) ([]models.Instructor, error) {
	filter := bson.M{}
	if query != "" {
		filter["$or"] = anyFieldContains(query, "first_name", "last_name", "bio", "qualification")
	}
	if expertise != "" {
		filter["expertise"] = bson.M{"$in": bson.A{expertise}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "experience", Value: -1}}).SetLimit(20)
	return findMany[models.Instructor](ctx, r.col, filter, opts)
}

func (r *mongoInstructorRepo) Update(ctx context.Context, id primitive.ObjectID, patch *models.InstructorPatch) (*models.Instructor, error) {
	now := r.now()
	patch.UpdatedAt = &now
	return updateByID[models.Instructor](ctx, r.col, id, patch)
}

func (r *mongoInstructorRepo) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := updateByID[models.Instructor](ctx, r.col, id, bson.M{"password": hash, "updated_at": r.now()})
	return err
}

func (r *mongoInstructorRepo) SetPasswordByEmail(ctx context.Context, email, hash string) (bool, error) {
	return setPasswordByEmail(ctx, r.col, email, hash, r.now())
}

func (r *mongoInstructorRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.col, bson.M{"_id": id})
}

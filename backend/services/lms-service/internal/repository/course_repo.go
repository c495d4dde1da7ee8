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

type CourseFilter struct {
	Category string
	Level    string
	Status   string
	Search   string
	Page     Page
}

type CourseRepository interface {
	Create(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	List(ctx context.Context, f CourseFilter) ([]models.Course, Pagination, error)
	Featured(ctx context.Context) ([]models.Course, error)
	ByCategory(ctx context.Context, category string) ([]models.Course, error)
	ByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Course, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoCourseRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoCourseRepo(db *mongo.Database) CourseRepository {
	return &mongoCourseRepo{col: db.Collection(CoursesCollection), now: utils.NowUTC}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (r *mongoCourseRepo) Create(ctx context.Context, c *models.Course) error {
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now
	id, err := insert(ctx, r.col, c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *mongoCourseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return findOne[models.Course](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoCourseRepo) List(ctx context.Context, f CourseFilter) ([]models.Course, Pagination, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		filter["$or"] = anyFieldContains(f.Search, "title", "description", "tags")
	}
	return findPage[models.Course](ctx, r.col, filter, newestFirst, f.Page)
}

func (r *mongoCourseRepo) Featured(ctx context.Context) ([]models.Course, error) {
	filter := bson.M{"is_featured": true, "status": models.CoursePublished}
	return findMany[models.Course](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}

func (r *mongoCourseRepo) ByCategory(ctx context.Context, category string) ([]models.Course, error) {
	filter := bson.M{"category": category, "status": models.CoursePublished}
	return findMany[models.Course](ctx, r.col, filter, options.Find().SetSort(newestFirst))
}

func (r *mongoCourseRepo) ByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Course, error) {
	return findMany[models.Course](ctx, r.col, bson.M{"instructor_id": instructorID}, options.Find().SetSort(newestFirst))
}

func (r *mongoCourseRepo) Update(ctx context.Context, id primitive.ObjectID, patch *models.CoursePatch) (*models.Course, error) {
	now := r.now()
	patch.UpdatedAt = &now
	return updateByID[models.Course](ctx, r.col, id, patch)
}

func (r *mongoCourseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.col, bson.M{"_id": id})
}

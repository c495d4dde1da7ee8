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

type EnrollmentFilter struct {
	Status      string
	CourseName  string
	StudentName string
	Page        Page
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *models.Enrollment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error)
	List(ctx context.Context, f EnrollmentFilter) ([]models.Enrollment, Pagination, error)
	Search(ctx context.Context, query, status string) ([]models.Enrollment, error)
	ByStudentName(ctx context.Context, name string) ([]models.Enrollment, error)
	ByCourseName(ctx context.Context, name string) ([]models.Enrollment, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	StatusDistribution(ctx context.Context) ([]models.StatusCount, error)
	Recent(ctx context.Context, n int64) ([]models.Enrollment, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.EnrollmentPatch) (*models.Enrollment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoEnrollmentRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoEnrollmentRepo(db *mongo.Database) EnrollmentRepository {
	return &mongoEnrollmentRepo{col: db.Collection(EnrollmentsCollection), now: utils.NowUTC}
}

var byEnrollmentDate = bson.D{{Key: "enrollment_date", Value: -1}}

func (r *mongoEnrollmentRepo) Create(ctx context.Context, e *models.Enrollment) error {
	now := r.now()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.EnrollmentDate.IsZero() {
		e.EnrollmentDate = now
	}
	id, err := insert(ctx, r.col, e)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *mongoEnrollmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error) {
	return findOne[models.Enrollment](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoEnrollmentRepo) List(ctx context.Context, f EnrollmentFilter) ([]models.Enrollment, Pagination, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["enrollment_status"] = f.Status
	}
	if f.CourseName != "" {
		filter["course_name"] = contains(f.CourseName)
	}
	if f.StudentName != "" {
		filter["student_name"] = contains(f.StudentName)
	}
	return findPage[models.Enrollment](ctx, r.col, filter, byEnrollmentDate, f.Page)
}

func (r *mongoEnrollmentRepo) Search(ctx context.Context, query, status string) ([]models.Enrollment, error) {
	filter := bson.M{}
	if query != "" {
		filter["$or"] = anyFieldContains(query, "course_name", "student_name")
	}
	if status != "" {
		filter["enrollment_status"] = status
	}
	return findMany[models.Enrollment](ctx, r.col, filter, options.Find().SetSort(byEnrollmentDate).SetLimit(20))
}

func (r *mongoEnrollmentRepo) ByStudentName(ctx context.Context, name string) ([]models.Enrollment, error) {
	return findMany[models.Enrollment](ctx, r.col, bson.M{"student_name": contains(name)}, options.Find().SetSort(byEnrollmentDate))
}

func (r *mongoEnrollmentRepo) ByCourseName(ctx context.Context, name string) ([]models.Enrollment, error) {
	return findMany[models.Enrollment](ctx, r.col, bson.M{"course_name": contains(name)}, options.Find().SetSort(byEnrollmentDate))
}

func (r *mongoEnrollmentRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["enrollment_status"] = status
	}
	return r.col.CountDocuments(ctx, filter)
}

func (r *mongoEnrollmentRepo) StatusDistribution(ctx context.Context) ([]models.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$enrollment_status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := make([]models.StatusCount, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoEnrollmentRepo) Recent(ctx context.Context, n int64) ([]models.Enrollment, error) {
	return findMany[models.Enrollment](ctx, r.col, bson.M{}, options.Find().SetSort(byEnrollmentDate).SetLimit(n))
}

func (r *mongoEnrollmentRepo) Update(ctx context.Context, id primitive.ObjectID, patch *models.EnrollmentPatch) (*models.Enrollment, error) {
	now := r.now()
	patch.UpdatedAt = &now
	return updateByID[models.Enrollment](ctx, r.col, id, patch)
}

func (r *mongoEnrollmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.col, bson.M{"_id": id})
}

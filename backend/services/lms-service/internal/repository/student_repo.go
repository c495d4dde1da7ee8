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

type StudentSearch struct {
	Query         string
	Status        string
	AcademicLevel string
}

type StudentRepository interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Search(ctx context.Context, q StudentSearch) ([]models.Student, error)
	Update(ctx context.Context, id primitive.ObjectID, patch *models.StudentPatch) (*models.Student, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetPasswordByEmail(ctx context.Context, email, hash string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoStudentRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStudentRepo(db *mongo.Database) StudentRepository {
	return &mongoStudentRepo{col: db.Collection(StudentsCollection), now: utils.NowUTC}
}

func (r *mongoStudentRepo) Create(ctx context.Context, s *models.Student) error {
	now := r.now()
	s.CreatedAt, s.UpdatedAt = now, now
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = now
	}
	id, err := insert(ctx, r.col, s)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *mongoStudentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return findOne[models.Student](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoStudentRepo) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return findOne[models.Student](ctx, r.col, bson.M{"student_id": studentID})
}

func (r *mongoStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return findOne[models.Student](ctx, r.col, bson.M{"email": email})
}

func (r *mongoStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	return findMany[models.Student](ctx, r.col, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *mongoStudentRepo) Search(ctx context.Context, q StudentSearch) ([]models.Student, error) {
	filter := bson.M{}
	if q.Query != "" {
		filter["$or"] = anyFieldContains(q.Query, "first_name", "last_name", "email", "student_id")
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.AcademicLevel != "" {
		filter["academic_level"] = q.AcademicLevel
	}
	opts := options.Find().SetSort(bson.D{{Key: "enrollment_date", Value: -1}}).SetLimit(20)
	return findMany[models.Student](ctx, r.col, filter, opts)
}

func (r *mongoStudentRepo) Update(ctx context.Context, id primitive.ObjectID, patch *models.StudentPatch) (*models.Student, error) {
	now := r.now()
	patch.UpdatedAt = &now
	return updateByID[models.Student](ctx, r.col, id, patch)
}

func (r *mongoStudentRepo) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := updateByID[models.Student](ctx, r.col, id, bson.M{"password": hash, "updated_at": r.now()})
	return err
}

func (r *mongoStudentRepo) SetPasswordByEmail(ctx context.Context, email, hash string) (bool, error) {
	return setPasswordByEmail(ctx, r.col, email, hash, r.now())
}

func (r *mongoStudentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, r.col, bson.M{"_id": id})
}

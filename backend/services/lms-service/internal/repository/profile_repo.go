package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/ayesh20/e-learn-backend/backend/shared/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepository interface {
	// GetOrCreate returns the student's profile, seeding it from the student on first access.
	GetOrCreate(ctx context.Context, s *models.Student) (*models.Profile, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) (*models.Profile, error)
	Update(ctx context.Context, studentID primitive.ObjectID, patch *models.ProfilePatch) (*models.Profile, error)
	Delete(ctx context.Context, studentID primitive.ObjectID) (*models.Profile, error)
}

type mongoProfileRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoProfileRepo(db *mongo.Database) ProfileRepository {
	return &mongoProfileRepo{col: db.Collection(ProfilesCollection), now: utils.NowUTC}
}

func (r *mongoProfileRepo) GetOrCreate(ctx context.Context, s *models.Student) (*models.Profile, error) {
	seed := models.NewProfile(s, r.now())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{
		"first_name": seed.FirstName,
		"last_name":  seed.LastName,
		"email":      seed.Email,
		"bio":        seed.Bio,
		"phone":      seed.Phone,
		"address":    seed.Address,
		"city":       seed.City,
		"province":   seed.Province,
		"zipcode":    seed.Zipcode,
		"country":    seed.Country,
		"gender":     seed.Gender,
		"created_at": seed.CreatedAt,
		"updated_at": seed.UpdatedAt,
	}}
	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"student_id": s.ID}, update, opts).Decode(&p)
	if mongo.IsDuplicateKeyError(err) {
		return r.GetByStudentID(ctx, s.ID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProfileRepo) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) (*models.Profile, error) {
	return findOne[models.Profile](ctx, r.col, bson.M{"student_id": studentID})
}

func (r *mongoProfileRepo) Update(ctx context.Context, studentID primitive.ObjectID, patch *models.ProfilePatch) (*models.Profile, error) {
	now := r.now()
	patch.UpdatedAt = &now
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"student_id": studentID}, bson.M{"$set": patch}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoProfileRepo) Delete(ctx context.Context, studentID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	err := r.col.FindOneAndDelete(ctx, bson.M{"student_id": studentID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrInvalidID = errors.New("invalid id")

	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("sender is not a participant of this conversation")
	ErrDuplicatePair        = errors.New("conversation between these participants already exists")
)

const (
	StudentsCollection       = "students"
	InstructorsCollection    = "instructores"
	UsersCollection          = "users"
	CoursesCollection        = "courses"
	EnrollmentsCollection    = "enrollments"
	ContactsCollection       = "contacts"
	ProfilesCollection       = "profiles"
	PasswordResetsCollection = "password_resets"
	ConversationsCollection  = "conversations"
)

// ParseID converts a hex string into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// Page is a 1-based page request.
type Page struct {
	Page  int64
	Limit int64
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Page) skip() int64 { return (p.Page - 1) * p.Limit }

type Pagination struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int64 `json:"itemsPerPage"`
}

func newPagination(p Page, total int64) Pagination {
	pages := total / p.Limit
	if total%p.Limit != 0 {
		pages++
	}
	return Pagination{CurrentPage: p.Page, TotalPages: pages, TotalItems: total, ItemsPerPage: p.Limit}
}

// contains matches s anywhere in the field, case-insensitively.
func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func anyFieldContains(s string, fields ...string) bson.A {
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: contains(s)})
	}
	return or
}

func mapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func insert(ctx context.Context, col *mongo.Collection, doc any) (primitive.ObjectID, error) {
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, mapWriteErr(err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findPage runs the count and the page query for filter.
func findPage[T any](ctx context.Context, col *mongo.Collection, filter any, sort bson.D, p Page) ([]T, Pagination, error) {
	p = p.normalize()
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	items, err := findMany[T](ctx, col, filter, options.Find().SetSort(sort).SetSkip(p.skip()).SetLimit(p.Limit))
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, newPagination(p, total), nil
}

// updateByID applies $set and returns the post-image.
func updateByID[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID, set any) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mapWriteErr(err)
	}
	return &out, nil
}

func deleteOne(ctx context.Context, col *mongo.Collection, filter any) error {
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func setPasswordByEmail(ctx context.Context, col *mongo.Collection, email, hash string, now time.Time) (bool, error) {
	res, err := col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"password": hash, "updated_at": now}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func unique(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

var indexes = map[string][]mongo.IndexModel{
	ConversationsCollection: {
		unique(bson.D{{Key: "pair_key", Value: 1}}),
		{Keys: bson.D{{Key: "participants.id", Value: 1}, {Key: "updated_at", Value: -1}}},
	},
	StudentsCollection: {
		unique(bson.D{{Key: "email", Value: 1}}),
		unique(bson.D{{Key: "student_id", Value: 1}}),
	},
	InstructorsCollection: {
		unique(bson.D{{Key: "email", Value: 1}}),
	},
	UsersCollection: {
		unique(bson.D{{Key: "email", Value: 1}}),
	},
	CoursesCollection: {
		unique(bson.D{{Key: "title", Value: 1}}),
		{Keys: bson.D{{Key: "instructor_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
	},
	EnrollmentsCollection: {
		unique(bson.D{{Key: "course_name", Value: 1}, {Key: "student_name", Value: 1}}),
		{Keys: bson.D{{Key: "enrollment_date", Value: -1}}},
	},
	ContactsCollection: {
		unique(bson.D{{Key: "email", Value: 1}}),
	},
	ProfilesCollection: {
		unique(bson.D{{Key: "student_id", Value: 1}}),
	},
	PasswordResetsCollection: {
		unique(bson.D{{Key: "email", Value: 1}}),
		// stale reset records are swept an hour after they expire
		{Keys: bson.D{{Key: "expire_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(3600)},
	},
}

// EnsureIndexes creates the indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

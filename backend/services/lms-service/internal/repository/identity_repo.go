package repository

import (
	"context"
	"fmt"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IdentityStore looks up chat identities in the collection their variant names.
type IdentityStore interface {
	// Lookup returns the identities found for ids, keyed by id. Missing ids are absent.
	Lookup(ctx context.Context, variant models.Variant, ids []string) (map[string]models.Identity, error)
	Exists(ctx context.Context, variant models.Variant, id string) (bool, error)
}

type mongoIdentityStore struct {
	cols map[models.Variant]*mongo.Collection
}

func NewMongoIdentityStore(db *mongo.Database) IdentityStore {
	return &mongoIdentityStore{cols: map[models.Variant]*mongo.Collection{
		models.VariantStudent:    db.Collection(StudentsCollection),
		models.VariantInstructor: db.Collection(InstructorsCollection),
	}}
}

type identityDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email"`
}

var identityProjection = bson.M{"first_name": 1, "last_name": 1, "email": 1}

func (s *mongoIdentityStore) collection(v models.Variant) (*mongo.Collection, error) {
	col, ok := s.cols[v]
	if !ok {
		return nil, fmt.Errorf("unknown identity variant %q", v)
	}
	return col, nil
}

func (s *mongoIdentityStore) Lookup(ctx context.Context, variant models.Variant, ids []string) (map[string]models.Identity, error) {
	col, err := s.collection(variant)
	if err != nil {
		return nil, err
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]models.Identity, len(oids))
	if len(oids) == 0 {
		return out, nil
	}
	docs, err := findMany[identityDoc](ctx, col, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(identityProjection))
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		id := d.ID.Hex()
		out[id] = models.Identity{
			ID:          id,
			Variant:     variant,
			DisplayName: models.FullName(d.FirstName, d.LastName),
			Email:       d.Email,
		}
	}
	return out, nil
}

func (s *mongoIdentityStore) Exists(ctx context.Context, variant models.Variant, id string) (bool, error) {
	col, err := s.collection(variant)
	if err != nil {
		return false, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return false, nil
	}
	n, err := col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

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

// ConversationRepository persists two-party conversations with embedded messages.
type ConversationRepository interface {
	// GetOrCreate returns the conversation for the pair, inserting it if absent.
	// created reports whether this call inserted it.
	GetOrCreate(ctx context.Context, a, b models.ParticipantRef) (conv *models.Conversation, created bool, err error)
	Create(ctx context.Context, a, b models.ParticipantRef) (*models.Conversation, error)
	FindBetween(ctx context.Context, idA, idB string) (*models.Conversation, error)
	AppendMessage(ctx context.Context, id string, msg models.Message) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, identityID string) ([]models.Conversation, error)
}

type mongoConversationRepo struct {
	col   *mongo.Collection
	now   func() time.Time
	newID func() string
}

func NewMongoConversationRepo(db *mongo.Database) ConversationRepository {
	return &mongoConversationRepo{
		col:   db.Collection(ConversationsCollection),
		now:   utils.NowUTC,
		newID: func() string { return primitive.NewObjectID().Hex() },
	}
}

func (r *mongoConversationRepo) GetOrCreate(ctx context.Context, a, b models.ParticipantRef) (*models.Conversation, bool, error) {
	key := models.PairKey(a.ID, b.ID)
	id := r.newID()
	now := r.now()

	update := bson.M{"$setOnInsert": bson.M{
		"_id":          id,
		"participants": []models.ParticipantRef{a, b},
		"messages":     []models.Message{},
		"created_at":   now,
		"updated_at":   now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv models.Conversation
	err := r.col.FindOneAndUpdate(ctx, bson.M{"pair_key": key}, update, opts).Decode(&conv)
	if err == nil {
		return &conv, conv.ID == id, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, err
	}
	// lost an insert race for this pair; the winner's document is now visible
	existing, err := r.FindBetween(ctx, a.ID, b.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *mongoConversationRepo) Create(ctx context.Context, a, b models.ParticipantRef) (*models.Conversation, error) {
	now := r.now()
	conv := &models.Conversation{
		ID:           r.newID(),
		PairKey:      models.PairKey(a.ID, b.ID),
		Participants: []models.ParticipantRef{a, b},
		Messages:     []models.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.col.InsertOne(ctx, conv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePair
		}
		return nil, err
	}
	return conv, nil
}

func (r *mongoConversationRepo) FindBetween(ctx context.Context, idA, idB string) (*models.Conversation, error) {
	return r.findOne(ctx, bson.M{"pair_key": models.PairKey(idA, idB)})
}

func (r *mongoConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// appendPipeline appends msg and moves updated_at to the later of the
// message time and one millisecond past the stored value, so it strictly
// increases even when clocks repeat or run behind.
func appendPipeline(msg models.Message) mongo.Pipeline {
	return mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "messages", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$messages", bson.A{}}}},
			bson.A{bson.D{{Key: "$literal", Value: msg}}},
		}}}},
		{Key: "updated_at", Value: bson.D{{Key: "$max", Value: bson.A{
			msg.CreatedAt,
			bson.D{{Key: "$add", Value: bson.A{"$updated_at", 1}}},
		}}}},
	}}}}
}

// AppendMessage appends msg only when its sender matches a stored participant,
// id and variant both, so the write either fully happens or not at all.
func (r *mongoConversationRepo) AppendMessage(ctx context.Context, id string, msg models.Message) (*models.Conversation, error) {
	filter := bson.M{
		"_id": id,
		"participants": bson.M{"$elemMatch": bson.M{
			"id":      msg.Sender.ID,
			"variant": msg.Sender.Variant,
		}},
	}
	update := appendPipeline(msg)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conv models.Conversation
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrNotParticipant
}

func (r *mongoConversationRepo) ListForParticipant(ctx context.Context, identityID string) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	return findMany[models.Conversation](ctx, r.col, bson.M{"participants.id": identityID}, opts)
}

func (r *mongoConversationRepo) findOne(ctx context.Context, filter bson.M) (*models.Conversation, error) {
	conv, err := findOne[models.Conversation](ctx, r.col, filter)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrConversationNotFound
	}
	return conv, err
}

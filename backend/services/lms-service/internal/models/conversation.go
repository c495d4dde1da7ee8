package models

import "time"

// Message is embedded in a Conversation and never stored on its own.
type Message struct {
	Sender    ParticipantRef `bson:"sender"`
	Text      string         `bson:"text"`
	CreatedAt time.Time      `bson:"created_at"`
}

// Conversation is a two-party thread. PairKey is the order-independent key
// of the participant ids and is unique across the collection.
type Conversation struct {
	ID           string           `bson:"_id"`
	PairKey      string           `bson:"pair_key"`
	Participants []ParticipantRef `bson:"participants"`
	Messages     []Message        `bson:"messages"`
	CreatedAt    time.Time        `bson:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at"`
}

// PairKey returns the same key for (a, b) and (b, a).
func PairKey(idA, idB string) string {
	if idB < idA {
		idA, idB = idB, idA
	}
	return idA + ":" + idB
}

// ParticipantView is a participant or sender as returned to clients.
// DisplayName and Email are empty when the identity no longer exists.
type ParticipantView struct {
	ID          string  `json:"id"`
	Variant     Variant `json:"variant"`
	DisplayName string  `json:"displayName,omitempty"`
	Email       string  `json:"email,omitempty"`
}

type MessageView struct {
	Sender    ParticipantView `json:"sender"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ConversationView struct {
	ID           string            `json:"id"`
	Participants []ParticipantView `json:"participants"`
	Messages     []MessageView     `json:"messages"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

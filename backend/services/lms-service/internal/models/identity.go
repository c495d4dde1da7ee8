package models

import "strings"

// Variant tags which identity collection a reference points into.
type Variant string

const (
	VariantStudent    Variant = "student"
	VariantInstructor Variant = "instructor"
)

// ParseVariant accepts the tag in singular or collection form ("students"), any case.
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "students":
		return VariantStudent, true
	case "instructor", "instructors":
		return VariantInstructor, true
	}
	return "", false
}

// ParticipantRef is a bare (id, variant) reference to an identity.
type ParticipantRef struct {
	ID      string  `bson:"id" json:"id"`
	Variant Variant `bson:"variant" json:"variant"`
}

// Identity is the part of a student or instructor record shown in chat.
type Identity struct {
	ID          string
	Variant     Variant
	DisplayName string
	Email       string
}

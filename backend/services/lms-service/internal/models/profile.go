package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the student's extended details, keyed by the student id.
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"studentId"`
	FirstName    string             `bson:"first_name" json:"firstName"`
	LastName     string             `bson:"last_name" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	Bio          string             `bson:"bio" json:"bio"`
	Phone        string             `bson:"phone" json:"phone"`
	Address      string             `bson:"address" json:"address"`
	City         string             `bson:"city" json:"city"`
	Province     string             `bson:"province" json:"province"`
	Zipcode      string             `bson:"zipcode" json:"zipcode"`
	Country      string             `bson:"country" json:"country"`
	Gender       string             `bson:"gender" json:"gender"`
	ImageKey     string             `bson:"image_key,omitempty" json:"-"`
	ThumbnailKey string             `bson:"thumbnail_key,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewProfile seeds a profile from the student record with placeholder details.
func NewProfile(s *Student, now time.Time) *Profile {
	return &Profile{
		StudentID: s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Bio:       NotGiven,
		Phone:     NotGiven,
		Address:   NotGiven,
		City:      NotGiven,
		Province:  NotGiven,
		Zipcode:   NotGiven,
		Country:   NotGiven,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type ProfilePatch struct {
	FirstName    *string    `bson:"first_name,omitempty"`
	LastName     *string    `bson:"last_name,omitempty"`
	Bio          *string    `bson:"bio,omitempty"`
	Phone        *string    `bson:"phone,omitempty"`
	Address      *string    `bson:"address,omitempty"`
	City         *string    `bson:"city,omitempty"`
	Province     *string    `bson:"province,omitempty"`
	Zipcode      *string    `bson:"zipcode,omitempty"`
	Country      *string    `bson:"country,omitempty"`
	Gender       *string    `bson:"gender,omitempty"`
	ImageKey     *string    `bson:"image_key,omitempty"`
	ThumbnailKey *string    `bson:"thumbnail_key,omitempty"`
	UpdatedAt    *time.Time `bson:"updated_at,omitempty"`
}

// ProfileView merges the student record with its profile.
type ProfileView struct {
	StudentID     string     `json:"studentId"`
	StudentNumber string     `json:"studentNumber"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	AcademicLevel string     `json:"academicLevel"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Bio           string     `json:"bio"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Province      string     `json:"province"`
	Zipcode       string     `json:"zipcode"`
	Country       string     `json:"country"`
	Gender        string     `json:"gender"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	ThumbnailURL  string     `json:"thumbnailUrl,omitempty"`
	HasImage      bool       `json:"hasImage"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

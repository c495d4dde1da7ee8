package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleInstructor = "instructor"

type SocialLinks struct {
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type Instructor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName     string             `bson:"first_name" json:"firstName"`
	LastName      string             `bson:"last_name" json:"lastName"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"password" json:"-"`
	Phone         string             `bson:"phone" json:"phone"`
	Role          string             `bson:"role" json:"role"`
	Bio           string             `bson:"bio" json:"bio"`
	Expertise     []string           `bson:"expertise" json:"expertise"`
	Experience    int                `bson:"experience" json:"experience"`
	Qualification string             `bson:"qualification" json:"qualification"`
	ProfileImage  string             `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	SocialLinks   SocialLinks        `bson:"social_links" json:"socialLinks"`
	IsVerified    bool               `bson:"is_verified" json:"isVerified"`
	Rating        Rating             `bson:"rating" json:"rating"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (i *Instructor) DisplayName() string {
	return FullName(i.FirstName, i.LastName)
}

type InstructorPatch struct {
	FirstName     *string      `bson:"first_name,omitempty" json:"firstName" validate:"omitempty,min=1"`
	LastName      *string      `bson:"last_name,omitempty" json:"lastName" validate:"omitempty,min=1"`
	Phone         *string      `bson:"phone,omitempty" json:"phone"`
	Bio           *string      `bson:"bio,omitempty" json:"bio"`
	Expertise     *[]string    `bson:"expertise,omitempty" json:"expertise"`
	Experience    *int         `bson:"experience,omitempty" json:"experience" validate:"omitempty,min=0"`
	Qualification *string      `bson:"qualification,omitempty" json:"qualification"`
	ProfileImage  *string      `bson:"profile_image,omitempty" json:"profileImage"`
	SocialLinks   *SocialLinks `bson:"social_links,omitempty" json:"socialLinks"`
	IsVerified    *bool        `bson:"is_verified,omitempty" json:"isVerified"`
	UpdatedAt     *time.Time   `bson:"updated_at,omitempty" json:"-"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StudentActive    = "Active"
	StudentInactive  = "Inactive"
	StudentGraduated = "Graduated"
	StudentSuspended = "Suspended"

	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"

	NotGiven = "NOT GIVEN"
)

type Student struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName      string             `bson:"first_name" json:"firstName"`
	LastName       string             `bson:"last_name" json:"lastName"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password" json:"-"`
	StudentID      string             `bson:"student_id" json:"studentId"`
	Phone          string             `bson:"phone" json:"phone"`
	DateOfBirth    *time.Time         `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Address        string             `bson:"address" json:"address"`
	EnrollmentDate time.Time          `bson:"enrollment_date" json:"enrollmentDate"`
	Status         string             `bson:"status" json:"status"`
	AcademicLevel  string             `bson:"academic_level" json:"academicLevel"`
	ProfileImage   string             `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (s *Student) DisplayName() string {
	return FullName(s.FirstName, s.LastName)
}

// StudentPatch holds the fields a profile update may change; nil means unchanged.
type StudentPatch struct {
	FirstName     *string    `bson:"first_name,omitempty" json:"firstName" validate:"omitempty,min=1"`
	LastName      *string    `bson:"last_name,omitempty" json:"lastName" validate:"omitempty,min=1"`
	Phone         *string    `bson:"phone,omitempty" json:"phone"`
	DateOfBirth   *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth"`
	Address       *string    `bson:"address,omitempty" json:"address"`
	Status        *string    `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=Active Inactive Graduated Suspended"`
	AcademicLevel *string    `bson:"academic_level,omitempty" json:"academicLevel" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	ProfileImage  *string    `bson:"profile_image,omitempty" json:"profileImage"`
	UpdatedAt     *time.Time `bson:"updated_at,omitempty" json:"-"`
}

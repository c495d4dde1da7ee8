package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CourseDraft     = "Draft"
	CoursePublished = "Published"
	CourseArchived  = "Archived"

	DefaultCategory    = "General"
	DefaultMaxStudents = 50
)

type SyllabusItem struct {
	Title       string  `bson:"title" json:"title"`
	Description string  `bson:"description" json:"description"`
	Duration    float64 `bson:"duration" json:"duration"`
}

type Course struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	InstructorID    primitive.ObjectID `bson:"instructor_id" json:"instructorId"`
	Category        string             `bson:"category" json:"category"`
	Duration        float64            `bson:"duration" json:"duration"`
	Price           float64            `bson:"price" json:"price"`
	Level           string             `bson:"level" json:"level"`
	Status          string             `bson:"status" json:"status"`
	MaxStudents     int                `bson:"max_students" json:"maxStudents"`
	EnrollmentCount int                `bson:"enrollment_count" json:"enrollmentCount"`
	Syllabus        []SyllabusItem     `bson:"syllabus" json:"syllabus"`
	Requirements    []string           `bson:"requirements" json:"requirements"`
	Tags            []string           `bson:"tags" json:"tags"`
	ThumbnailKey    string             `bson:"thumbnail_key,omitempty" json:"-"`
	IsFeatured      bool               `bson:"is_featured" json:"isFeatured"`
	Rating          Rating             `bson:"rating" json:"rating"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CoursePatch struct {
	Title        *string         `bson:"title,omitempty" json:"title" validate:"omitempty,min=1"`
	Description  *string         `bson:"description,omitempty" json:"description" validate:"omitempty,min=1"`
	Category     *string         `bson:"category,omitempty" json:"category"`
	Duration     *float64        `bson:"duration,omitempty" json:"duration" validate:"omitempty,min=0"`
	Price        *float64        `bson:"price,omitempty" json:"price" validate:"omitempty,min=0"`
	Level        *string         `bson:"level,omitempty" json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Status       *string         `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=Draft Published Archived"`
	MaxStudents  *int            `bson:"max_students,omitempty" json:"maxStudents" validate:"omitempty,min=1"`
	Syllabus     *[]SyllabusItem `bson:"syllabus,omitempty" json:"syllabus"`
	Requirements *[]string       `bson:"requirements,omitempty" json:"requirements"`
	Tags         *[]string       `bson:"tags,omitempty" json:"tags"`
	IsFeatured   *bool           `bson:"is_featured,omitempty" json:"isFeatured"`
	Rating       *Rating         `bson:"rating,omitempty" json:"rating"`
	ThumbnailKey *string         `bson:"thumbnail_key,omitempty" json:"-"`
	UpdatedAt    *time.Time      `bson:"updated_at,omitempty" json:"-"`
}

// InstructorSummary is embedded in course responses.
type InstructorSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type CourseView struct {
	Course
	Instructor   *InstructorSummary `json:"instructor,omitempty"`
	ThumbnailURL string             `json:"thumbnailUrl,omitempty"`
}

type InstructorCourseStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
}

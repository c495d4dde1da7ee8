package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EnrollmentEnrolled    = "ENROLLED"
	EnrollmentNotEnrolled = "NOT ENROLLMENT"
	EnrollmentCompleted   = "COMPLETED"
	EnrollmentDropped     = "DROPPED"
	EnrollmentSuspended   = "SUSPENDED"
	EnrollmentInProgress  = "IN PROGRESS"

	DefaultStudentEmail = "no-email@example.com"
	DefaultGrade        = "Not Given"
)

var EnrollmentStatuses = []string{
	EnrollmentEnrolled,
	EnrollmentNotEnrolled,
	EnrollmentCompleted,
	EnrollmentDropped,
	EnrollmentSuspended,
	EnrollmentInProgress,
}

func IsEnrollmentStatus(s string) bool {
	for _, v := range EnrollmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Enrollment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseName       string             `bson:"course_name" json:"courseName"`
	StudentName      string             `bson:"student_name" json:"studentName"`
	StudentEmail     string             `bson:"student_email" json:"studentEmail"`
	EnrollmentStatus string             `bson:"enrollment_status" json:"enrollmentStatus"`
	Grade            string             `bson:"grade" json:"grade"`
	EnrollmentDate   time.Time          `bson:"enrollment_date" json:"enrollmentDate"`
	CompletionDate   *time.Time         `bson:"completion_date,omitempty" json:"completionDate,omitempty"`
	Progress         float64            `bson:"progress" json:"progress"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

type EnrollmentPatch struct {
	CourseName       *string    `bson:"course_name,omitempty" json:"courseName" validate:"omitempty,min=1"`
	StudentName      *string    `bson:"student_name,omitempty" json:"studentName" validate:"omitempty,min=1"`
	StudentEmail     *string    `bson:"student_email,omitempty" json:"studentEmail" validate:"omitempty,email"`
	EnrollmentStatus *string    `bson:"enrollment_status,omitempty" json:"enrollmentStatus" validate:"omitempty,oneof=ENROLLED 'NOT ENROLLMENT' COMPLETED DROPPED SUSPENDED 'IN PROGRESS'"`
	Grade            *string    `bson:"grade,omitempty" json:"grade"`
	CompletionDate   *time.Time `bson:"completion_date,omitempty" json:"completionDate"`
	Progress         *float64   `bson:"progress,omitempty" json:"progress" validate:"omitempty,min=0,max=100"`
	UpdatedAt        *time.Time `bson:"updated_at,omitempty" json:"-"`
}

type StatusCount struct {
	Status string `bson:"_id" json:"_id"`
	Count  int64  `bson:"count" json:"count"`
}

type EnrollmentStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Dropped   int64 `json:"dropped"`
}

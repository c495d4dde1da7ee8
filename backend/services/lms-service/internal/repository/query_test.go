package repository

import (
	"context"
	"testing"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type regexMatch struct {
	pattern, options string
}

// orRegexes maps each field of an $or of single-field regex matches.
func orRegexes(mt *mtest.T, or bson.Raw) map[string]regexMatch {
	mt.Helper()
	values, err := or.Values()
	require.NoError(mt, err)
	out := map[string]regexMatch{}
	for _, v := range values {
		elems, err := v.Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, elems, 1)
		pattern, opts := elems[0].Value().Regex()
		out[elems[0].Key()] = regexMatch{pattern, opts}
	}
	return out
}

func TestStudentRepo_SearchFilter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("query and status", func(mt *mtest.T) {
		r := NewMongoStudentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.students", mtest.FirstBatch,
			toDoc(mt.T, models.Student{ID: primitive.NewObjectID(), FirstName: "Ana", Status: models.StudentActive})))

		out, err := r.Search(context.Background(), StudentSearch{Query: "a.n+", Status: models.StudentActive})
		require.NoError(mt, err)
		require.Len(mt, out, 1)
		assert.Equal(mt, "Ana", out[0].FirstName)

		cmd := sentCommand(mt, "find")
		assert.Equal(mt, models.StudentActive, cmd.Lookup("filter", "status").StringValue())
		_, err = cmd.LookupErr("filter", "academic_level")
		assert.Error(mt, err)
		want := regexMatch{`a\.n\+`, "i"}
		assert.Equal(mt, map[string]regexMatch{
			"first_name": want,
			"last_name":  want,
			"email":      want,
			"student_id": want,
		}, orRegexes(mt, cmd.Lookup("filter", "$or").Array()))
		assert.EqualValues(mt, -1, cmd.Lookup("sort", "enrollment_date").AsInt64())
		assert.EqualValues(mt, 20, cmd.Lookup("limit").AsInt64())
	})

	mt.Run("level only", func(mt *mtest.T) {
		r := NewMongoStudentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.students", mtest.FirstBatch))

		out, err := r.Search(context.Background(), StudentSearch{AcademicLevel: models.LevelAdvanced})
		require.NoError(mt, err)
		assert.Empty(mt, out)

		cmd := sentCommand(mt, "find")
		filter := cmd.Lookup("filter").Document()
		elems, err := filter.Elements()
		require.NoError(mt, err)
		require.Len(mt, elems, 1)
		assert.Equal(mt, "academic_level", elems[0].Key())
		assert.Equal(mt, models.LevelAdvanced, elems[0].Value().StringValue())
	})
}

func TestCourseRepo_ListFilterAndPage(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count then page", func(mt *mtest.T) {
		r := NewMongoCourseRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.courses", mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 7}}),
			mtest.CreateCursorResponse(0, "test.courses", mtest.FirstBatch,
				toDoc(mt.T, models.Course{ID: primitive.NewObjectID(), Title: "C++ in Practice", Category: "Web"})),
		)

		out, page, err := r.List(context.Background(), CourseFilter{
			Category: "Web",
			Search:   "c++",
			Page:     Page{Page: 2, Limit: 5},
		})
		require.NoError(mt, err)
		require.Len(mt, out, 1)
		assert.Equal(mt, Pagination{CurrentPage: 2, TotalPages: 2, TotalItems: 7, ItemsPerPage: 5}, page)

		want := regexMatch{`c\+\+`, "i"}
		wantOr := map[string]regexMatch{"title": want, "description": want, "tags": want}

		count := sentCommand(mt, "aggregate")
		match := count.Lookup("pipeline", "0", "$match").Document()
		assert.Equal(mt, "Web", match.Lookup("category").StringValue())
		assert.Equal(mt, wantOr, orRegexes(mt, match.Lookup("$or").Array()))
		_, err = match.LookupErr("status")
		assert.Error(mt, err)

		find := sentCommand(mt, "find")
		assert.Equal(mt, "Web", find.Lookup("filter", "category").StringValue())
		assert.Equal(mt, wantOr, orRegexes(mt, find.Lookup("filter", "$or").Array()))
		assert.EqualValues(mt, 5, find.Lookup("skip").AsInt64())
		assert.EqualValues(mt, 5, find.Lookup("limit").AsInt64())
		assert.EqualValues(mt, -1, find.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("out of range page size is clamped", func(mt *mtest.T) {
		r := NewMongoCourseRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.courses", mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 0}}),
			mtest.CreateCursorResponse(0, "test.courses", mtest.FirstBatch),
		)

		_, page, err := r.List(context.Background(), CourseFilter{Page: Page{Page: 0, Limit: 500}})
		require.NoError(mt, err)
		assert.Equal(mt, Pagination{CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 100}, page)

		sentCommand(mt, "aggregate")
		find := sentCommand(mt, "find")
		assert.EqualValues(mt, 100, find.Lookup("limit").AsInt64())
	})
}

func TestEnrollmentRepo_StatusDistribution(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("groups by status", func(mt *mtest.T) {
		r := NewMongoEnrollmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.enrollments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Active"}, {Key: "count", Value: 3}},
			bson.D{{Key: "_id", Value: "Completed"}, {Key: "count", Value: 1}},
		))

		out, err := r.StatusDistribution(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []models.StatusCount{{Status: "Active", Count: 3}, {Status: "Completed", Count: 1}}, out)

		cmd := sentCommand(mt, "aggregate")
		stages, err := cmd.Lookup("pipeline").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, stages, 2)
		group := stages[0].Document().Lookup("$group").Document()
		assert.Equal(mt, "$enrollment_status", group.Lookup("_id").StringValue())
		assert.EqualValues(mt, 1, group.Lookup("count", "$sum").AsInt64())
		assert.EqualValues(mt, -1, stages[1].Document().Lookup("$sort", "count").AsInt64())
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		r := NewMongoEnrollmentRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.enrollments", mtest.FirstBatch))

		out, err := r.StatusDistribution(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, out)
		assert.Empty(mt, out)
	})
}

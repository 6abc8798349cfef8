package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAggregates(t *testing.T, p *Product) {
	t.Helper()
	assert.Equal(t, len(p.Reviews), p.NumOfReviews)
	if len(p.Reviews) == 0 {
		assert.Zero(t, p.Ratings)
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	assert.InDelta(t, float64(sum)/float64(len(p.Reviews)), p.Ratings, 1e-9)
}

func TestUpsertReview_AppendsNewReviews(t *testing.T) {
	p := &Product{}

	r1, created := p.UpsertReview(ReviewSubmission{UserID: "u1", UserName: "Asha", Rating: 5, Comment: "great"})
	require.True(t, created)
	assert.NotEmpty(t, r1.ID)
	assert.Equal(t, "Asha", r1.Name)

	_, created = p.UpsertReview(ReviewSubmission{UserID: "u2", UserName: "Ben", Rating: 2, Comment: "meh"})
	require.True(t, created)

	assert.Equal(t, 2, p.NumOfReviews)
	assert.InDelta(t, 3.5, p.Ratings, 1e-9)
	assertAggregates(t, p)
}

func TestUpsertReview_SameUserUpdatesInPlace(t *testing.T) {
	p := &Product{}
	first, _ := p.UpsertReview(ReviewSubmission{UserID: "u1", UserName: "Asha", Rating: 3, Comment: "ok"})
	p.UpsertReview(ReviewSubmission{UserID: "u2", UserName: "Ben", Rating: 5, Comment: "good"})

	second, created := p.UpsertReview(ReviewSubmission{UserID: "u1", UserName: "Asha R.", Rating: 1, Comment: "broke"})

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Asha", second.Name, "name snapshot is kept")
	assert.Equal(t, "broke", p.Reviews[0].Comment)
	assert.Len(t, p.Reviews, 2)
	assert.InDelta(t, 3.0, p.Ratings, 1e-9)
	assertAggregates(t, p)
}

func TestUpsertReview_Idempotent(t *testing.T) {
	p := &Product{}
	s := ReviewSubmission{UserID: "u1", UserName: "Asha", Rating: 4, Comment: "solid"}
	p.UpsertReview(s)
	p.UpsertReview(s)

	assert.Equal(t, 1, p.NumOfReviews)
	assert.Len(t, p.Reviews, 1)
	assert.InDelta(t, 4.0, p.Ratings, 1e-9)
}

func TestUpsertReview_AcceptsOutOfRangeRatings(t *testing.T) {
	p := &Product{}
	p.UpsertReview(ReviewSubmission{UserID: "u1", Rating: 5})
	p.UpsertReview(ReviewSubmission{UserID: "u2", Rating: 11})

	assert.InDelta(t, 8.0, p.Ratings, 1e-9)
}

func TestRemoveReview(t *testing.T) {
	p := &Product{}
	keep, _ := p.UpsertReview(ReviewSubmission{UserID: "u1", Rating: 4})
	drop, _ := p.UpsertReview(ReviewSubmission{UserID: "u2", Rating: 2})

	assert.True(t, p.RemoveReview(drop.ID))
	require.Len(t, p.Reviews, 1)
	assert.Equal(t, keep.ID, p.Reviews[0].ID)
	assert.InDelta(t, 4.0, p.Ratings, 1e-9)
	assertAggregates(t, p)

	assert.True(t, p.RemoveReview(keep.ID))
	assert.Empty(t, p.Reviews)
	assert.Zero(t, p.Ratings)
	assert.Zero(t, p.NumOfReviews)
}

func TestRemoveReview_UnknownIDIsNoop(t *testing.T) {
	p := &Product{}
	p.UpsertReview(ReviewSubmission{UserID: "u1", Rating: 4})
	p.UpsertReview(ReviewSubmission{UserID: "u2", Rating: 1})
	before := p.Clone()

	assert.False(t, p.RemoveReview("missing"))
	assert.Equal(t, before.Reviews, p.Reviews)
	assert.Equal(t, before.Ratings, p.Ratings)
	assert.Equal(t, before.NumOfReviews, p.NumOfReviews)
}

func TestReviewByUser(t *testing.T) {
	p := &Product{}
	p.UpsertReview(ReviewSubmission{UserID: "u1", Rating: 4})

	r, ok := p.ReviewByUser("u1")
	assert.True(t, ok)
	assert.Equal(t, 4, r.Rating)

	_, ok = p.ReviewByUser("u9")
	assert.False(t, ok)
}

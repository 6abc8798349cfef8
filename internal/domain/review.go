package domain

import "github.com/google/uuid"

// Review is one user's rating of a product. A product holds at most one
// review per user.
type Review struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewSubmission is a user's rating as received from a client. Rating is
// not range checked.
type ReviewSubmission struct {
	UserID   string
	UserName string
	Rating   int
	Comment  string
}

// UpsertReview records s on p. An existing review by the same user has its
// rating and comment replaced in place, keeping its ID and name snapshot;
// otherwise a new review is appended. The aggregates are recomputed either
// way. It returns the stored review and whether it was newly created.
func (p *Product) UpsertReview(s ReviewSubmission) (Review, bool) {
	defer p.recomputeRatings()

	for i := range p.Reviews {
		if p.Reviews[i].User == s.UserID {
			p.Reviews[i].Rating = s.Rating
			p.Reviews[i].Comment = s.Comment
			return p.Reviews[i], false
		}
	}

	r := Review{
		ID:      uuid.NewString(),
		User:    s.UserID,
		Name:    s.UserName,
		Rating:  s.Rating,
		Comment: s.Comment,
	}
	p.Reviews = append(p.Reviews, r)
	return r, true
}

// RemoveReview drops the review with the given ID and recomputes the
// aggregates. An unknown ID leaves p unchanged and reports false.
func (p *Product) RemoveReview(reviewID string) bool {
	kept := make([]Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	removed := len(kept) != len(p.Reviews)
	p.Reviews = kept
	p.recomputeRatings()
	return removed
}

// ReviewByUser returns the review authored by userID, if any.
func (p *Product) ReviewByUser(userID string) (Review, bool) {
	for _, r := range p.Reviews {
		if r.User == userID {
			return r, true
		}
	}
	return Review{}, false
}

// recomputeRatings keeps NumOfReviews equal to len(Reviews) and Ratings
// equal to their mean, or 0 with no reviews.
func (p *Product) recomputeRatings() {
	p.NumOfReviews = len(p.Reviews)
	if p.NumOfReviews == 0 {
		p.Ratings = 0
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = float64(sum) / float64(p.NumOfReviews)
}

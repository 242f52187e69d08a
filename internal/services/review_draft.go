package services

import (
	"context"

	"github.com/joshua-takyi/shelf/internal/models"
)

type ReviewAdder interface {
	AddReview(ctx context.Context, itemID int, text string, rating int) (*models.Review, error)
}

// ReviewDraft is the unsaved input of one item's review form. A zero Rating means unset.
type ReviewDraft struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func (d *ReviewDraft) SetText(text string) {
	d.Text = text
}

// SelectRating clamps to 0..5 so the draft never holds an out-of-range star count.
func (d *ReviewDraft) SelectRating(rating int) {
	switch {
	case rating < 0:
		d.Rating = 0
	case rating > models.MaxRating:
		d.Rating = models.MaxRating
	default:
		d.Rating = rating
	}
}

func (d *ReviewDraft) Clear() {
	d.Text = ""
	d.Rating = 0
}

func (d *ReviewDraft) IsEmpty() bool {
	return d.Text == "" && d.Rating == 0
}

// Submit hands the draft to the review engine. A blocked or failed submission
// keeps the draft; a successful one clears it.
func (d *ReviewDraft) Submit(ctx context.Context, itemID int, adder ReviewAdder) (*models.Review, error) {
	if err := ValidateSubmission(d.Text, d.Rating); err != nil {
		return nil, err
	}
	review, err := adder.AddReview(ctx, itemID, d.Text, d.Rating)
	if err != nil {
		return nil, err
	}
	d.Clear()
	return review, nil
}

package models

import (
	"encoding/json"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID     int64  `json:"id"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Text   string `json:"text" validate:"required"`
	User   string `json:"user"`
}

// UnmarshalJSON also accepts reviews written with a "comment" field instead of "text".
func (r *Review) UnmarshalJSON(data []byte) error {
	type plain Review
	var raw struct {
		plain
		Comment string `json:"comment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Review(raw.plain)
	if r.Text == "" {
		r.Text = raw.Comment
	}
	return nil
}

type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalCount    int     `json:"total_count"`
}

// CatalogItem is a reviewable book. Its Reviews slice is owned exclusively by the item.
type CatalogItem struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Price   string   `json:"price"`
	Reviews []Review `json:"reviews"`
}

func (it CatalogItem) Clone() CatalogItem {
	if it.Reviews == nil {
		return it
	}
	reviews := make([]Review, len(it.Reviews))
	copy(reviews, it.Reviews)
	it.Reviews = reviews
	return it
}

func (it CatalogItem) Summary() ReviewSummary {
	if len(it.Reviews) == 0 {
		return ReviewSummary{}
	}
	total := 0
	for _, r := range it.Reviews {
		total += r.Rating
	}
	return ReviewSummary{
		AverageRating: float64(total) / float64(len(it.Reviews)),
		TotalCount:    len(it.Reviews),
	}
}

func CloneCatalog(items []CatalogItem) []CatalogItem {
	out := make([]CatalogItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// SeedCatalog returns the fixed set of reviewable books, each with no reviews.
func SeedCatalog() []CatalogItem {
	const author = "عمرو عبد الحميد"
	const price = "200 EGP"
	titles := []string{
		"أرض زيكولا",
		"وادي الذئاب المنسية",
		"أماريتا",
		"فتاة الياقة الزرقاء",
		"قواعد جارتين",
	}
	items := make([]CatalogItem, len(titles))
	for i, title := range titles {
		items[i] = CatalogItem{
			ID:      i + 1,
			Title:   title,
			Author:  author,
			Price:   price,
			Reviews: []Review{},
		}
	}
	return items
}

// RenderStars draws a rating as filled and empty stars, e.g. ★★★☆☆.
func RenderStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}

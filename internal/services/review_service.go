package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/shelf/internal/models"
)

// Reconcile returns a list parallel to seed. A persisted item whose title
// matches a seed title exactly replaces that seed entry; the first match wins
// when the persisted list repeats a title. Unmatched persisted items are dropped.
func Reconcile(seed, persisted []models.CatalogItem) []models.CatalogItem {
	byTitle := make(map[string]models.CatalogItem, len(persisted))
	for _, item := range persisted {
		if _, seen := byTitle[item.Title]; !seen {
			byTitle[item.Title] = item
		}
	}

	merged := make([]models.CatalogItem, len(seed))
	for i, s := range seed {
		if stored, ok := byTitle[s.Title]; ok {
			merged[i] = stored.Clone()
		} else {
			merged[i] = s.Clone()
		}
		if merged[i].Reviews == nil {
			merged[i].Reviews = []models.Review{}
		}
	}
	return merged
}

// AddReview appends review to the item identified by itemID. Other items are copied unchanged.
func AddReview(catalog []models.CatalogItem, itemID int, review models.Review) ([]models.CatalogItem, error) {
	out := models.CloneCatalog(catalog)
	for i := range out {
		if out[i].ID == itemID {
			out[i].Reviews = append(out[i].Reviews, review)
			return out, nil
		}
	}
	return nil, models.ErrItemNotFound
}

// DeleteReview removes reviewID from the item identified by itemID.
// Unknown items and unknown reviews leave the catalog unchanged.
func DeleteReview(catalog []models.CatalogItem, itemID int, reviewID int64) []models.CatalogItem {
	out := models.CloneCatalog(catalog)
	for i := range out {
		if out[i].ID != itemID {
			continue
		}
		for j, r := range out[i].Reviews {
			if r.ID == reviewID {
				out[i].Reviews = append(out[i].Reviews[:j:j], out[i].Reviews[j+1:]...)
				break
			}
		}
	}
	return out
}

// NextReviewID derives an identifier from the creation time in milliseconds,
// stepping forward until it is unique within the item's reviews.
func NextReviewID(now time.Time, existing []models.Review) int64 {
	taken := make(map[int64]struct{}, len(existing))
	for _, r := range existing {
		taken[r.ID] = struct{}{}
	}
	id := now.UnixMilli()
	for {
		if _, ok := taken[id]; !ok {
			return id
		}
		id++
	}
}

// ValidateSubmission reports why a review cannot be submitted. Text is checked before rating.
func ValidateSubmission(text string, rating int) error {
	if strings.TrimSpace(text) == "" {
		return &models.ReviewError{Kind: models.EmptyComment, Message: "Enter review text"}
	}
	if rating == 0 {
		return &models.ReviewError{Kind: models.NoRatingSelected, Message: "Select rating"}
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return &models.ReviewError{Kind: models.InvalidRating, Message: "Rating must be between 1 and 5"}
	}
	return nil
}

type ReviewService struct {
	catalogRepo  models.CatalogRepo
	identityRepo models.IdentityRepo
	logger       *slog.Logger
	seed         []models.CatalogItem
	now          func() time.Time

	// serializes read-modify-write cycles on the stored catalog
	mu sync.Mutex
}

func NewReviewService(catalogRepo models.CatalogRepo, identityRepo models.IdentityRepo, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		catalogRepo:  catalogRepo,
		identityRepo: identityRepo,
		logger:       logger,
		seed:         models.SeedCatalog(),
		now:          time.Now,
	}
}

func (rs *ReviewService) persisted(ctx context.Context) ([]models.CatalogItem, error) {
	stored, err := rs.catalogRepo.GetCatalog(ctx)
	if errors.Is(err, models.ErrCorruptRecord) {
		rs.logger.Warn("Discarding unreadable catalog", "error", err)
		return nil, nil
	}
	return stored, err
}

// OpenBoard runs reconciliation for a catalog-screen load and writes the result back.
func (rs *ReviewService) OpenBoard(ctx context.Context) ([]models.CatalogItem, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	stored, err := rs.persisted(ctx)
	if err != nil {
		return nil, err
	}
	merged := Reconcile(rs.seed, stored)
	if err := rs.catalogRepo.SaveCatalog(ctx, merged); err != nil {
		return nil, err
	}
	rs.logger.Debug("Catalog reconciled", "stored_items", len(stored), "items", len(merged))
	return merged, nil
}

// Board returns the current catalog without writing. Before the first
// screen load this is the seed list.
func (rs *ReviewService) Board(ctx context.Context) ([]models.CatalogItem, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.current(ctx)
}

// HasItem reports whether itemID is on the current board.
func (rs *ReviewService) HasItem(ctx context.Context, itemID int) (bool, error) {
	items, err := rs.Board(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (rs *ReviewService) current(ctx context.Context) ([]models.CatalogItem, error) {
	stored, err := rs.persisted(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return Reconcile(rs.seed, nil), nil
	}
	return stored, nil
}

// AddReview validates the submission, stamps it with a fresh identifier and
// the current identity, and persists the full catalog.
func (rs *ReviewService) AddReview(ctx context.Context, itemID int, text string, rating int) (*models.Review, error) {
	if err := ValidateSubmission(text, rating); err != nil {
		return nil, err
	}

	identity, err := rs.identityRepo.GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	catalog, err := rs.current(ctx)
	if err != nil {
		return nil, err
	}

	var existing []models.Review
	for _, it := range catalog {
		if it.ID == itemID {
			existing = it.Reviews
			break
		}
	}

	review := models.Review{
		ID:     NextReviewID(rs.now(), existing),
		Rating: rating,
		Text:   strings.TrimSpace(text),
		User:   identity.Name,
	}
	if err := models.Validate.Struct(review); err != nil {
		return nil, err
	}

	updated, err := AddReview(catalog, itemID, review)
	if err != nil {
		return nil, err
	}
	if err := rs.catalogRepo.SaveCatalog(ctx, updated); err != nil {
		return nil, err
	}

	rs.logger.Info("Review added", "item_id", itemID, "review_id", review.ID, "rating", rating, "user", review.User)
	return &review, nil
}

func (rs *ReviewService) DeleteReview(ctx context.Context, itemID int, reviewID int64) ([]models.CatalogItem, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	catalog, err := rs.current(ctx)
	if err != nil {
		return nil, err
	}
	updated := DeleteReview(catalog, itemID, reviewID)
	if err := rs.catalogRepo.SaveCatalog(ctx, updated); err != nil {
		return nil, err
	}

	rs.logger.Info("Review deleted", "item_id", itemID, "review_id", reviewID)
	return updated, nil
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/shelf/internal/helpers"
	"github.com/joshua-takyi/shelf/internal/models"
	"github.com/joshua-takyi/shelf/internal/services"
)

type boardItem struct {
	models.CatalogItem
	Summary models.ReviewSummary  `json:"summary"`
	Stars   string                `json:"stars"`
	Draft   *services.ReviewDraft `json:"draft,omitempty"`
}

func boardView(items []models.CatalogItem, drafts map[int]services.ReviewDraft) []boardItem {
	out := make([]boardItem, len(items))
	for i, it := range items {
		summary := it.Summary()
		out[i] = boardItem{
			CatalogItem: it,
			Summary:     summary,
			Stars:       models.RenderStars(int(summary.AverageRating + 0.5)),
		}
		if d, ok := drafts[it.ID]; ok {
			out[i].Draft = &d
		}
	}
	return out
}

type reviewRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func parseItemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(helpers.StringTrim(c.Param("itemId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid item ID"))
		return 0, false
	}
	return id, true
}

// GetReviewBoard loads the catalog screen: the profile screen is left and the
// stored catalog is reconciled against the seed list.
func GetReviewBoard(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		session.Profile.Leave()

		items, err := r.OpenBoard(c.Request.Context())
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(boardView(items, session.Drafts()), ""))
	}
}

func CreateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			return
		}
		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		review, err := r.AddReview(c.Request.Context(), itemID, req.Text, req.Rating)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(review, "Review added"))
	}
}

func DeleteReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			return
		}
		reviewID, err := strconv.ParseInt(helpers.StringTrim(c.Param("reviewId")), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid review ID"))
			return
		}

		items, err := r.DeleteReview(c.Request.Context(), itemID, reviewID)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(boardView(items, nil), ""))
	}
}

// UpdateDraft stores the in-progress text and star selection of one item's review form.
func UpdateDraft(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			return
		}
		exists, err := r.HasItem(c.Request.Context(), itemID)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		if !exists {
			respondError(c, models.ErrItemNotFound, nil)
			return
		}

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		draft := session.Draft(itemID)
		draft.SetText(req.Text)
		draft.SelectRating(req.Rating)
		c.JSON(http.StatusOK, models.SuccessResponse(draft, ""))
	}
}

func SubmitDraft(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			return
		}
		exists, err := r.HasItem(c.Request.Context(), itemID)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		if !exists {
			respondError(c, models.ErrItemNotFound, nil)
			return
		}

		session, ok := currentSession(c)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		draft := session.Draft(itemID)
		review, err := draft.Submit(c.Request.Context(), itemID, r)
		if err != nil {
			respondError(c, err, draft)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(review, "Review added"))
	}
}

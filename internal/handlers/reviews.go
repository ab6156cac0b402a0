package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"exchange-campus/internal/models"
	"exchange-campus/internal/repositories"
	"exchange-campus/internal/telemetry"
)

// ReviewHandler manages review endpoints.
type ReviewHandler struct {
	reviewRepo  repositories.ReviewRepository
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	emitter     *telemetry.EventEmitter
}

// NewReviewHandler builds a ReviewHandler.
func NewReviewHandler(reviewRepo repositories.ReviewRepository, userRepo repositories.UserRepository, productRepo repositories.ProductRepository, emitter *telemetry.EventEmitter) *ReviewHandler {
	return &ReviewHandler{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		emitter:     emitter,
	}
}

// List returns one page of reviews about a user, newest first.
func (h *ReviewHandler) List(c *gin.Context) {
	recipientID, err := strconv.Atoi(c.Query("userId"))
	if err != nil || recipientID <= 0 {
		fail(c, http.StatusBadRequest, "Invalid User ID")
		return
	}

	page, limit := pageParams(c, 10)

	total, err := h.reviewRepo.CountForRecipient(c.Request.Context(), recipientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	reviews, err := h.reviewRepo.ListForRecipient(c.Request.Context(), recipientID, page, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	views, err := h.populateReviews(c, reviews)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"reviews": views,
		"total":   total,
	})
}

// Create stores a review about another user, optionally tied to a product.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		RecipientID int    `json:"recipientId"`
		ProductID   *int   `json:"productId"`
		Rating      int    `json:"rating"`
		Comment     string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipientID <= 0 || req.Comment == "" {
		fail(c, http.StatusBadRequest, "Please provide recipient ID, rating and comment")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		fail(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if req.RecipientID == userID {
		fail(c, http.StatusBadRequest, "You cannot review yourself")
		return
	}

	exists, err := h.userRepo.Exists(c.Request.Context(), req.RecipientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	if !exists {
		fail(c, http.StatusNotFound, "Recipient not found")
		return
	}

	if req.ProductID != nil {
		if _, err := h.productRepo.Get(c.Request.Context(), *req.ProductID); err != nil {
			if errors.Is(err, repositories.ErrProductNotFound) {
				fail(c, http.StatusNotFound, "Product not found")
				return
			}
			fail(c, http.StatusInternalServerError, "Server error")
			return
		}
	}

	review, err := h.reviewRepo.Create(c.Request.Context(), userID, req.RecipientID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	h.emitter.Emit(c.Request.Context(), telemetry.KeyReviewCreated, gin.H{
		"reviewId":    review.ID,
		"recipientId": review.RecipientID,
		"rating":      review.Rating,
	}, requestIDFromContext(c), &userID)

	respond(c, http.StatusCreated, gin.H{"review": review})
}

// populateReviews attaches reviewer and product fields to reviews.
func (h *ReviewHandler) populateReviews(c *gin.Context, reviews []models.Review) ([]models.ReviewView, error) {
	userIDSet := map[int]struct{}{}
	userIDs := make([]int, 0, len(reviews))
	productIDSet := map[int]struct{}{}
	productIDs := make([]int, 0, len(reviews))
	for _, rv := range reviews {
		if _, ok := userIDSet[rv.ReviewerID]; !ok {
			userIDSet[rv.ReviewerID] = struct{}{}
			userIDs = append(userIDs, rv.ReviewerID)
		}
		if rv.ProductID.Valid {
			id := int(rv.ProductID.Int64)
			if _, ok := productIDSet[id]; !ok {
				productIDSet[id] = struct{}{}
				productIDs = append(productIDs, id)
			}
		}
	}

	users, err := h.userRepo.ListByIDs(c.Request.Context(), userIDs)
	if err != nil {
		return nil, err
	}
	userByID := make(map[int]models.UserRef, len(users))
	for _, u := range users {
		userByID[u.ID] = u.Ref()
	}

	products, err := h.productRepo.ListByIDs(c.Request.Context(), productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[int]models.ProductRef, len(products))
	for _, p := range products {
		productByID[p.ID] = p.Ref()
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, rv := range reviews {
		view := models.ReviewView{Review: rv, Reviewer: userByID[rv.ReviewerID]}
		if rv.ProductID.Valid {
			if ref, ok := productByID[int(rv.ProductID.Int64)]; ok {
				view.Product = &ref
			}
		}
		views = append(views, view)
	}
	return views, nil
}

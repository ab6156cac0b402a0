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

// ProductHandler manages marketplace listing endpoints.
type ProductHandler struct {
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	emitter     *telemetry.EventEmitter
}

// NewProductHandler builds a ProductHandler.
func NewProductHandler(productRepo repositories.ProductRepository, userRepo repositories.UserRepository, emitter *telemetry.EventEmitter) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		userRepo:    userRepo,
		emitter:     emitter,
	}
}

// List returns available listings matching the query filters.
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := pageParams(c, 10)
	filter := repositories.ProductFilter{
		University: c.Query("university"),
		Category:   c.Query("category"),
		Course:     c.Query("course"),
		Query:      c.Query("query"),
		SortBy:     c.DefaultQuery("sortBy", "createdAt"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
		Page:       page,
		Limit:      limit,
	}

	products, total, err := h.productRepo.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	views, err := h.populateProducts(c, products)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"products": views,
		"total":    total,
	})
}

// Create stores a new listing owned by the authenticated user.
func (h *ProductHandler) Create(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Condition   string   `json:"condition"`
		Images      []string `json:"images"`
		University  string   `json:"university"`
		Course      string   `json:"course"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Description == "" || req.Price <= 0 || req.Category == "" || req.Condition == "" {
		fail(c, http.StatusBadRequest, "Please fill in all required fields")
		return
	}
	if !models.ValidCondition(req.Condition) {
		fail(c, http.StatusBadRequest, "Invalid condition value")
		return
	}

	product, err := h.productRepo.Create(c.Request.Context(), models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      req.Images,
		University:  req.University,
		Course:      req.Course,
		SellerID:    userID,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	h.emitter.Emit(c.Request.Context(), telemetry.KeyProductCreated, gin.H{
		"productId": product.ID,
		"category":  product.Category,
		"price":     product.Price,
	}, requestIDFromContext(c), &userID)

	respond(c, http.StatusCreated, gin.H{"product": product})
}

// Get returns one listing with the seller's profile fields attached.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	product, err := h.productRepo.Get(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	views, err := h.populateProducts(c, []models.Product{product})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{"product": views[0]})
}

// Update rewrites a listing. Only the seller may update it.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	product, err := h.productRepo.Get(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	if product.SellerID != userID {
		fail(c, http.StatusForbidden, "Only the seller can modify this product")
		return
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Condition   string   `json:"condition"`
		Images      []string `json:"images"`
		Course      string   `json:"course"`
		IsAvailable *bool    `json:"isAvailable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Description == "" || req.Price <= 0 || req.Category == "" || !models.ValidCondition(req.Condition) {
		fail(c, http.StatusBadRequest, "Please fill in all required fields")
		return
	}
	available := product.IsAvailable
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	updated, err := h.productRepo.Update(c.Request.Context(), productID, repositories.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      req.Images,
		Course:      req.Course,
		IsAvailable: available,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{"product": updated})
}

// Delete removes a listing. Only the seller may delete it.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")

	product, err := h.productRepo.Get(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "Product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	if product.SellerID != userID {
		fail(c, http.StatusForbidden, "Only the seller can modify this product")
		return
	}

	if err := h.productRepo.Delete(c.Request.Context(), productID); err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "Product deleted"})
}

func productIDParam(c *gin.Context) (int, bool) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		fail(c, http.StatusBadRequest, "Invalid Product ID")
		return 0, false
	}
	return productID, true
}

// populateProducts attaches seller profile fields to listings.
func (h *ProductHandler) populateProducts(c *gin.Context, products []models.Product) ([]models.ProductView, error) {
	idSet := map[int]struct{}{}
	ids := make([]int, 0, len(products))
	for _, p := range products {
		if _, ok := idSet[p.SellerID]; !ok {
			idSet[p.SellerID] = struct{}{}
			ids = append(ids, p.SellerID)
		}
	}

	users, err := h.userRepo.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	refByID := make(map[int]models.UserRef, len(users))
	for _, u := range users {
		refByID[u.ID] = u.Ref()
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, models.ProductView{Product: p, Seller: refByID[p.SellerID]})
	}
	return views, nil
}

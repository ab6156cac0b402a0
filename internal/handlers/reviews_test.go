package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exchange-campus/internal/mocks"
	"exchange-campus/internal/models"
)

func setupReviewRouter(handler *ReviewHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/reviews", handler.List)
	r.POST("/reviews", handler.Create)
	return r
}

func TestCreateReviewSuccess(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewReviewHandler(reviewRepo, userRepo, productRepo, nil)
	router := setupReviewRouter(handler)

	userRepo.On("Exists", mock.Anything, 2).Return(true, nil).Once()
	reviewRepo.On("Create", mock.Anything, 1, 2, (*int)(nil), 5, "Great seller").
		Return(models.Review{ID: 9, ReviewerID: 1, RecipientID: 2, Rating: 5, Comment: "Great seller"}, nil).Once()

	body := bytes.NewBufferString(`{"recipientId":2,"rating":5,"comment":"Great seller"}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	reviewRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateReviewSelfReview(t *testing.T) {
	handler := NewReviewHandler(new(mocks.ReviewRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.ProductRepositoryMock), nil)
	router := setupReviewRouter(handler)

	body := bytes.NewBufferString(`{"recipientId":1,"rating":5,"comment":"I am great"}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	handler := NewReviewHandler(new(mocks.ReviewRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.ProductRepositoryMock), nil)
	router := setupReviewRouter(handler)

	body := bytes.NewBufferString(`{"recipientId":2,"rating":6,"comment":"Too good"}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReviewRecipientNotFound(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewReviewHandler(reviewRepo, userRepo, new(mocks.ProductRepositoryMock), nil)
	router := setupReviewRouter(handler)

	userRepo.On("Exists", mock.Anything, 99).Return(false, nil).Once()

	body := bytes.NewBufferString(`{"recipientId":99,"rating":4,"comment":"ok"}`)
	req := httptest.NewRequest(http.MethodPost, "/reviews", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	userRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestListReviewsPopulatesReviewerAndProduct(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewReviewHandler(reviewRepo, userRepo, productRepo, nil)
	router := setupReviewRouter(handler)

	reviewRepo.On("CountForRecipient", mock.Anything, 2).Return(1, nil).Once()
	reviewRepo.On("ListForRecipient", mock.Anything, 2, 1, 10).Return([]models.Review{
		{ID: 9, ReviewerID: 1, RecipientID: 2, ProductID: sql.NullInt64{Int64: 4, Valid: true}, Rating: 5, Comment: "Great"},
	}, nil).Once()
	userRepo.On("ListByIDs", mock.Anything, []int{1}).Return([]models.User{{ID: 1, Name: "Alice"}}, nil).Once()
	productRepo.On("ListByIDs", mock.Anything, []int{4}).Return([]models.Product{{ID: 4, Title: "Calculus", Price: 25}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/reviews?userId=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp["total"])

	reviews := resp["reviews"].([]any)
	require.Len(t, reviews, 1)
	review := reviews[0].(map[string]any)
	assert.Equal(t, "Alice", review["reviewer"].(map[string]any)["name"])
	assert.Equal(t, "Calculus", review["product"].(map[string]any)["title"])

	reviewRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestListReviewsInvalidUserID(t *testing.T) {
	handler := NewReviewHandler(new(mocks.ReviewRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.ProductRepositoryMock), nil)
	router := setupReviewRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/reviews?userId=nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

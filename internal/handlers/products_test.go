package handlers

import (
	"bytes"
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
	"exchange-campus/internal/repositories"
)

func setupProductRouter(handler *ProductHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/products", handler.List)
	r.POST("/products", handler.Create)
	r.GET("/products/:id", handler.Get)
	r.PUT("/products/:id", handler.Update)
	r.DELETE("/products/:id", handler.Delete)
	return r
}

func TestListProductsSuccess(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewProductHandler(productRepo, userRepo, nil)
	router := setupProductRouter(handler)

	productRepo.On("List", mock.Anything, repositories.ProductFilter{
		Category: "textbooks", SortBy: "createdAt", SortOrder: "desc", Page: 1, Limit: 10,
	}).Return([]models.Product{{ID: 3, Title: "Calculus", SellerID: 2}}, 1, nil).Once()
	userRepo.On("ListByIDs", mock.Anything, []int{2}).Return([]models.User{{ID: 2, Name: "Bob"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/products?category=textbooks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp["total"])

	products := resp["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Bob", products[0].(map[string]any)["seller"].(map[string]any)["name"])

	productRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCreateProductSuccess(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewProductHandler(productRepo, new(mocks.UserRepositoryMock), nil)
	router := setupProductRouter(handler)

	productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Title == "Calculus" && p.SellerID == 1 && p.Condition == models.ConditionGood
	})).Return(models.Product{ID: 10, Title: "Calculus", SellerID: 1}, nil).Once()

	body := bytes.NewBufferString(`{"title":"Calculus","description":"Barely used","price":25,"category":"textbooks","condition":"good","university":"State"}`)
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	productRepo.AssertExpectations(t)
}

func TestCreateProductMissingFields(t *testing.T) {
	handler := NewProductHandler(new(mocks.ProductRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupProductRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(`{"title":"Calculus"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductInvalidCondition(t *testing.T) {
	handler := NewProductHandler(new(mocks.ProductRepositoryMock), new(mocks.UserRepositoryMock), nil)
	router := setupProductRouter(handler)

	body := bytes.NewBufferString(`{"title":"Calculus","description":"x","price":25,"category":"textbooks","condition":"mint","university":"State"}`)
	req := httptest.NewRequest(http.MethodPost, "/products", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductNotFound(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewProductHandler(productRepo, new(mocks.UserRepositoryMock), nil)
	router := setupProductRouter(handler)

	productRepo.On("Get", mock.Anything, 99).Return(models.Product{}, repositories.ErrProductNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/products/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	productRepo.AssertExpectations(t)
}

func TestUpdateProductNotSeller(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewProductHandler(productRepo, new(mocks.UserRepositoryMock), nil)
	router := setupProductRouter(handler)

	productRepo.On("Get", mock.Anything, 5).Return(models.Product{ID: 5, SellerID: 2}, nil).Once()

	body := bytes.NewBufferString(`{"title":"Calculus","description":"x","price":25,"category":"textbooks","condition":"good"}`)
	req := httptest.NewRequest(http.MethodPut, "/products/5", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	productRepo.AssertExpectations(t)
}

func TestDeleteProductSuccess(t *testing.T) {
	productRepo := new(mocks.ProductRepositoryMock)
	handler := NewProductHandler(productRepo, new(mocks.UserRepositoryMock), nil)
	router := setupProductRouter(handler)

	productRepo.On("Get", mock.Anything, 5).Return(models.Product{ID: 5, SellerID: 1}, nil).Once()
	productRepo.On("Delete", mock.Anything, 5).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/products/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	productRepo.AssertExpectations(t)
}

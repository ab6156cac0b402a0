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
	"golang.org/x/crypto/bcrypt"

	"exchange-campus/internal/auth"
	"exchange-campus/internal/mocks"
	"exchange-campus/internal/models"
	"exchange-campus/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/users/me", func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	}, handler.Me)
	return r
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("Create", mock.Anything, "Alice", "alice@state.edu", mock.Anything, "State", true).
		Return(models.User{ID: 1, Name: "Alice", Email: "alice@state.edu", University: "State", IsVerified: true}, nil).Once()

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@state.edu","password":"secret123","university":"State"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Registration successful", resp["message"])
	assert.Equal(t, true, resp["user"].(map[string]any)["isVerified"])

	userRepo.AssertExpectations(t)
}

func TestRegisterMissingFields(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), nil)
	router := setupAuthRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"name":"Alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("Create", mock.Anything, "Alice", "alice@mail.com", mock.Anything, "State", false).
		Return(models.User{}, repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"name":"Alice","email":"alice@mail.com","password":"secret123","university":"State"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@state.edu").
		Return(models.User{ID: 42, Email: "alice@state.edu", PasswordHash: string(hash)}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@state.edu","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	token, ok := resp["token"].(string)
	require.True(t, ok)
	userID, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	userRepo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "alice@state.edu").
		Return(models.User{ID: 42, PasswordHash: string(hash)}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@state.edu","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "ghost@mail.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@mail.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestMeSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Name: "Alice"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

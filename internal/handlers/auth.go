package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"exchange-campus/internal/auth"
	"exchange-campus/internal/observability"
	"exchange-campus/internal/repositories"
	"exchange-campus/internal/telemetry"
)

// AuthHandler manages registration, login and profile lookup.
type AuthHandler struct {
	userRepo repositories.UserRepository
	emitter  *telemetry.EventEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, emitter *telemetry.EventEmitter) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, emitter: emitter}
}

// Register creates a new account. Accounts with a university-looking e-mail
// address are verified immediately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		University string `json:"university"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" || req.University == "" {
		fail(c, http.StatusBadRequest, "Please fill in all required fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	user, err := h.userRepo.Create(c.Request.Context(), req.Name, req.Email, string(hash), req.University, isUniversityEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			fail(c, http.StatusConflict, "User with this email already exists")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	h.emitter.Emit(c.Request.Context(), telemetry.KeyUserRegistered, gin.H{
		"userId":     user.ID,
		"university": user.University,
		"verified":   user.IsVerified,
		"clientIp":   observability.IPFromRequest(c.Request),
	}, requestIDFromContext(c), &user.ID)

	respond(c, http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user,
	})
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt("userID")

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{"user": user})
}

func isUniversityEmail(email string) bool {
	lowered := strings.ToLower(email)
	return strings.HasSuffix(lowered, ".edu") || strings.Contains(lowered, "university") || strings.Contains(lowered, "uni")
}

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carpool/internal/auth"
	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/http/middleware"
	"carpool/internal/repositories"
	"carpool/internal/validate"
)

type AuthHandler struct {
	Users    repositories.UserRepository
	Profiles repositories.ProfileRepository
	Sessions auth.Service
	Logger   *slog.Logger

	// AvatarCleanup deletes an uploaded avatar when registration fails after
	// the upload already happened. Best-effort: failures are logged and the
	// orphan is left to the storage provider's lifecycle rules.
	AvatarCleanup func(url string) error

	CookieMaxAge int
}

type registerRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Phone     string `json:"phone" validate:"max=32"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondDomainError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		h.cleanupAvatar(req.AvatarURL)
		respondDomainError(c, err)
		return
	}

	if err := h.Profiles.Ensure(c.Request.Context(), user.ID, user.Name); err != nil {
		// account exists; the booking path will retry profile creation
		h.Logger.Warn("profile creation deferred", "user_id", user.ID, "error", err)
	}
	if req.Phone != "" || req.AvatarURL != "" {
		upd := models.ProfileUpdate{}
		if req.Phone != "" {
			upd.Phone = &req.Phone
		}
		if req.AvatarURL != "" {
			upd.AvatarURL = &req.AvatarURL
		}
		if err := h.Profiles.Update(c.Request.Context(), user.ID, upd); err != nil {
			h.Logger.Warn("profile enrich failed", "user_id", user.ID, "error", err)
		}
	}

	h.issueSession(c, user)
	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondDomainError(c, err)
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "email or password is wrong")
			return
		}
		respondDomainError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "email or password is wrong")
		return
	}
	if user.Status != models.UserStatusActive {
		respondError(c, http.StatusUnauthorized, "account_disabled", "account is disabled")
		return
	}

	token := h.issueSession(c, user)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

// POST /api/auth/logout
func (h AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h AuthHandler) issueSession(c *gin.Context, user models.User) string {
	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		h.Logger.Error("token issue failed", "user_id", user.ID, "error", err)
		return ""
	}
	c.SetCookie(middleware.SessionCookie, token, h.CookieMaxAge, "/", "", false, true)
	return token
}

func (h AuthHandler) cleanupAvatar(url string) {
	if url == "" || h.AvatarCleanup == nil {
		return
	}
	go func() {
		if err := h.AvatarCleanup(url); err != nil {
			h.Logger.Warn("orphaned avatar cleanup failed", "url", url, "error", err)
		}
	}()
}

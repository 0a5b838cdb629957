package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wekesa360/todohub/internal/auth"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/domain/user"
	"github.com/wekesa360/todohub/internal/security"
)

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}

type AuthHandler struct {
	users UserStore
	jwt   *auth.Manager
	cfg   config.Config
}

func NewAuthHandler(users UserStore, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		cfg:   cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user. Registration is atomic: hash, insert, done;
// a duplicate username is a conflict, never an overwrite.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// Hashing is CPU-bound and can take a noticeable slice of time, so
	// the store deadline starts after it.
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	role := req.Role

	if role == "" {
		role = user.RoleUser
	}

	now := time.Now().UTC()

	u, err := h.users.Create(cctx, user.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
		PhoneNumber:    req.PhoneNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	})

	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			RespondConflict(ctx, "username_taken", "Username is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

// Login verifies credentials and mints an access token. Identity is
// reconstructed from that token on every later request; there is no
// server-side session.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)
	if err != nil {
		// Only an unknown username is a credential failure; a store
		// outage must not masquerade as one.
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not verify credentials")
		return
	}

	if !foundUser.IsActive || !security.VerifyPassword(foundUser.HashedPassword, req.Password) {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.Username, foundUser.ID, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.setAccessCookie(ctx, accessToken)

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

// setAccessCookie mirrors the token into a cookie for page flows; API
// clients keep using the Authorization header.
func (h *AuthHandler) setAccessCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		"access_token",
		token,
		int(h.cfg.AccessTTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

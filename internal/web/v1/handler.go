package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/screenhub/auth-service/internal/core/domain"
	logicv1 "github.com/screenhub/auth-service/internal/logic/v1"
	"github.com/screenhub/auth-service/middleware"
)

// Handler groups HTTP handlers for the auth API.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth *logicv1.AuthService
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService) *Handler {
	return &Handler{auth: auth}
}

// RegisterRoutes registers the auth API routes on the given router group.
// The profile endpoint is guarded by the bearer-token middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tokens middleware.TokenVerifier) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/profile", middleware.AuthMiddleware(tokens), h.Profile)
	rg.GET("/test-db", h.TestDB)
}

// Register handles HTTP request for user registration.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.register", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Error().Err(err).Msg("Invalid registration request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "All required fields must be filled"})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	response, err := h.auth.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Str("username", req.Username).Msg("Registration failed")

		switch {
		case errors.Is(err, logicv1.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All required fields must be filled"})
		case errors.Is(err, logicv1.ErrUserExists):
			// One fixed message for all three keys; the response must not
			// reveal which one collided.
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID, username, or email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	logger.Info().Str("user_id", response.User.UserID).Msg("Registration successful")
	c.JSON(http.StatusCreated, response)
}

// Login handles HTTP request for user login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Error().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	response, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Login failed")

		switch {
		case errors.Is(err, logicv1.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	logger.Info().Str("user_id", response.User.UserID).Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// Profile handles HTTP request for the current user's profile. The identity
// comes from the claims verified by AuthMiddleware.
func (h *Handler) Profile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.profile", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		// Route misconfiguration: the middleware did not run.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}

	response, err := h.auth.GetProfile(ctx, claims)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Str("username", claims.Username).Msg("Profile fetch failed")

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// TestDB handles the database connectivity probe.
func (h *Handler) TestDB(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.test_db", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	if err := h.auth.TestDB(ctx); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Database probe failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database connection successful"})
}

package handler

import (
	"errors"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mock_backend/internal/model"
	"mock_backend/internal/service"
)

const loginRoute = "/auth/login"

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: s, logger: logger}
}

// Login checks phone and password against the users collection. The body is
// not validated: anything unparseable or missing fails to match and yields 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var body model.Record
	if raw, err := c.GetRawData(); err == nil {
		body, _ = model.DecodeRecord(raw)
	}

	creds := model.Credentials{
		Phone:    body[model.PhoneField],
		Password: body[model.PasswordField],
	}

	resp, err := h.service.Login(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.logger.Error("error during login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LoginPath is the full path of the login route under the given API prefix
func LoginPath(apiPrefix string) string {
	return path.Join("/", apiPrefix, loginRoute)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

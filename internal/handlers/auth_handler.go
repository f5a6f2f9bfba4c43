package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	responder
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{
		responder:   responder{production: production},
		authService: authService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Google handles POST /auth/google with an access token or authorization code
func (h *AuthHandler) Google(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.authService.GoogleSignIn(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleCallback handles GET /auth/google/callback. Without a code it redirects
// to the consent page; with one it completes the sign-in.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		url, err := h.authService.GoogleAuthURL(uuid.NewString())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	}

	resp, err := h.authService.GoogleSignIn(c.Request.Context(), &models.GoogleAuthRequest{Code: code})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

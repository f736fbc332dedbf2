package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/identity"
	"github.com/societyhub/backend/internal/interfaces/http/middleware"
)

// LoginRequest authenticates a society user
type LoginRequest struct {
	SocietyCode string `json:"society_code" binding:"required,society_code"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
}

// SuperLoginRequest authenticates a platform operator
type SuperLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           login
// @Summary      Society user login
// @Description  Authenticate a resident or admin against their society store
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		SocietyCode: req.SocietyCode,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SuperLogin godoc
// @ID           superLogin
// @Summary      Platform operator login
// @Description  Authenticate a super user against the master registry
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SuperLoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/super/login [post]
func (h *AuthHandler) SuperLogin(c *gin.Context) {
	var req SuperLoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.authService.SuperLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me godoc
// @ID           me
// @Summary      Current user
// @Description  Return the caller's claims. Society users also get the flat resolved from their profile.
// @Tags         auth
// @Produce      json
// @Param        X-Society-ID header string false "Society id or code, used when the token carries none"
// @Success      200 {object} dto.Response{data=identity.CurrentUser}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	actor, _ := middleware.GetActor(c)
	me, err := h.authService.Me(claims, actor.FlatID)
	if err != nil {
		h.Unauthorized(c, "Invalid token")
		return
	}
	h.Success(c, me)
}

// Logout godoc
// @ID           logout
// @Summary      Logout
// @Description  Revoke the presented token
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles signup, login and session lookups.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserSvcFacade) *authHandler {
	return &authHandler{authService: as, userService: us}
}

// registerAuthRoutes sets up the routes for authentication.
// Credential endpoints share one per-IP limiter.
func registerAuthRoutes(api *gin.RouterGroup, services *portssvc.ServiceContainer, authenticated gin.HandlerFunc, authLimiter *limiter.Limiter) {
	h := newAuthHandler(services.Auth, services.User)
	admin := newAdminHandler(services.User)
	limited := middleware.RateLimit(authLimiter)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", limited, h.signup)
		auth.POST("/login", limited, h.login)
		auth.POST("/google", limited, h.loginWithGoogle)
		auth.GET("/me", authenticated, h.me)
		auth.POST("/signup-employee", authenticated, middleware.RequireCapability(domain.CapManageUsers), admin.createUser)
	}
}

func toAuthResponse(res *portssvc.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:      dto.ToUserResponse(res.User),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Company:   dto.ToCompanyResponse(res.Company),
	}
}

// signup godoc
// @Summary Sign up a company
// @Description Creates a company and its first ADMIN user, then returns a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   signup body dto.SignupRequest true "Company and admin details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input, duplicate company or duplicate user"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (h *authHandler) signup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.authService.SignupCompany(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Company signed up", slog.String("company_id", res.Company.CompanyID), slog.String("user_id", res.User.UserID))
	c.JSON(http.StatusCreated, toAuthResponse(res))
}

// login godoc
// @Summary Log in
// @Description Verifies email and password and returns a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Invalid email or password"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(res))
}

// loginWithGoogle godoc
// @Summary Log in with Google
// @Description Signs in an existing user whose verified Google email matches
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   token body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input or Google sign-in disabled"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/google [post]
func (h *authHandler) loginWithGoogle(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.authService.LoginWithGoogle(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(res))
}

// me godoc
// @Summary Current user
// @Description Returns the profile of the authenticated user
// @Tags auth
// @Produce  json
// @Success 200 {object} dto.UserEnvelope
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{User: dto.ToUserResponse(user)})
}

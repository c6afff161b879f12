package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler handles company user management.
type adminHandler struct {
	userService portssvc.UserSvcFacade
}

func newAdminHandler(us portssvc.UserSvcFacade) *adminHandler {
	return &adminHandler{userService: us}
}

// registerAdminRoutes registers the user management routes. The group is
// already restricted to roles that may manage users.
func registerAdminRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newAdminHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.PUT("/assign-manager", h.assignManager)
	}
}

// listUsers godoc
// @Summary List company users
// @Description Lists every user of the caller's company, newest first
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *adminHandler) listUsers(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Users: dto.ToUserResponses(users)})
}

// createUser godoc
// @Summary Create a user
// @Description Adds a MANAGER or EMPLOYEE to the caller's company, optionally with a manager
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserEnvelope
// @Failure 400 {object} ErrorResponse "Invalid input, duplicate user or invalid manager"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /admin/users [post]
func (h *adminHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.CreateSubordinateUser(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("User created", slog.String("new_user_id", user.UserID), slog.String("new_user_role", string(user.Role)))
	c.JSON(http.StatusCreated, dto.UserEnvelope{User: dto.ToUserResponse(user)})
}

// assignManager godoc
// @Summary Assign a manager
// @Description Sets or clears (managerId null) the manager of an employee. employeeId is accepted as an alias of userId.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   assignment body dto.AssignManagerRequest true "Employee and manager"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} ErrorResponse "Invalid input or invalid manager"
// @Failure 404 {object} ErrorResponse "Employee not found"
// @Security BearerAuth
// @Router /admin/users/assign-manager [put]
func (h *adminHandler) assignManager(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AssignManager(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserEnvelope{User: dto.ToUserResponse(user)})
}

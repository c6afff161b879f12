package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// managerHandler serves the approval queue and the reviewer's team.
type managerHandler struct {
	approvalService portssvc.ApprovalSvcFacade
	userService     portssvc.UserSvcFacade
}

func newManagerHandler(as portssvc.ApprovalSvcFacade, us portssvc.UserSvcFacade) *managerHandler {
	return &managerHandler{approvalService: as, userService: us}
}

func registerManagerRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade, userService portssvc.UserSvcFacade) {
	h := newManagerHandler(approvalService, userService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("", h.listQueue)
		approvals.PUT("/:expenseId", h.decide)
	}
	rg.GET("/employees", h.listEmployees)
}

// listQueue godoc
// @Summary Approval queue
// @Description Lists expenses waiting on the caller's decision, newest first
// @Tags manager
// @Produce  json
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /manager/approvals [get]
func (h *managerHandler) listQueue(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	expenses, err := h.approvalService.ListQueue(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses))
}

// decide godoc
// @Summary Decide on an expense
// @Description Approves or rejects an expense assigned to the caller. A decision is final.
// @Tags manager
// @Accept  json
// @Produce  json
// @Param   expenseId path string true "Expense ID"
// @Param   decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.ExpenseEnvelope
// @Failure 400 {object} ErrorResponse "Invalid decision or already decided"
// @Failure 404 {object} ErrorResponse "Expense not found or not assigned to the caller"
// @Failure 409 {object} ErrorResponse "Expense changed concurrently"
// @Security BearerAuth
// @Router /manager/approvals/{expenseId} [put]
func (h *managerHandler) decide(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	expenseID := c.Param("expenseId")
	expense, err := h.approvalService.Decide(c.Request.Context(), actor, expenseID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Expense decided", slog.String("expense_id", expenseID), slog.String("status", string(expense.Status)))
	c.JSON(http.StatusOK, dto.ExpenseEnvelope{Expense: dto.ToExpenseResponse(expense)})
}

// listEmployees godoc
// @Summary List employees
// @Description Managers see their direct reports, admins every employee of the company
// @Tags manager
// @Produce  json
// @Success 200 {object} dto.ListEmployeesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /manager/employees [get]
func (h *managerHandler) listEmployees(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	employees, err := h.userService.ListEmployees(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListEmployeesResponse{Employees: dto.ToUserResponses(employees)})
}

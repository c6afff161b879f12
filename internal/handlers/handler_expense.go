package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const receiptFormField = "receipt"

// multipartOverhead is the allowance for form fields and part headers on top of the receipt itself.
const multipartOverhead = 1 << 20

// expenseHandler handles expense submission and reads.
type expenseHandler struct {
	expenseService  portssvc.ExpenseSvcFacade
	receiptMaxBytes int64
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade, receiptMaxBytes int64) *expenseHandler {
	return &expenseHandler{expenseService: es, receiptMaxBytes: receiptMaxBytes}
}

func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade, receiptMaxBytes int64) {
	h := newExpenseHandler(expenseService, receiptMaxBytes)

	rg.POST("", middleware.RequireCapability(domain.CapSubmitExpenses), h.submitExpense)
	rg.GET("/my-expenses", middleware.RequireCapability(domain.CapSubmitExpenses), h.listMyExpenses)
	rg.GET("/receipt/:expenseId", h.getReceipt)
	rg.GET("/:expenseId", h.getExpense)
}

// submitExpense godoc
// @Summary Submit an expense
// @Description Creates a PENDING expense. Send multipart/form-data with an optional "receipt" file, or a receiptUrl, never both.
// @Tags expenses
// @Accept  multipart/form-data
// @Produce  json
// @Param   amount formData string true "Amount"
// @Param   description formData string false "Description"
// @Param   category formData string false "Category"
// @Param   date formData string false "Expense date (YYYY-MM-DD or RFC 3339)"
// @Param   receiptUrl formData string false "External receipt URL"
// @Param   receipt formData file false "Receipt file (image or PDF)"
// @Success 201 {object} dto.ExpenseEnvelope
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.receiptMaxBytes+multipartOverhead)

	var req dto.CreateExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	receipt, err := h.readReceiptFile(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), actor, req, receipt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ExpenseEnvelope{Expense: dto.ToExpenseResponse(expense)})
}

// readReceiptFile returns the uploaded receipt, or nil when the request carries none.
func (h *expenseHandler) readReceiptFile(c *gin.Context) (domain.Receipt, error) {
	fileHeader, err := c.FormFile(receiptFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.NewValidationFailedError("could not read receipt upload")
	}
	if fileHeader.Size > h.receiptMaxBytes {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("receipt exceeds the maximum size of %d bytes", h.receiptMaxBytes))
	}

	data, err := readUpload(fileHeader, h.receiptMaxBytes)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationFailedError("receipt file is empty")
	}

	detected := mimetype.Detect(data)
	if !isAllowedReceiptType(detected) {
		return nil, apperrors.NewValidationFailedError("receipt must be an image or a PDF, got " + detected.String())
	}

	mimeType, _, _ := mime.ParseMediaType(detected.String())
	return domain.StoredReceipt{
		Filename: sanitizeFilename(fileHeader.Filename, detected.Extension()),
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

func readUpload(fileHeader *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationFailedError("could not read receipt upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, apperrors.NewValidationFailedError("could not read receipt upload")
	}
	if int64(len(data)) > maxBytes {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("receipt exceeds the maximum size of %d bytes", maxBytes))
	}
	return data, nil
}

func isAllowedReceiptType(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("application/pdf") || strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

// sanitizeFilename keeps the base name of an upload, falling back to "receipt" plus the detected extension.
func sanitizeFilename(name, ext string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' || r == 0x7f {
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == "/" {
		return "receipt" + ext
	}
	return base
}

// listMyExpenses godoc
// @Summary List my expenses
// @Description Lists the caller's expenses, newest first
// @Tags expenses
// @Produce  json
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /expenses/my-expenses [get]
func (h *expenseHandler) listMyExpenses(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.ListOwnExpenses(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses))
}

// getExpense godoc
// @Summary Get an expense
// @Description Returns an expense to its owner or to a reviewer of the same company
// @Tags expenses
// @Produce  json
// @Param   expenseId path string true "Expense ID"
// @Success 200 {object} dto.ExpenseEnvelope
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /expenses/{expenseId} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), actor, c.Param("expenseId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExpenseEnvelope{Expense: dto.ToExpenseResponse(expense)})
}

// getReceipt godoc
// @Summary Download a receipt
// @Description Streams the stored receipt file of an expense
// @Tags expenses
// @Produce  octet-stream
// @Param   expenseId path string true "Expense ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Expense or receipt not found"
// @Security BearerAuth
// @Router /expenses/receipt/{expenseId} [get]
func (h *expenseHandler) getReceipt(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	receipt, err := h.expenseService.FetchReceipt(c.Request.Context(), actor, c.Param("expenseId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	contentType := receipt.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": receipt.Filename}))
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, contentType, receipt.Data)
}

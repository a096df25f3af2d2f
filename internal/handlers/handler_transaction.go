package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/apperrors"
	portssvc "github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/ports/services"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/dto"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/middleware"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// transactionHandler handles HTTP requests for payment transactions.
type transactionHandler struct {
	paymentService portssvc.PaymentSvcFacade
	protector      portssvc.PIIProtector
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ps portssvc.PaymentSvcFacade, protector portssvc.PIIProtector) *transactionHandler {
	return &transactionHandler{
		paymentService: ps,
		protector:      protector,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ps portssvc.PaymentSvcFacade, protector portssvc.PIIProtector) {
	h := newTransactionHandler(ps, protector)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Submit a payment
// @Description Converts the amount to PKR, encrypts PII and records the transaction. Safe to retry with the same idempotency key.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Success 200 {object} dto.PaymentResponse "Idempotent replay of an earlier submission"
// @Failure 400 {object} map[string]interface{} "Validation failure, reported per field"
// @Failure 500 {object} map[string]string "Conversion misconfigured or internal error"
// @Failure 503 {object} map[string]string "Rate source unavailable"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Decode and validate in two steps so sanitization runs in between:
	// trimmable noise around a field must not fail its shape check.
	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	req.Sanitize()

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make(map[string]string, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields[fieldErr.Field()] = validationMessage(fieldErr)
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed. Please check your input.", "errors": fields})
			return
		}
		logger.Warn("Failed to validate payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	txn, created, err := h.paymentService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConversionConfig):
			logger.Error("Currency conversion misconfigured", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Currency conversion failed. Please try again later."})
		case errors.Is(err, apperrors.ErrConversionUpstream):
			logger.Error("Currency conversion upstream failure", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to connect to currency conversion service. Please try again later."})
		default:
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request."})
		}
		return
	}

	// A replayed idempotency key acknowledges the earlier write with 200
	// instead of 201.
	if !created {
		logger.Info("Transaction replayed", slog.String("transaction_id", txn.TransactionID))
		c.JSON(http.StatusOK, dto.ToPaymentResponse(txn))
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(txn))
}

// getTransaction godoc
// @Summary Look up a transaction
// @Description Returns the transaction when the supplied mobile number matches the one on record.
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   mobile query string true "Mobile number on record"
// @Success 200 {object} dto.TransactionLookupResponse
// @Failure 400 {object} map[string]string "Missing parameters"
// @Failure 403 {object} map[string]string "Mobile number does not match"
// @Failure 404 {object} map[string]string "No such transaction"
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	transactionID := utils.SanitizeString(c.Param("transactionID"))
	mobile := utils.SanitizeString(c.Query("mobile"))
	if transactionID == "" || mobile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transactionID and mobile are required."})
		return
	}

	txn, err := h.paymentService.LookupTransaction(c.Request.Context(), transactionID, mobile)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found."})
		case errors.Is(err, apperrors.ErrForbidden):
			// Generic body on purpose: the response must not reveal which
			// check failed. The transaction id is unguessable, so logging it
			// is safe.
			logger.Warn("Transaction lookup forbidden", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden."})
		default:
			logger.Error("Failed to look up transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request."})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionLookupResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Returns a page of non-deleted transactions, newest first. Mobile numbers are masked.
// @Tags transactions
// @Produce  json
// @Param   page query int false "Page number (default 1)"
// @Param   pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	items, total, err := h.paymentService.ListTransactions(c.Request.Context(), page, pageSize)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request."})
		return
	}

	if page < 1 {
		page = 1
	}
	resp := dto.ListTransactionsResponse{
		Items:    make([]dto.TransactionListItem, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, txn := range items {
		resp.Items = append(resp.Items, dto.TransactionListItem{
			TransactionID: txn.TransactionID,
			CreatedAt:     txn.CreatedAt,
			AmountPKR:     txn.AmountPKR,
			Email:         txn.Email,
			MobileNumber:  h.protector.Mask(txn.MobileNumber, 4),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// deleteTransaction godoc
// @Summary Soft-delete a transaction
// @Description Marks the transaction deleted; the record and its id remain reserved.
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]string "No such transaction"
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	transactionID := utils.SanitizeString(c.Param("transactionID"))
	if err := h.paymentService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found."})
			return
		}
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request."})
		return
	}
	c.Status(http.StatusNoContent)
}

// validationMessage renders a caller-facing message for one failed binding rule.
func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required."
	case "cnic":
		return "CNIC must be in format xxxxx-xxxxxxx-x."
	case "pkmobile":
		return "Mobile number must be 10 digits. International format: +92XXXXXXXXXX"
	case "email":
		return "Invalid email format."
	case "acctnum":
		return "Bank account number must be 8-24 digits."
	case "max":
		return "Idempotency key must be 128 characters or less."
	case "oneof":
		return "Currency must be PKR, USD, or AED."
	default:
		return "Invalid value."
	}
}

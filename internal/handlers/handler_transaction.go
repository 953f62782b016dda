package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackid/coa_backend/internal/core/ports/services"
	"github.com/fintrackid/coa_backend/internal/dto"
	"github.com/fintrackid/coa_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to postings.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to postings.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/stats", h.getTransactionStats)
		transactions.GET("/report", h.getTransactionReport)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

// bindListTransactionsFilter parses list query params into a repository filter.
func bindListTransactionsFilter(params dto.ListTransactionsParams) portsrepo.ListTransactionsFilter {
	filter := portsrepo.ListTransactionsFilter{
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.AccountID != "" {
		accountID := params.AccountID
		filter.AccountID = &accountID
	}
	if params.StartDate != "" {
		// Format already validated by binding.
		startDate, _ := time.Parse(dto.DateLayout, params.StartDate)
		filter.StartDate = &startDate
	}
	if params.EndDate != "" {
		endDate, _ := time.Parse(dto.DateLayout, params.EndDate)
		filter.EndDate = &endDate
	}
	if params.Type != "" {
		entryType := domain.TransactionType(params.Type)
		filter.EntryType = &entryType
	}
	return filter
}

// createTransaction posts a debit-or-credit entry against an active leaf account.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	newTxn, err := h.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Failed to create transaction", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(newTxn))
}

// getTransaction retrieves a single posting by ID.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions retrieves a filtered, paginated posting list.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.transactionService.ListTransactions(c.Request.Context(), bindListTransactionsFilter(params))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
}

// getTransactionStats totals the postings matching the filter, ignoring pagination.
func (h *transactionHandler) getTransactionStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetTransactionStats", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.transactionService.GetTransactionStats(c.Request.Context(), bindListTransactionsFilter(params))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getTransactionReport returns the filtered postings with their stats and
// the applied filters in one payload.
func (h *transactionHandler) getTransactionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetTransactionReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.transactionService.GetTransactionReport(c.Request.Context(), bindListTransactionsFilter(params))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionReportResponse(report, params))
}

// updateTransaction applies partial updates to a posting.
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updatedTxn, err := h.transactionService.UpdateTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		logger.Warn("Failed to update transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(updatedTxn))
}

// deleteTransaction soft-deletes a posting.
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		logger.Warn("Failed to delete transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

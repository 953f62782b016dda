package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fintrackid/coa_backend/internal/core/domain"
	portssvc "github.com/fintrackid/coa_backend/internal/core/ports/services"
	"github.com/fintrackid/coa_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// summaryHandler handles HTTP requests for derived balance reports.
type summaryHandler struct {
	summaryService portssvc.SummarySvcFacade
}

func newSummaryHandler(ss portssvc.SummarySvcFacade) *summaryHandler {
	return &summaryHandler{
		summaryService: ss,
	}
}

// registerSummaryRoutes registers routes for balance and summary reports.
func registerSummaryRoutes(rg *gin.RouterGroup, summaryService portssvc.SummarySvcFacade) {
	h := newSummaryHandler(summaryService)

	summary := rg.Group("/summary")
	{
		summary.GET("/accounts", h.getAccountSummaries)
		summary.GET("/accounts/:id", h.getAccountSummary)
		summary.GET("/financial", h.getFinancialSummary)
		summary.GET("/top-accounts", h.getTopAccounts)
	}
}

// getAccountSummaries returns recursive balance summaries for active accounts.
func (h *summaryHandler) getAccountSummaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter := portssvc.SummaryFilter{
		Search: c.Query("search"),
	}
	if typeParam := c.Query("type"); typeParam != "" {
		accountType := domain.AccountType(typeParam)
		if !accountType.IsValid() {
			logger.Warn("Invalid account type for summaries", slog.String("type", typeParam))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account type: " + typeParam})
			return
		}
		filter.AccountType = &accountType
	}

	summaries, err := h.summaryService.GetAccountSummaries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

// getAccountSummary returns the recursive balance summary for one account.
func (h *summaryHandler) getAccountSummary(c *gin.Context) {
	summary, err := h.summaryService.GetAccountSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getFinancialSummary returns per-type totals and net income.
func (h *summaryHandler) getFinancialSummary(c *gin.Context) {
	summary, err := h.summaryService.GetFinancialSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getTopAccounts returns the highest own-balance active accounts.
func (h *summaryHandler) getTopAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 1 || parsed > 100 {
			logger.Warn("Invalid limit for top accounts", slog.String("limit", limitParam))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + limitParam})
			return
		}
		limit = parsed
	}

	accounts, err := h.summaryService.GetTopAccountsByBalance(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

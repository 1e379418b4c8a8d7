package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/service"
)

// SplitHandler exposes the bill-split flow for a placed order.
type SplitHandler struct {
	splitService *service.SplitService
	logger       *zap.Logger
}

func NewSplitHandler(splitService *service.SplitService, logger *zap.Logger) *SplitHandler {
	return &SplitHandler{
		splitService: splitService,
		logger:       logger,
	}
}

// Units returns the order's claimable units together with the claims
// already on the ledger, so a joining guest sees what is left.
func (h *SplitHandler) Units(c *gin.Context) {
	units, claims, err := h.splitService.Units(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units":  units,
		"claims": claims,
	})
}

type quoteRequest struct {
	UnitIDs []string `json:"unit_ids" binding:"required"`
}

// Quote prices a prospective selection without claiming anything.
func (h *SplitHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	share, err := h.splitService.Quote(c.Request.Context(), c.Param("number"), req.UnitIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, share)
}

type settleRequest struct {
	ClaimantID string   `json:"claimant_id" binding:"required"`
	UnitIDs    []string `json:"unit_ids" binding:"required"`
}

// Settle claims the selected units for the claimant and records the
// share. A lost claim race comes back as 409 with nothing held.
func (h *SplitHandler) Settle(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	settlement, err := h.splitService.Settle(c.Request.Context(), c.Param("number"), req.ClaimantID, req.UnitIDs)
	if err != nil {
		h.logger.Error("Failed to settle share",
			zap.String("order_number", c.Param("number")),
			zap.String("claimant_id", req.ClaimantID),
			zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, settlement)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/cart"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/pricing"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/repository"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/service"
)

// CartHandler exposes the cart engine over HTTP. The dining session is
// identified by the X-Session-ID header; one session owns one draft.
type CartHandler struct {
	carts   *cart.Manager
	catalog service.CatalogRepository
	logger  *zap.Logger
}

func NewCartHandler(carts *cart.Manager, catalog service.CatalogRepository, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

func (h *CartHandler) store(c *gin.Context) (*cart.Store, string, bool) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return nil, "", false
	}

	store, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return nil, "", false
	}
	return store, sessionID, true
}

type initializeRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required"`
	TableNumber  int    `json:"table_number" binding:"required"`
}

func (h *CartHandler) Initialize(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	store.Initialize(c.Request.Context(), req.RestaurantID, req.TableNumber)
	h.snapshot(c, store)
}

type addItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	draft := store.Draft()
	if draft.RestaurantID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrCartUnbound.Error()})
		return
	}

	item, err := h.catalog.GetMenuItem(c.Request.Context(), draft.RestaurantID, req.MenuItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !item.Available {
		c.JSON(http.StatusConflict, gin.H{"error": "menu item is not available"})
		return
	}

	line, err := store.AddItem(c.Request.Context(), cart.AddItemInput{
		MenuItemID:  item.MenuItemID,
		DisplayName: item.DisplayName,
		UnitPrice:   item.UnitPrice,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, line)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	store.UpdateQuantity(c.Request.Context(), c.Param("lineId"), req.Quantity)
	h.snapshot(c, store)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	store.RemoveItem(c.Request.Context(), c.Param("lineId"))
	h.snapshot(c, store)
}

type setTipRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *CartHandler) SetTip(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	var req setTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	if err := store.SetTip(c.Request.Context(), req.Amount); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, store)
}

type setOrderTypeRequest struct {
	OrderType domain.OrderType `json:"order_type" binding:"required"`
}

func (h *CartHandler) SetOrderType(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	var req setOrderTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	if err := store.SetOrderType(c.Request.Context(), req.OrderType); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, store)
}

type setInstructionsRequest struct {
	Text string `json:"text"`
}

func (h *CartHandler) SetSpecialInstructions(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	var req setInstructionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	store.SetSpecialInstructions(c.Request.Context(), req.Text)
	h.snapshot(c, store)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}
	h.snapshot(c, store)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	store, _, ok := h.store(c)
	if !ok {
		return
	}

	store.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// snapshot responds with the priced read model at the bound restaurant's
// tax rate. An unbound cart falls back to the default rate.
func (h *CartHandler) snapshot(c *gin.Context, store *cart.Store) {
	taxRate := taxRateFor(c, h.catalog, store.Draft().RestaurantID)
	c.JSON(http.StatusOK, store.Snapshot(taxRate))
}

func taxRateFor(c *gin.Context, catalog service.CatalogRepository, restaurantID string) decimal.Decimal {
	if restaurantID != "" {
		if restaurant, err := catalog.GetRestaurant(c.Request.Context(), restaurantID); err == nil {
			return restaurant.TaxRate
		}
	}
	return pricing.DefaultTaxRate
}

// respondError maps engine errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidTip),
		errors.Is(err, domain.ErrInvalidOrderType),
		errors.Is(err, domain.ErrNoUnitsSelected),
		errors.Is(err, domain.ErrUnknownUnit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrCartUnbound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnitAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrRestaurantNotFound),
		errors.Is(err, repository.ErrMenuItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

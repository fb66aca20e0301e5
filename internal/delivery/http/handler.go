package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omiri/backend/internal/domain"
	"github.com/omiri/backend/internal/scheduler"
	log "github.com/sirupsen/logrus"
)

// Version is reported by the health check and tagged on error reports
const Version = "1.0.0"

// ShoppingListManager reads and edits the user's shopping list preferences
type ShoppingListManager interface {
	State(ctx context.Context) (*domain.ShoppingListState, error)
	SaveItems(ctx context.Context, items []string) ([]string, error)
	SaveItemsFromText(ctx context.Context, text string) ([]string, error)
	SetCountry(ctx context.Context, country string) (string, error)
	SetSelectedStores(ctx context.Context, storeIDs []string) ([]string, error)
	SetAppForeground(ctx context.Context, foreground bool) error
}

// StoreProvider lists the stores of a country
type StoreProvider interface {
	Stores(ctx context.Context, country string) ([]domain.StoreRecord, error)
}

// Reconciler triggers reconciliation runs and reports the last one
type Reconciler interface {
	TriggerNow(ctx context.Context) (domain.TaskOutcome, error)
	LastRun() (scheduler.RunSnapshot, bool)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	shopping   ShoppingListManager
	stores     StoreProvider
	reconciler Reconciler
}

// NewHandler creates a new HTTP handler. Nil dependencies make their
// endpoints answer 501.
func NewHandler(shopping ShoppingListManager, stores StoreProvider, reconciler Reconciler) *Handler {
	return &Handler{
		shopping:   shopping,
		stores:     stores,
		reconciler: reconciler,
	}
}

// SaveItemsRequest carries either an item list or free text
type SaveItemsRequest struct {
	Items []string `json:"items"`
	Text  *string  `json:"text"`
}

// SetCountryRequest selects the country
type SetCountryRequest struct {
	Country string `json:"country" binding:"required"`
}

// SetStoresRequest selects the stores to filter deals by
type SetStoresRequest struct {
	StoreIDs []string `json:"storeIds" binding:"required"`
}

// SetForegroundRequest reports app visibility
type SetForegroundRequest struct {
	Foreground *bool `json:"foreground" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "omiri-backend",
		"version": Version,
	})
}

// GetShoppingList returns the current shopping list state
func (h *Handler) GetShoppingList(c *gin.Context) {
	if h.shopping == nil {
		notConfigured(c, "Shopping list")
		return
	}

	state, err := h.shopping.State(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SaveItems replaces the shopping list items
func (h *Handler) SaveItems(c *gin.Context) {
	if h.shopping == nil {
		notConfigured(c, "Shopping list")
		return
	}

	var req SaveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var (
		items []string
		err   error
	)
	switch {
	case req.Items != nil:
		items, err = h.shopping.SaveItems(c.Request.Context(), req.Items)
	case req.Text != nil:
		items, err = h.shopping.SaveItemsFromText(c.Request.Context(), *req.Text)
	default:
		badRequest(c, "Either items or text is required")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SetCountry updates the selected country
func (h *Handler) SetCountry(c *gin.Context) {
	if h.shopping == nil {
		notConfigured(c, "Preferences")
		return
	}

	var req SetCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	country, err := h.shopping.SetCountry(c.Request.Context(), req.Country)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"country": country})
}

// SetStores updates the selected store IDs
func (h *Handler) SetStores(c *gin.Context) {
	if h.shopping == nil {
		notConfigured(c, "Preferences")
		return
	}

	var req SetStoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	storeIDs, err := h.shopping.SetSelectedStores(c.Request.Context(), req.StoreIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"storeIds": storeIDs})
}

// SetForeground records whether the app is in the foreground
func (h *Handler) SetForeground(c *gin.Context) {
	if h.shopping == nil {
		notConfigured(c, "Preferences")
		return
	}

	var req SetForegroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.shopping.SetAppForeground(c.Request.Context(), *req.Foreground); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"foreground": *req.Foreground})
}

// ListStores returns the stores available in a country
func (h *Handler) ListStores(c *gin.Context) {
	if h.stores == nil {
		notConfigured(c, "Store catalog")
		return
	}

	stores, err := h.stores.Stores(c.Request.Context(), c.Query("country"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores, "count": len(stores)})
}

// Reconcile runs the reconciliation task immediately
func (h *Handler) Reconcile(c *gin.Context) {
	if h.reconciler == nil {
		notConfigured(c, "Reconciliation")
		return
	}

	outcome, err := h.reconciler.TriggerNow(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ReconcileStatus returns the last reconciliation run
func (h *Handler) ReconcileStatus(c *gin.Context) {
	if h.reconciler == nil {
		notConfigured(c, "Reconciliation")
		return
	}

	snapshot, ok := h.reconciler.LastRun()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reconciliation run yet"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRunInProgress):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrStoreLookupFailure):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"component": "http",
			"path":      c.FullPath(),
		}).Errorf("Request failed: %v", err)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func notConfigured(c *gin.Context, feature string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": feature + " is not configured"})
}

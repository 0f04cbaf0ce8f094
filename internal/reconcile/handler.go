package reconcile

import (
	"errors"
	"net/http"
	"strconv"

	"basho/internal/api"
	"basho/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListOpenItems godoc
// @Summary      List open reconciliation items
// @Description  Payments that need manual action, e.g. a refund for a booking whose slot filled up after payment.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Item
// @Failure      500  {object}  api.ErrorResponse
// @Router       /admin/reconciliations [get]
func (h *Handler) ListOpenItems(c *gin.Context) {
	items, err := h.repo.ListOpen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch reconciliation items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// ResolveItem godoc
// @Summary      Resolve reconciliation item
// @Description  Marks an item as handled after the operator has issued the refund or otherwise resolved it.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        itemID  path      int  true  "Reconciliation item ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      400     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /admin/reconciliations/{itemID}/resolve [post]
func (h *Handler) ResolveItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	if err := h.repo.Resolve(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Reconciliation item not found or already resolved"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to resolve item"})
		return
	}

	if open, err := h.repo.CountOpen(c.Request.Context()); err == nil {
		metrics.OpenReconciliations.Set(float64(open))
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Reconciliation item resolved"})
}

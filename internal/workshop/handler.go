package workshop

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"basho/internal/api"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListWorkshops godoc
// @Summary      List workshops
// @Description  Returns all workshops with per-slot availability.
// @Tags         workshops
// @Produce      json
// @Success      200  {array}   WorkshopWithSlots
// @Failure      500  {object}  api.ErrorResponse
// @Router       /workshops [get]
func (h *Handler) ListWorkshops(c *gin.Context) {
	workshops, err := h.repo.GetAllWorkshops(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch workshops"})
		return
	}

	result := make([]WorkshopWithSlots, 0, len(workshops))
	for _, w := range workshops {
		slots, err := h.repo.GetTimeSlotsByWorkshop(c.Request.Context(), w.ID, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch time slots"})
			return
		}
		result = append(result, WorkshopWithSlots{Workshop: w, Slots: withAvailability(slots)})
	}

	c.JSON(http.StatusOK, result)
}

// GetWorkshop godoc
// @Summary      Get workshop
// @Description  Returns one workshop with all its time slots and availability.
// @Tags         workshops
// @Produce      json
// @Param        workshopID  path      int  true  "Workshop ID"
// @Success      200         {object}  WorkshopWithSlots
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      500         {object}  api.ErrorResponse
// @Router       /workshops/{workshopID} [get]
func (h *Handler) GetWorkshop(c *gin.Context) {
	workshopID, err := strconv.Atoi(c.Param("workshopID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid workshop ID"})
		return
	}

	w, err := h.repo.GetWorkshopByID(c.Request.Context(), workshopID)
	if err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Workshop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	slots, err := h.repo.GetTimeSlotsByWorkshop(c.Request.Context(), w.ID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch time slots"})
		return
	}

	c.JSON(http.StatusOK, WorkshopWithSlots{Workshop: *w, Slots: withAvailability(slots)})
}

// CreateWorkshop godoc
// @Summary      Create workshop
// @Description  Creates a new workshop. Admin only.
// @Tags         workshops
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateWorkshopRequest  true  "Workshop data"
// @Success      201      {object}  Workshop
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/workshops [post]
func (h *Handler) CreateWorkshop(c *gin.Context) {
	var req CreateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	w, err := h.repo.CreateWorkshop(c.Request.Context(), req.Title, req.Description, req.Location, req.MapsLink)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create workshop"})
		return
	}

	c.JSON(http.StatusCreated, w)
}

// CreateTimeSlot godoc
// @Summary      Create time slot
// @Description  Adds a bookable time slot to a workshop. Admin only.
// @Tags         workshops
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        workshopID  path      int                    true  "Workshop ID"
// @Param        request     body      CreateTimeSlotRequest  true  "Time slot data"
// @Success      201         {object}  TimeSlot
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      500         {object}  api.ErrorResponse
// @Router       /admin/workshops/{workshopID}/slots [post]
func (h *Handler) CreateTimeSlot(c *gin.Context) {
	workshopID, err := strconv.Atoi(c.Param("workshopID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid workshop ID"})
		return
	}

	var req CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	slotDate, err := time.Parse(dateLayout, req.SlotDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "slot_date must be formatted as YYYY-MM-DD"})
		return
	}

	if _, err := h.repo.GetWorkshopByID(c.Request.Context(), workshopID); err != nil {
		if errors.Is(err, ErrWorkshopNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Workshop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	slot, err := h.repo.CreateTimeSlot(c.Request.Context(), workshopID, slotDate, req.SlotTime, req.MaxSpots)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create time slot"})
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func withAvailability(slots []TimeSlot) []TimeSlotWithAvailability {
	result := make([]TimeSlotWithAvailability, 0, len(slots))
	for _, slot := range slots {
		remaining := slot.Remaining()
		result = append(result, TimeSlotWithAvailability{
			TimeSlot:  slot,
			Remaining: remaining,
			IsFull:    remaining <= 0,
		})
	}
	return result
}

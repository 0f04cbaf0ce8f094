package booking

import (
	"errors"
	"net/http"
	"strconv"

	"basho/internal/api"
	"basho/internal/auth"
	"basho/internal/payment"
	"basho/internal/workshop"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder godoc
// @Summary      Create workshop order
// @Description  Validates the request, creates a payment gateway order and a pending booking.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest  true  "Order request"
// @Success      200      {object}  CreateOrderResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /workshop-orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: "validation_error"})
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrTooManyGuests), errors.Is(err, workshop.ErrSlotNotFound):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: "validation_error"})
		case errors.Is(err, workshop.ErrSlotExhausted):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Not enough spots left for this slot", Code: "slot_exhausted"})
		case errors.Is(err, workshop.ErrWorkshopNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Workshop not found", Code: "not_found"})
		case errors.Is(err, payment.ErrGateway):
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Payment gateway unavailable", Code: "gateway_error"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPayment godoc
// @Summary      Verify workshop payment
// @Description  Validates the gateway signature and finalizes the seat allocation.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyPaymentRequest  true  "Payment proof"
// @Success      200      {object}  VerifyPaymentResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /workshop-payments/verify [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: "validation_error"})
		return
	}

	b, err := h.service.VerifyPayment(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSignatureInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Payment signature invalid", Code: "signature_invalid"})
		case errors.Is(err, workshop.ErrSlotExhausted):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "The slot filled up before your payment was confirmed; our team will contact you about a refund", Code: "slot_exhausted"})
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found", Code: "not_found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to verify payment"})
		}
		return
	}

	c.JSON(http.StatusOK, VerifyPaymentResponse{Success: true, Booking: b})
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking godoc
// @Summary      Get one of my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListBookingsByWorkshop godoc
// @Summary      List bookings by workshop
// @Description  Returns all bookings for a workshop. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        workshopID  path      int  true  "Workshop ID"
// @Success      200         {array}   Booking
// @Failure      400         {object}  api.ErrorResponse
// @Failure      500         {object}  api.ErrorResponse
// @Router       /admin/workshops/{workshopID}/bookings [get]
func (h *Handler) ListBookingsByWorkshop(c *gin.Context) {
	workshopID, err := strconv.Atoi(c.Param("workshopID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid workshop ID"})
		return
	}

	bookings, err := h.service.GetByWorkshop(c.Request.Context(), workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

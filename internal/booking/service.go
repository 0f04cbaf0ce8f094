package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"basho/internal/config"
	"basho/internal/email"
	"basho/internal/logger"
	"basho/internal/metrics"
	"basho/internal/notification"
	"basho/internal/payment"
	"basho/internal/reconcile"
	"basho/internal/workshop"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const dateLayout = "2006-01-02"

var (
	ErrSignatureInvalid = errors.New("payment signature invalid")
	ErrInvalidDate      = errors.New("booking_date must be formatted as YYYY-MM-DD")
	ErrTooManyGuests    = errors.New("guests exceeds slot capacity")
)

type Service interface {
	CreateOrder(ctx context.Context, userID int, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, userID int, req VerifyPaymentRequest) (*Booking, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int) (*Booking, error)
	GetByWorkshop(ctx context.Context, workshopID int) ([]Booking, error)
}

type service struct {
	bookingRepo   Repository
	workshopRepo  workshop.Repository
	notifRepo     notification.Repository
	reconcileRepo reconcile.Repository
	gateway       payment.Gateway
	emailService  *email.Service
	gatewaySecret string
	currency      string
	adminEmail    string
}

func NewService(
	bookingRepo Repository,
	workshopRepo workshop.Repository,
	notifRepo notification.Repository,
	reconcileRepo reconcile.Repository,
	gateway payment.Gateway,
	emailService *email.Service,
	cfg *config.Config,
) Service {
	return &service{
		bookingRepo:   bookingRepo,
		workshopRepo:  workshopRepo,
		notifRepo:     notifRepo,
		reconcileRepo: reconcileRepo,
		gateway:       gateway,
		emailService:  emailService,
		gatewaySecret: cfg.RazorpayKeySecret,
		currency:      cfg.Currency,
		adminEmail:    cfg.AdminEmail,
	}
}

// CreateOrder validates the request, checks remaining seats as an advisory
// read, creates the gateway order and persists a pending booking. The
// availability check here only cuts down on gateway orders that can never be
// confirmed; seats are committed exclusively by VerifyPayment.
func (s *service) CreateOrder(ctx context.Context, userID int, req CreateOrderRequest) (*CreateOrderResponse, error) {
	bookingDate, err := time.Parse(dateLayout, req.BookingDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	w, err := s.workshopRepo.GetWorkshopByID(ctx, req.WorkshopID)
	if err != nil {
		return nil, err
	}

	slot, err := s.workshopRepo.GetTimeSlot(ctx, w.ID, bookingDate, req.TimeSlot)
	if err != nil {
		return nil, err
	}

	if req.Guests > slot.MaxSpots {
		return nil, ErrTooManyGuests
	}

	if req.Guests > slot.Remaining() {
		metrics.SlotExhaustedTotal.WithLabelValues("intake").Inc()
		return nil, workshop.ErrSlotExhausted
	}

	receipt := "basho_" + uuid.NewString()
	notes := map[string]interface{}{
		"workshop_id":  w.ID,
		"booking_date": req.BookingDate,
		"time_slot":    req.TimeSlot,
		"guests":       req.Guests,
		"user_id":      userID,
	}

	order, err := s.gateway.CreateOrder(ctx, req.TotalAmountCents, s.currency, receipt, notes)
	if err != nil {
		metrics.WorkshopOrdersTotal.WithLabelValues("gateway_error").Inc()
		return nil, err
	}

	b, err := s.bookingRepo.Create(ctx, userID, w.ID, bookingDate, req.TimeSlot, req.Guests,
		req.TotalAmountCents, req.CustomerName, req.CustomerEmail, req.CustomerPhone, order.ID)
	if err != nil {
		// The gateway order exists but the booking row does not. Record it so
		// an operator can cancel or refund the stray order.
		logger.Errorf("Orphaned gateway order %s (workshop %d, user %d): %v", order.ID, w.ID, userID, err)
		if _, qerr := s.reconcileRepo.Enqueue(ctx, nil, order.ID, nil, req.TotalAmountCents, reconcile.ReasonOrphanedOrder); qerr != nil {
			logger.Errorf("Failed to enqueue orphaned order %s for reconciliation: %v", order.ID, qerr)
		}
		return nil, err
	}

	metrics.WorkshopOrdersTotal.WithLabelValues("created").Inc()

	return &CreateOrderResponse{
		OrderID:       order.ID,
		BookingID:     b.ID,
		Amount:        order.AmountCents,
		Currency:      order.Currency,
		WorkshopTitle: w.Title,
	}, nil
}

// VerifyPayment checks the gateway's cryptographic proof and, on success,
// commits the seats and promotes the booking to (paid, confirmed). Lookup,
// seat commit and confirmation run in one transaction holding a lock on the
// booking row, so duplicates of the same request serialize: the winner commits
// and the rest read its outcome. When the seat commit reports the slot full,
// money has already moved, so the booking is cancelled and the payment is
// queued for a manual refund.
func (s *service) VerifyPayment(ctx context.Context, userID int, req VerifyPaymentRequest) (*Booking, error) {
	if !payment.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature, s.gatewaySecret) {
		metrics.PaymentVerificationsTotal.WithLabelValues("signature_invalid").Inc()
		return nil, ErrSignatureInvalid
	}

	reserve := func(ctx context.Context, tx *sqlx.Tx, b *Booking) error {
		return s.workshopRepo.ReserveSeats(ctx, tx, b.WorkshopID, b.BookingDate, b.TimeSlot, b.Guests)
	}

	b, confirmed, err := s.bookingRepo.ConfirmPayment(ctx, req.BookingID, req.GatewayOrderID, userID, req.GatewayPaymentID, reserve)
	if err != nil {
		if errors.Is(err, workshop.ErrSlotExhausted) {
			metrics.SlotExhaustedTotal.WithLabelValues("confirmation").Inc()
			metrics.PaymentVerificationsTotal.WithLabelValues("slot_exhausted").Inc()
			s.escalatePaidConflict(ctx, b, req.GatewayPaymentID)
			return nil, workshop.ErrSlotExhausted
		}
		return nil, err
	}

	if !confirmed {
		return s.resolveReplay(b, req.GatewayPaymentID)
	}

	metrics.PaymentVerificationsTotal.WithLabelValues("confirmed").Inc()

	go s.dispatchSideEffects(*b)

	return b, nil
}

// resolveReplay answers a verification request for a booking already in a
// terminal state. A repeat of the successful request gets the confirmed
// booking and touches nothing; a repeat of an escalated one gets the same
// slot-full answer the original got; anything else is rejected.
func (s *service) resolveReplay(b *Booking, gatewayPaymentID string) (*Booking, error) {
	if b.BookingStatus == StatusConfirmed && b.GatewayPaymentID != nil && *b.GatewayPaymentID == gatewayPaymentID {
		metrics.PaymentVerificationsTotal.WithLabelValues("replay").Inc()
		return b, nil
	}
	if b.BookingStatus == StatusCancelled {
		return nil, workshop.ErrSlotExhausted
	}
	return nil, ErrBookingNotFound
}

// escalatePaidConflict records a captured payment whose seats are gone. The
// booking was already cancelled inside the verification transaction; here the
// payment lands in the reconciliation queue and the admin is alerted. The
// refund decision belongs to an operator, not this code.
func (s *service) escalatePaidConflict(ctx context.Context, b *Booking, gatewayPaymentID string) {
	paymentID := gatewayPaymentID
	if _, err := s.reconcileRepo.Enqueue(ctx, &b.ID, b.GatewayOrderID, &paymentID, b.TotalAmountCents, reconcile.ReasonPaidSlotExhausted); err != nil {
		logger.Errorf("Booking %d: failed to enqueue refund reconciliation: %v", b.ID, err)
	}

	title := "Payment captured but slot full"
	body := fmt.Sprintf("Booking %d paid %s for workshop %d on %s %s, but the slot filled up first. Manual refund required (payment %s).",
		b.ID, email.FormatAmount(b.TotalAmountCents), b.WorkshopID, b.BookingDate.Format(dateLayout), b.TimeSlot, gatewayPaymentID)
	if _, err := s.notifRepo.Create(ctx, notification.TypePaymentConflict, title, body, &b.ID); err != nil {
		logger.Errorf("Booking %d: failed to create conflict notification: %v", b.ID, err)
	}

	if s.adminEmail != "" {
		if err := s.emailService.Send(ctx, s.adminEmail, "Studio Admin", title, body); err != nil {
			logger.Errorf("Booking %d: failed to queue conflict alert email: %v", b.ID, err)
		}
	}

	if open, err := s.reconcileRepo.CountOpen(ctx); err == nil {
		metrics.OpenReconciliations.Set(float64(open))
	}
}

// dispatchSideEffects runs after a successful confirmation, detached from the
// request. Failures are logged and never affect the booking.
func (s *service) dispatchSideEffects(b Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w, err := s.workshopRepo.GetWorkshopByID(ctx, b.WorkshopID)
	if err != nil {
		logger.Errorf("Booking %d: side effects skipped, workshop lookup failed: %v", b.ID, err)
		return
	}

	title := "New workshop booking confirmed"
	body := fmt.Sprintf("%s booked %q for %d guest(s) on %s at %s, paid %s.",
		b.CustomerName, w.Title, b.Guests, b.BookingDate.Format(dateLayout), b.TimeSlot, email.FormatAmount(b.TotalAmountCents))
	if _, err := s.notifRepo.Create(ctx, notification.TypeBookingConfirmed, title, body, &b.ID); err != nil {
		logger.Errorf("Booking %d: failed to create admin notification: %v", b.ID, err)
	}

	if err := s.emailService.SendWorkshopConfirmation(ctx,
		b.CustomerEmail, b.CustomerName, w.Title,
		b.BookingDate.Format(dateLayout), b.TimeSlot,
		w.Location, w.MapsLink, b.Guests, b.TotalAmountCents); err != nil {
		logger.Errorf("Booking %d: failed to queue confirmation email: %v", b.ID, err)
	}
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.bookingRepo.GetUserBookings(ctx, userID)
}

func (s *service) GetBooking(ctx context.Context, userID, bookingID int) (*Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}

	return b, nil
}

func (s *service) GetByWorkshop(ctx context.Context, workshopID int) ([]Booking, error) {
	return s.bookingRepo.GetByWorkshop(ctx, workshopID)
}

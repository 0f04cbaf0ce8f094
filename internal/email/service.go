package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"basho/internal/logger"
	"basho/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxAttempts    = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis          *redis.Client
	from           string
	fromName       string
	smtpHost       string
	smtpPort       string
	smtpUser       string
	smtpPass       string
	studioLocation string
	studioMapsLink string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr, studioLocation, studioMapsLink string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:           fromEmail,
		fromName:       fromName,
		smtpHost:       smtpHost,
		smtpPort:       smtpPort,
		smtpUser:       smtpUser,
		smtpPass:       smtpPass,
		studioLocation: studioLocation,
		studioMapsLink: studioMapsLink,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email job data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s (attempt %d): %v", job.To, job.Tries, err)

		if job.Tries < maxAttempts {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxAttempts)
			metrics.EmailsSentTotal.WithLabelValues("generic", "failed").Inc()
			s.saveFailed(job, err)
		}
		return
	}

	metrics.EmailsSentTotal.WithLabelValues("generic", "sent").Inc()
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

// SendWorkshopConfirmation queues the booking confirmation email. A workshop
// without its own location or maps link falls back to the studio defaults;
// when neither is set the lines are left out of the body.
func (s *Service) SendWorkshopConfirmation(ctx context.Context, to, name, workshopTitle, slotDate, slotTime, location, mapsLink string, guests int, amountCents int64) error {
	if location == "" {
		location = s.studioLocation
	}
	if mapsLink == "" {
		mapsLink = s.studioMapsLink
	}

	subject := "Booking Confirmed - " + workshopTitle

	body := fmt.Sprintf(`Hi %s,

Your workshop booking is confirmed!

Workshop: %s
Date: %s
Time: %s
Guests: %d
Amount paid: %s`, name, workshopTitle, slotDate, slotTime, guests, FormatAmount(amountCents))

	if location != "" {
		body += fmt.Sprintf("\nLocation: %s", location)
	}
	if mapsLink != "" {
		body += fmt.Sprintf("\nDirections: %s", mapsLink)
	}

	body += `

We look forward to seeing you at the studio!

- Basho Studio`

	return s.Send(ctx, to, name, subject, body)
}

// FormatAmount renders an amount in paise as rupees.
func FormatAmount(amountCents int64) string {
	return fmt.Sprintf("₹%d.%02d", amountCents/100, amountCents%100)
}

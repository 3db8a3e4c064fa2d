package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"beewise-preorder-go/internal/mailer"
	"beewise-preorder-go/internal/metrics"
	"beewise-preorder-go/internal/model"
	"beewise-preorder-go/internal/repository"
)

var (
	// ErrEmailRequired reports a missing or empty email field
	ErrEmailRequired = errors.New("email is required")

	// ErrEmailTaken reports a signup for an already registered address
	ErrEmailTaken = errors.New("email already registered")

	// ErrSendFailed reports a notification that could not be delivered
	ErrSendFailed = errors.New("failed to send notification email")
)

// Store is the persistence surface the service needs. The gorm repository
// implements it; tests supply an in-memory fake.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*model.Preorder, error)
	Create(ctx context.Context, preorder *model.Preorder) error
	ListAll(ctx context.Context) ([]model.Preorder, error)
	MarkNotified(ctx context.Context, email string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// PreorderService implements signup, listing, notification and reset over
// the preorders collection.
type PreorderService struct {
	store   Store
	mailer  mailer.Mailer
	metrics *metrics.Metrics

	sends       sync.WaitGroup
	sendTimeout time.Duration
}

// New creates a preorder service. The mail transport is an explicit
// dependency; it must be fully constructed before the first request.
func New(store Store, m mailer.Mailer, mts *metrics.Metrics) *PreorderService {
	return &PreorderService{
		store:       store,
		mailer:      m,
		metrics:     mts,
		sendTimeout: 30 * time.Second,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases an address.
// All lookups and writes go through this, which is what makes the unique
// index case-insensitive in effect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new preorder for an address and dispatches the
// confirmation email in the background. The returned error is nil even if
// that send later fails; a signup never depends on mail delivery.
func (s *PreorderService) Signup(ctx context.Context, email string) error {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return ErrEmailRequired
	}

	// Advisory pre-check for a friendly fast path. The unique index is
	// what actually guarantees uniqueness under concurrent signups.
	existing, err := s.store.FindByEmail(ctx, normalized)
	if err != nil {
		return fmt.Errorf("signup lookup: %w", err)
	}
	if existing != nil {
		s.metrics.SignupConflicts.Inc()
		return ErrEmailTaken
	}

	preorder := &model.Preorder{
		Email:      normalized,
		SignupDate: time.Now().UTC(),
		Notified:   false,
	}
	if err := s.store.Create(ctx, preorder); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.metrics.SignupConflicts.Inc()
			return ErrEmailTaken
		}
		return fmt.Errorf("signup create: %w", err)
	}

	s.metrics.SignupCount.Inc()
	logrus.WithField("email", normalized).Info("Preorder registered")

	s.sends.Add(1)
	go s.sendConfirmation(normalized)

	return nil
}

// sendConfirmation runs detached from the signup request; its failure is
// logged and counted, never surfaced to the signer-upper.
func (s *PreorderService) sendConfirmation(email string) {
	defer s.sends.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	body, err := mailer.ConfirmationBody(email)
	if err != nil {
		s.metrics.ConfirmationFails.Inc()
		logrus.WithField("email", email).Errorf("Failed to render confirmation email: %v", err)
		return
	}

	messageID, err := s.mailer.Send(ctx, email, mailer.ConfirmationSubject, body)
	if err != nil {
		s.metrics.ConfirmationFails.Inc()
		logrus.WithField("email", email).Errorf("Failed to send confirmation email: %v", err)
		return
	}

	s.metrics.ConfirmationSends.Inc()
	logrus.WithFields(logrus.Fields{"email": email, "message_id": messageID}).
		Info("Confirmation email sent")
}

// List returns every preorder, most recent signup first
func (s *PreorderService) List(ctx context.Context) ([]model.Preorder, error) {
	return s.store.ListAll(ctx)
}

// Notify sends the availability email to an address and, if the send
// succeeds, marks the matching record notified. The send is attempted even
// when no record exists; Notify never creates one. Marking an already
// notified record again is a no-op.
func (s *PreorderService) Notify(ctx context.Context, email string) error {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return ErrEmailRequired
	}

	body, err := mailer.NotificationBody(normalized)
	if err != nil {
		s.metrics.NotificationFails.Inc()
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	messageID, err := s.mailer.Send(ctx, normalized, mailer.NotificationSubject, body)
	if err != nil {
		s.metrics.NotificationFails.Inc()
		logrus.WithField("email", normalized).Errorf("Failed to send notification email: %v", err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	s.metrics.NotificationSends.Inc()
	logrus.WithFields(logrus.Fields{"email": normalized, "message_id": messageID}).
		Info("Notification email sent")

	marked, err := s.store.MarkNotified(ctx, normalized)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	if !marked {
		logrus.WithField("email", normalized).
			Warn("Notification sent to address with no preorder record")
	}

	return nil
}

// ClearAll removes every preorder and returns the number removed
func (s *PreorderService) ClearAll(ctx context.Context) (int64, error) {
	count, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.metrics.PreordersCleared.Add(float64(count))
	logrus.WithField("rows_deleted", count).Warn("All preorders cleared")
	return count, nil
}

// DrainSends waits up to the given timeout for in-flight confirmation
// sends to finish. Used during graceful shutdown.
func (s *PreorderService) DrainSends(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.sends.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

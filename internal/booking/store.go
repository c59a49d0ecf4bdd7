// Package booking manages the test-drive booking flow: short-lived OTP
// challenges held in memory and a durable log of confirmed bookings.
package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL is how long an issued OTP stays valid.
const DefaultTTL = 10 * time.Minute

var (
	// ErrInvalidOTP indicates no pending booking matches the OTP, or the
	// matching one has expired.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
)

type pending struct {
	otp     string
	name    string
	phone   string
	created time.Time
}

// Store holds pending bookings keyed by phone number. Issuing a new OTP for
// a phone replaces any pending one. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]pending

	ttl         time.Duration
	overrideOTP string
	logger      *slog.Logger
	now         func() time.Time
}

// StoreConfig configures a Store.
type StoreConfig struct {
	TTL         time.Duration // 0 means DefaultTTL
	OverrideOTP string        // operator bypass code, empty disables
	Logger      *slog.Logger
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries:     make(map[string]pending),
		ttl:         ttl,
		overrideOTP: cfg.OverrideOTP,
		logger:      cfg.Logger,
		now:         time.Now,
	}, nil
}

// Begin starts a booking for the given user and returns the generated
// six-digit OTP for delivery. The OTP value itself is never logged.
func (s *Store) Begin(name, phone string) (string, error) {
	if name == "" || phone == "" {
		return "", errors.New("name and phone number are required")
	}

	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("generating OTP: %w", err)
	}

	s.mu.Lock()
	s.entries[phone] = pending{
		otp:     otp,
		name:    name,
		phone:   phone,
		created: s.now(),
	}
	s.mu.Unlock()

	s.logger.Info("booking initiated", "phone", maskPhone(phone))
	return otp, nil
}

// Confirmation is the outcome of a successful Confirm.
type Confirmation struct {
	Name     string
	Phone    string
	Override bool
}

// Confirm completes the booking matching the OTP and returns the booked
// user. The matching entry is consumed. When the store carries an operator
// override code, that code confirms without a pending entry.
func (s *Store) Confirm(otp string) (Confirmation, error) {
	if s.overrideOTP != "" && otp == s.overrideOTP {
		s.logger.Warn("booking confirmed via operator override")
		return Confirmation{Override: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.otp != otp {
			continue
		}
		if s.now().Sub(e.created) > s.ttl {
			delete(s.entries, key)
			return Confirmation{}, ErrInvalidOTP
		}
		delete(s.entries, key)
		s.logger.Info("booking confirmed", "phone", maskPhone(e.phone))
		return Confirmation{Name: e.name, Phone: e.phone}, nil
	}
	return Confirmation{}, ErrInvalidOTP
}

// Sweep drops expired entries and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.created) > s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept expired bookings", "removed", removed)
	}
	return removed
}

// Pending returns the number of outstanding OTP challenges.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunJanitor sweeps at the given interval until the context is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}

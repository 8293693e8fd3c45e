package idgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	adminPrefix = "ADM"
	dateLayout  = "20060102"
)

// Generator produces account identifiers. Admin identifiers are "ADM" + yyyyMMdd of the
// creation date + a zero padded counter starting at 0. Student identifiers are yyyyMMdd of
// the date of birth + a zero padded counter starting at 1. The counter is never reset per
// date and grows past four digits once it exceeds 9999.
type Generator struct {
	admins   Sequence
	students Sequence
	now      func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock overrides the clock used when a date is missing.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New builds a generator over explicit sequences.
func New(admins, students Sequence, opts ...Option) *Generator {
	g := &Generator{admins: admins, students: students, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewInMemory builds a generator backed by process-local atomic counters.
func NewInMemory(opts ...Option) *Generator {
	return New(NewAtomicSequence(0), NewAtomicSequence(1), opts...)
}

// NewRedis builds a generator whose counters live in Redis under keyPrefix.
func NewRedis(client redis.Cmdable, keyPrefix string, opts ...Option) *Generator {
	return New(
		NewRedisSequence(client, keyPrefix+"admin", 0),
		NewRedisSequence(client, keyPrefix+"student", 1),
		opts...,
	)
}

// NewAdminID returns the next admin identifier for the given creation date.
func (g *Generator) NewAdminID(ctx context.Context, created time.Time) (string, error) {
	if created.IsZero() {
		created = g.now()
	}
	n, err := g.admins.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("admin sequence: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", adminPrefix, created.Format(dateLayout), n), nil
}

// NewStudentID returns the next student identifier for the given date of birth.
func (g *Generator) NewStudentID(ctx context.Context, dob *time.Time) (string, error) {
	date := g.now()
	if dob != nil && !dob.IsZero() {
		date = *dob
	}
	n, err := g.students.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("student sequence: %w", err)
	}
	return fmt.Sprintf("%s%04d", date.Format(dateLayout), n), nil
}

// IsAdminID reports whether id carries the admin marker. The marker may appear anywhere in
// the identifier.
func IsAdminID(id string) bool {
	return strings.Contains(id, adminPrefix)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/idgen"
	"github.com/synchrony/student-management/internal/repository"
)

// ErrPrincipalNotFound is returned when an identifier matches no stored account.
var ErrPrincipalNotFound = errors.New("principal not found")

// Resolver maps an identifier to the admin or student account it names. Identifiers
// containing "ADM" are looked up among admins only, everything else among students only.
type Resolver struct {
	admins   repository.AdminRepository
	students repository.StudentRepository
	now      func() time.Time
	logger   *zap.Logger
}

// NewResolver constructs a resolver.
func NewResolver(admins repository.AdminRepository, students repository.StudentRepository, logger *zap.Logger) *Resolver {
	return &Resolver{admins: admins, students: students, now: time.Now, logger: logger}
}

// Lookup loads the principal without side effects.
func (r *Resolver) Lookup(ctx context.Context, identifier string) (domain.Principal, error) {
	if identifier == "" {
		return nil, ErrPrincipalNotFound
	}

	var (
		principal domain.Principal
		err       error
	)
	if idgen.IsAdminID(identifier) {
		var admin *domain.Admin
		admin, err = r.admins.GetByUserName(ctx, identifier)
		principal = admin
	} else {
		var student *domain.Student
		student, err = r.students.GetByUserName(ctx, identifier)
		principal = student
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPrincipalNotFound, identifier)
		}
		return nil, fmt.Errorf("resolve %s: %w", identifier, err)
	}
	return principal, nil
}

// Resolve loads the principal and records the current time as its last login. A failed
// last-login write is logged and does not fail the resolution.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (domain.Principal, error) {
	principal, err := r.Lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}
	r.RecordLogin(ctx, principal)
	return principal, nil
}

// RecordLogin stamps the principal's last login with the current time.
func (r *Resolver) RecordLogin(ctx context.Context, principal domain.Principal) {
	at := r.now().UTC()
	var err error
	switch p := principal.(type) {
	case *domain.Admin:
		err = r.admins.TouchLastLogin(ctx, p.UserName, at)
		if err == nil {
			p.LastLoginDate = &at
		}
	case *domain.Student:
		err = r.students.TouchLastLogin(ctx, p.UserName, at)
		if err == nil {
			p.LastLoginDate = &at
		}
	}
	if err != nil {
		r.logger.Warn("update last login failed",
			zap.String("identifier", principal.Identifier()),
			zap.Error(err))
	}
}

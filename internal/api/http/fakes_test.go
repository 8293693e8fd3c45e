package http

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/repository"
)

// memAdmins and memStudents are map backed repositories storing copies so handlers cannot
// mutate stored rows behind the repository's back.
type memAdmins struct {
	mu   sync.Mutex
	rows map[string]domain.Admin
}

func newMemAdmins() *memAdmins { return &memAdmins{rows: map[string]domain.Admin{}} }

func (m *memAdmins) Create(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.UserName]; ok {
		return repository.ErrAlreadyExists
	}
	m.rows[a.UserName] = *a
	return nil
}

func (m *memAdmins) Update(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.UserName]; !ok {
		return repository.ErrNotFound
	}
	m.rows[a.UserName] = *a
	return nil
}

func (m *memAdmins) Delete(_ context.Context, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[userName]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, userName)
	return nil
}

func (m *memAdmins) GetByUserName(_ context.Context, userName string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[userName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memAdmins) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memAdmins) TouchLastLogin(_ context.Context, userName string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[userName]
	if !ok {
		return repository.ErrNotFound
	}
	a.LastLoginDate = &at
	m.rows[userName] = a
	return nil
}

type memStudents struct {
	mu   sync.Mutex
	rows map[string]domain.Student
}

func newMemStudents() *memStudents { return &memStudents{rows: map[string]domain.Student{}} }

func (m *memStudents) Create(_ context.Context, s *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.UserName]; ok {
		return repository.ErrAlreadyExists
	}
	m.rows[s.UserName] = *s
	return nil
}

func (m *memStudents) Update(_ context.Context, s *domain.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.UserName]; !ok {
		return repository.ErrNotFound
	}
	m.rows[s.UserName] = *s
	return nil
}

func (m *memStudents) Delete(_ context.Context, userName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[userName]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, userName)
	return nil
}

func (m *memStudents) GetByUserName(_ context.Context, userName string) (*domain.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userName]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memStudents) List(context.Context) ([]*domain.Student, error) {
	return m.filter(func(domain.Student) bool { return true }), nil
}

func (m *memStudents) SearchByFirstName(_ context.Context, fragment string) ([]*domain.Student, error) {
	return m.filter(func(s domain.Student) bool { return containsFold(s.FirstName, fragment) }), nil
}

func (m *memStudents) SearchByLastName(_ context.Context, fragment string) ([]*domain.Student, error) {
	return m.filter(func(s domain.Student) bool { return containsFold(s.LastName, fragment) }), nil
}

func (m *memStudents) TouchLastLogin(_ context.Context, userName string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userName]
	if !ok {
		return repository.ErrNotFound
	}
	s.LastLoginDate = &at
	m.rows[userName] = s
	return nil
}

func (m *memStudents) filter(keep func(domain.Student) bool) []*domain.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Student
	for _, s := range m.rows {
		if keep(s) {
			s := s
			out = append(out, &s)
		}
	}
	return out
}

func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

var (
	_ repository.AdminRepository   = (*memAdmins)(nil)
	_ repository.StudentRepository = (*memStudents)(nil)
)

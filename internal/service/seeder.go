package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/domain"
)

// SeedResult names the accounts created by Seed.
type SeedResult struct {
	AdminUserName   string
	StudentUserName string
}

// Seeder creates a default admin and a default student on an empty database so the
// service is usable right after the first deployment.
type Seeder struct {
	admins   *AdminService
	students *StudentService
	cfg      config.SeedConfig
	logger   *zap.Logger
}

// NewSeeder wires the seeder.
func NewSeeder(admins *AdminService, students *StudentService, cfg config.SeedConfig, logger *zap.Logger) *Seeder {
	return &Seeder{admins: admins, students: students, cfg: cfg, logger: logger}
}

// Seed is a no-op unless seeding is enabled and no admin exists yet.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}
	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		s.logger.Debug("seed skipped, admins present", zap.Int64("admins", count))
		return nil, nil
	}

	admin, err := s.admins.CreateAdmin(ctx, &domain.Admin{
		FirstName:     "Default",
		LastName:      "Admin",
		Email:         "admin@example.com",
		ContactNumber: "1234567890",
		Status:        domain.ProfileStatusActive,
	}, s.cfg.AdminPassword, nil)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	dob := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	student, err := s.students.AddStudent(ctx, &domain.Student{
		FirstName:     "Default",
		LastName:      "Student",
		Email:         "student@example.com",
		ContactNumber: "0987654321",
		DateOfBirth:   &dob,
		ProfileStatus: domain.ProfileStatusActive,
	}, s.cfg.StudentPassword, nil)
	if err != nil {
		return nil, fmt.Errorf("seed student: %w", err)
	}

	s.logger.Info("default accounts created",
		zap.String("admin", admin.UserName),
		zap.String("student", student.UserName))
	return &SeedResult{AdminUserName: admin.UserName, StudentUserName: student.UserName}, nil
}

package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/domain"
)

func TestSeeder_SeedsEmptyDatabase(t *testing.T) {
	f := newFixture(t)
	cfg := config.SeedConfig{Enabled: true, AdminPassword: "Admin@12345", StudentPassword: "Student@123"}
	seeder := NewSeeder(f.adminSvc, f.studentSvc, cfg, zap.NewNop())

	var admin *domain.Admin
	var student *domain.Student
	f.admins.EXPECT().Count(gomock.Any()).Return(int64(0), nil)
	f.admins.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.Admin) error {
		admin = a
		return nil
	})
	f.students.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.Student) error {
		student = s
		return nil
	})

	res, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ADM202405010000", res.AdminUserName)
	require.Equal(t, "200001010001", res.StudentUserName)
	require.NoError(t, auth.ComparePassword(admin.Password, "Admin@12345"))
	require.NoError(t, auth.ComparePassword(student.Password, "Student@123"))
	require.Equal(t, "admin@example.com", admin.Email)
}

func TestSeeder_SkipsWhenAdminsExistOrDisabled(t *testing.T) {
	f := newFixture(t)

	f.admins.EXPECT().Count(gomock.Any()).Return(int64(1), nil)
	res, err := NewSeeder(f.adminSvc, f.studentSvc, config.SeedConfig{Enabled: true}, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)
	require.Nil(t, res)

	res, err = NewSeeder(f.adminSvc, f.studentSvc, config.SeedConfig{}, zap.NewNop()).Seed(context.Background())
	require.NoError(t, err)
	require.Nil(t, res)
}

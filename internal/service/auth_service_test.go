package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/synchrony/student-management/internal/auth"
	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/repository"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := &domain.Admin{UserName: "ADM202401010000", Password: hashed(t, "Admin@12345")}

	f.admins.EXPECT().GetByUserName(gomock.Any(), "ADM202401010000").Return(admin, nil)
	f.admins.EXPECT().TouchLastLogin(gomock.Any(), "ADM202401010000", gomock.Any()).Return(nil)

	session, err := f.authSvc.Login(ctx, "ADM202401010000", "Admin@12345")
	require.NoError(t, err)
	require.Equal(t, []string{"ROLE_ADMIN"}, session.Authorities())
	require.NotNil(t, admin.LastLoginDate)

	subject, err := f.tokens.SubjectOf(session.Access.Value)
	require.NoError(t, err)
	require.Equal(t, "ADM202401010000", subject)
	subject, err = f.tokens.SubjectOf(session.Refresh.Value)
	require.NoError(t, err)
	require.Equal(t, "ADM202401010000", subject)
	require.Equal(t, "synchrony-jwt", session.Access.Cookie.Name)
	require.Equal(t, "synchrony-jwt-refresh", session.Refresh.Cookie.Name)
}

func TestAuthService_LoginRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.students.EXPECT().GetByUserName(gomock.Any(), "200507140001").
		Return(&domain.Student{UserName: "200507140001", Password: hashed(t, "Student@123")}, nil)
	f.students.EXPECT().GetByUserName(gomock.Any(), "nobody").Return(nil, repository.ErrNotFound)
	f.admins.EXPECT().GetByUserName(gomock.Any(), "ADM9").Return(nil, errors.New("db down"))

	_, err := f.authSvc.Login(ctx, "200507140001", "wrong")
	requireCode(t, err, apperrors.CodeBadCredentials, http.StatusUnauthorized)

	_, err = f.authSvc.Login(ctx, "nobody", "whatever")
	requireCode(t, err, apperrors.CodeBadCredentials, http.StatusUnauthorized)

	_, err = f.authSvc.Login(ctx, "ADM9", "whatever")
	requireCode(t, err, apperrors.CodeGeneral, http.StatusInternalServerError)

	expected := `
# HELP student_management_logins_total Login attempts by outcome.
# TYPE student_management_logins_total counter
student_management_logins_total{outcome="failure"} 3
`
	require.NoError(t, testutil.GatherAndCompare(f.metrics.Registry(), strings.NewReader(expected), "student_management_logins_total"))
}

func TestAuthService_Refresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	refresh, err := f.tokens.IssueRefreshToken("200507140001")
	require.NoError(t, err)

	f.students.EXPECT().GetByUserName(gomock.Any(), "200507140001").Return(&domain.Student{UserName: "200507140001"}, nil)
	f.students.EXPECT().TouchLastLogin(gomock.Any(), "200507140001", gomock.Any()).Return(nil)

	session, err := f.authSvc.Refresh(ctx, refresh.Value)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, session.Principal.Role())
	require.True(t, f.tokens.Validate(session.Access.Value))

	expected := `
# HELP student_management_token_rotations_total Access/refresh token pair rotations.
# TYPE student_management_token_rotations_total counter
student_management_token_rotations_total 1
`
	require.NoError(t, testutil.GatherAndCompare(f.metrics.Registry(), strings.NewReader(expected), "student_management_token_rotations_total"))
}

func TestAuthService_RefreshRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.authSvc.Refresh(ctx, "")
	requireCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)
	_, err = f.authSvc.Refresh(ctx, "not.a.token")
	requireCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)

	ghost, err := f.tokens.IssueRefreshToken("ADM209901010001")
	require.NoError(t, err)
	f.admins.EXPECT().GetByUserName(gomock.Any(), "ADM209901010001").Return(nil, repository.ErrNotFound)

	_, err = f.authSvc.Refresh(ctx, ghost.Value)
	requireCode(t, err, apperrors.CodeUnauthorized, http.StatusUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	access, err := f.tokens.IssueAccessToken("200507140001")
	require.NoError(t, err)
	f.students.EXPECT().GetByUserName(gomock.Any(), "200507140001").Return(&domain.Student{UserName: "200507140001"}, nil)
	require.NoError(t, f.authSvc.Logout(ctx, access.Value))

	err = f.authSvc.Logout(ctx, "garbage")
	requireCode(t, err, apperrors.CodeBadRequest, http.StatusBadRequest)
	require.Equal(t, "Invalid token or User.", apperrors.ToDomainError(err).Message)

	orphan, err := f.tokens.IssueAccessToken("209901010001")
	require.NoError(t, err)
	f.students.EXPECT().GetByUserName(gomock.Any(), "209901010001").Return(nil, repository.ErrNotFound)
	requireCode(t, f.authSvc.Logout(ctx, orphan.Value), apperrors.CodeBadRequest, http.StatusBadRequest)
}

func TestSessionFromRotation(t *testing.T) {
	rotation := &auth.Rotation{Subject: "2000", Access: &auth.IssuedToken{Value: "a"}, Refresh: &auth.IssuedToken{Value: "r"}}
	session := SessionFromRotation(&domain.Student{UserName: "2000"}, rotation)
	require.Equal(t, "a", session.Access.Value)
	require.Equal(t, "r", session.Refresh.Value)
	require.Equal(t, []string{"ROLE_STUDENT"}, session.Authorities())
}

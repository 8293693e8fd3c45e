package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/synchrony/student-management/internal/domain"
)

// AdminRepository defines persistence access for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	Delete(ctx context.Context, userName string) error
	GetByUserName(ctx context.Context, userName string) (*domain.Admin, error)
	Count(ctx context.Context) (int64, error)
	TouchLastLogin(ctx context.Context, userName string, at time.Time) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `
user_name, first_name, last_name, password, email, contact_number, status,
profile_photo_key, created_date, last_login_date, modified_date`

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.UserName,
		&admin.FirstName,
		&admin.LastName,
		&admin.Password,
		&admin.Email,
		&admin.ContactNumber,
		&admin.Status,
		&admin.ProfilePhotoKey,
		&admin.CreatedDate,
		&admin.LastLoginDate,
		&admin.ModifiedDate,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const op = "repository.admins.Create"
	query := `
        INSERT INTO admins (user_name, first_name, last_name, password, role, email,
            contact_number, status, profile_photo_key, created_date, modified_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, CURRENT_DATE), NOW())
        RETURNING created_date, modified_date`

	var created *time.Time
	if !admin.CreatedDate.IsZero() {
		created = &admin.CreatedDate
	}
	err := r.pool.QueryRow(ctx, query,
		admin.UserName,
		admin.FirstName,
		admin.LastName,
		admin.Password,
		domain.RoleAdmin,
		admin.Email,
		admin.ContactNumber,
		admin.Status,
		admin.ProfilePhotoKey,
		created,
	).Scan(&admin.CreatedDate, &admin.ModifiedDate)
	return wrapErr(op, err)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	const op = "repository.admins.Update"
	const query = `
        UPDATE admins SET first_name=$1, last_name=$2, password=$3, email=$4,
            contact_number=$5, status=$6, profile_photo_key=$7, modified_date=NOW()
        WHERE user_name=$8
        RETURNING modified_date`

	err := r.pool.QueryRow(ctx, query,
		admin.FirstName,
		admin.LastName,
		admin.Password,
		admin.Email,
		admin.ContactNumber,
		admin.Status,
		admin.ProfilePhotoKey,
		admin.UserName,
	).Scan(&admin.ModifiedDate)
	return wrapErr(op, err)
}

func (r *adminRepository) Delete(ctx context.Context, userName string) error {
	const op = "repository.admins.Delete"
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE user_name=$1`, userName)
	if err != nil {
		return wrapErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr(op, pgx.ErrNoRows)
	}
	return nil
}

func (r *adminRepository) GetByUserName(ctx context.Context, userName string) (*domain.Admin, error) {
	const op = "repository.admins.GetByUserName"
	query := `SELECT ` + adminColumns + ` FROM admins WHERE user_name=$1`

	admin, err := scanAdmin(r.pool.QueryRow(ctx, query, userName))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return admin, nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, wrapErr("repository.admins.Count", err)
	}
	return n, nil
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, userName string, at time.Time) error {
	const op = "repository.admins.TouchLastLogin"
	cmd, err := r.pool.Exec(ctx, `UPDATE admins SET last_login_date=$1 WHERE user_name=$2`, at, userName)
	if err != nil {
		return wrapErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr(op, pgx.ErrNoRows)
	}
	return nil
}

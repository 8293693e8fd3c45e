package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/synchrony/student-management/internal/domain"
)

// StudentRepository defines persistence access for students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, userName string) error
	GetByUserName(ctx context.Context, userName string) (*domain.Student, error)
	List(ctx context.Context) ([]*domain.Student, error)
	SearchByFirstName(ctx context.Context, fragment string) ([]*domain.Student, error)
	SearchByLastName(ctx context.Context, fragment string) ([]*domain.Student, error)
	TouchLastLogin(ctx context.Context, userName string, at time.Time) error
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

// studentColumns keeps SELECT and RETURNING in the scan order of scanStudent.
const studentColumns = `
user_name, roll_no, first_name, last_name, age, password, date_of_birth,
date_of_registration, contact_number, blood_group, emergency_contact, profile_status,
date_of_leaving, father_name, mother_name, father_contact, mother_contact,
permanent_address, current_address, class_division, academic_stream, academic_course,
batch_year, remarks, email, guardian_name, guardian_contact, profile_photo_key,
created_date, modified_date, last_login_date`

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(
		&s.UserName,
		&s.RollNo,
		&s.FirstName,
		&s.LastName,
		&s.Age,
		&s.Password,
		&s.DateOfBirth,
		&s.DateOfRegistration,
		&s.ContactNumber,
		&s.BloodGroup,
		&s.EmergencyContact,
		&s.ProfileStatus,
		&s.DateOfLeaving,
		&s.FatherName,
		&s.MotherName,
		&s.FatherContact,
		&s.MotherContact,
		&s.PermanentAddress,
		&s.CurrentAddress,
		&s.ClassDivision,
		&s.AcademicStream,
		&s.AcademicCourse,
		&s.BatchYear,
		&s.Remarks,
		&s.Email,
		&s.GuardianName,
		&s.GuardianContact,
		&s.ProfilePhotoKey,
		&s.CreatedDate,
		&s.ModifiedDate,
		&s.LastLoginDate,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) Create(ctx context.Context, s *domain.Student) error {
	const op = "repository.students.Create"
	const query = `
        INSERT INTO students (user_name, roll_no, first_name, last_name, age, password, role,
            date_of_birth, date_of_registration, contact_number, blood_group, emergency_contact,
            profile_status, date_of_leaving, father_name, mother_name, father_contact,
            mother_contact, permanent_address, current_address, class_division, academic_stream,
            academic_course, batch_year, remarks, email, guardian_name, guardian_contact,
            profile_photo_key, created_date, modified_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
            $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, CURRENT_DATE, NOW())
        RETURNING created_date, modified_date`

	err := r.pool.QueryRow(ctx, query,
		s.UserName,
		s.RollNo,
		s.FirstName,
		s.LastName,
		s.Age,
		s.Password,
		domain.RoleStudent,
		s.DateOfBirth,
		s.DateOfRegistration,
		s.ContactNumber,
		s.BloodGroup,
		s.EmergencyContact,
		s.ProfileStatus,
		s.DateOfLeaving,
		s.FatherName,
		s.MotherName,
		s.FatherContact,
		s.MotherContact,
		s.PermanentAddress,
		s.CurrentAddress,
		s.ClassDivision,
		s.AcademicStream,
		s.AcademicCourse,
		s.BatchYear,
		s.Remarks,
		s.Email,
		s.GuardianName,
		s.GuardianContact,
		s.ProfilePhotoKey,
	).Scan(&s.CreatedDate, &s.ModifiedDate)
	return wrapErr(op, err)
}

func (r *studentRepository) Update(ctx context.Context, s *domain.Student) error {
	const op = "repository.students.Update"
	const query = `
        UPDATE students SET roll_no=$1, first_name=$2, last_name=$3, age=$4, password=$5,
            date_of_birth=$6, date_of_registration=$7, contact_number=$8, blood_group=$9,
            emergency_contact=$10, profile_status=$11, date_of_leaving=$12, father_name=$13,
            mother_name=$14, father_contact=$15, mother_contact=$16, permanent_address=$17,
            current_address=$18, class_division=$19, academic_stream=$20, academic_course=$21,
            batch_year=$22, remarks=$23, email=$24, guardian_name=$25, guardian_contact=$26,
            profile_photo_key=$27, modified_date=NOW()
        WHERE user_name=$28
        RETURNING modified_date`

	err := r.pool.QueryRow(ctx, query,
		s.RollNo,
		s.FirstName,
		s.LastName,
		s.Age,
		s.Password,
		s.DateOfBirth,
		s.DateOfRegistration,
		s.ContactNumber,
		s.BloodGroup,
		s.EmergencyContact,
		s.ProfileStatus,
		s.DateOfLeaving,
		s.FatherName,
		s.MotherName,
		s.FatherContact,
		s.MotherContact,
		s.PermanentAddress,
		s.CurrentAddress,
		s.ClassDivision,
		s.AcademicStream,
		s.AcademicCourse,
		s.BatchYear,
		s.Remarks,
		s.Email,
		s.GuardianName,
		s.GuardianContact,
		s.ProfilePhotoKey,
		s.UserName,
	).Scan(&s.ModifiedDate)
	return wrapErr(op, err)
}

func (r *studentRepository) Delete(ctx context.Context, userName string) error {
	const op = "repository.students.Delete"
	cmd, err := r.pool.Exec(ctx, `DELETE FROM students WHERE user_name=$1`, userName)
	if err != nil {
		return wrapErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr(op, pgx.ErrNoRows)
	}
	return nil
}

func (r *studentRepository) GetByUserName(ctx context.Context, userName string) (*domain.Student, error) {
	const op = "repository.students.GetByUserName"
	query := `SELECT ` + studentColumns + ` FROM students WHERE user_name=$1`

	s, err := scanStudent(r.pool.QueryRow(ctx, query, userName))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return s, nil
}

func (r *studentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY user_name`
	return r.query(ctx, "repository.students.List", query)
}

func (r *studentRepository) SearchByFirstName(ctx context.Context, fragment string) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
        WHERE first_name ILIKE '%' || $1 || '%' ORDER BY user_name`
	return r.query(ctx, "repository.students.SearchByFirstName", query, fragment)
}

func (r *studentRepository) SearchByLastName(ctx context.Context, fragment string) ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
        WHERE last_name ILIKE '%' || $1 || '%' ORDER BY user_name`
	return r.query(ctx, "repository.students.SearchByLastName", query, fragment)
}

func (r *studentRepository) TouchLastLogin(ctx context.Context, userName string, at time.Time) error {
	const op = "repository.students.TouchLastLogin"
	cmd, err := r.pool.Exec(ctx, `UPDATE students SET last_login_date=$1 WHERE user_name=$2`, at, userName)
	if err != nil {
		return wrapErr(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return wrapErr(op, pgx.ErrNoRows)
	}
	return nil
}

func (r *studentRepository) query(ctx context.Context, op, query string, args ...any) ([]*domain.Student, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var students []*domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return students, nil
}

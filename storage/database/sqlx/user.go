package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/unimatric/admissions/core/user"
)

const userColumns = `id, role, full_name, email, phone, gender, face_id_enabled, is_active,
	password_hash, created_at, updated_at, last_login`

type userRow struct {
	ID            string     `db:"id"`
	Role          string     `db:"role"`
	FullName      string     `db:"full_name"`
	Email         string     `db:"email"`
	Phone         string     `db:"phone"`
	Gender        string     `db:"gender"`
	FaceIDEnabled bool       `db:"face_id_enabled"`
	IsActive      bool       `db:"is_active"`
	PasswordHash  string     `db:"password_hash"`
	CreatedAt     int64      `db:"created_at"`
	UpdatedAt     int64      `db:"updated_at"`
	LastLogin     null.Int64 `db:"last_login"`
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:            usr.ID,
		Role:          usr.Role,
		FullName:      usr.FullName,
		Email:         usr.Email,
		Phone:         usr.Phone,
		Gender:        usr.Gender,
		FaceIDEnabled: usr.FaceIDEnabled,
		IsActive:      usr.IsActive,
		PasswordHash:  string(usr.PasswordHash),
		CreatedAt:     usr.CreatedAt.Unix(),
		UpdatedAt:     usr.UpdatedAt.Unix(),
		LastLogin:     null.NewInt64(usr.LastLogin.Unix(), !usr.LastLogin.IsZero()),
	}
}

func (r userRow) user() user.User {
	usr := user.User{
		ID:            r.ID,
		Role:          r.Role,
		FullName:      r.FullName,
		Email:         r.Email,
		Phone:         r.Phone,
		Gender:        r.Gender,
		FaceIDEnabled: r.FaceIDEnabled,
		IsActive:      r.IsActive,
		PasswordHash:  []byte(r.PasswordHash),
		CreatedAt:     time.Unix(r.CreatedAt, 0).UTC(),
		UpdatedAt:     time.Unix(r.UpdatedAt, 0).UTC(),
	}
	if r.LastLogin.Valid {
		usr.LastLogin = time.Unix(r.LastLogin.Int64, 0).UTC()
	}
	return usr
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int
	q := repo.db.Rebind("SELECT COUNT(*) FROM users WHERE " + column + " = ?")
	if err := repo.db.GetContext(ctx, &count, q, value); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if found, err := repo.exists(ctx, "id", usr.ID); err != nil {
		return user.User{}, errors.Wrap(err, "checking id")
	} else if found {
		return user.User{}, user.ErrUserExists
	}
	if found, err := repo.exists(ctx, "email", usr.Email); err != nil {
		return user.User{}, errors.Wrap(err, "checking email")
	} else if found {
		return user.User{}, user.ErrEmailExists
	}

	row := toUserRow(usr)
	q := repo.db.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(ctx, q,
		row.ID, row.Role, row.FullName, row.Email, row.Phone, row.Gender, row.FaceIDEnabled, row.IsActive,
		row.PasswordHash, row.CreatedAt, row.UpdatedAt, row.LastLogin)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		where string
		args  []interface{}
	)
	switch {
	case filter.ID != "":
		where, args = "id = ?", []interface{}{filter.ID}
	case filter.Email != "":
		where, args = "email = ?", []interface{}{filter.Email}
	case filter.IDOrEmail != "":
		where, args = "(id = ? OR email = ?)", []interface{}{filter.IDOrEmail, filter.IDOrEmail}
	default:
		return user.User{}, user.ErrNotFound
	}
	if filter.Role != "" {
		where += " AND role = ?"
		args = append(args, filter.Role)
	}

	var row userRow
	q := repo.db.Rebind("SELECT " + userColumns + " FROM users WHERE " + where + " ORDER BY id LIMIT 1")
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.user(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := toUserRow(usr)
	q := repo.db.Rebind(`UPDATE users SET role = ?, full_name = ?, email = ?, phone = ?, gender = ?,
		face_id_enabled = ?, is_active = ?, password_hash = ?, updated_at = ?, last_login = ? WHERE id = ?`)
	res, err := repo.db.ExecContext(ctx, q,
		row.Role, row.FullName, row.Email, row.Phone, row.Gender, row.FaceIDEnabled, row.IsActive,
		row.PasswordHash, row.UpdatedAt, row.LastLogin, row.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

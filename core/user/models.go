package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/unimatric/admissions/core"
)

// Roles
const (
	RoleApplicant = "applicant" // identified by JAMB registration number
	RoleAdmin     = "admin"     // identified by staff id
)

// Genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

var Roles = []string{RoleApplicant, RoleAdmin}

type User struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Gender        string    `json:"gender"`
	FaceIDEnabled bool      `json:"face_id_enabled"`
	IsActive      bool      `json:"is_active"`
	PasswordHash  []byte    `json:"-"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
	LastLogin     time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }
func (u *User) IsApplicant() bool { return u.Role == RoleApplicant }

// NewUser contains information needed to create a new User.
type NewUser struct {
	ID              string `json:"id" validate:"required,min=4,max=64,userid"`
	Role            string `json:"role" validate:"required,oneof=applicant admin"`
	FullName        string `json:"full_name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
	FaceIDEnabled   bool   `json:"face_id_enabled"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Clean() {
	nu.ID = core.CleanString(nu.ID, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	nu.Gender = core.CleanString(nu.Gender, true /* lower */)
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }

// GetFilter selects a single User; the first set field wins.
// Role, when set, restricts the match to that role.
type GetFilter struct {
	ID        string
	Email     string
	IDOrEmail string
	Role      string
}

package user

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/unimatric/admissions/core"
)

var (
	// errors
	ErrNotFound              = errors.New("user not found")
	ErrUserExists            = errors.New("a user with this id already exists")
	ErrEmailExists           = errors.New("a user with this email already exists")
	ErrAuthenticationFailure = errors.New("invalid credentials")
	ErrAccountDeactivated    = errors.New("account deactivated")
)

type (
	Repository interface {
		// CreateUser returns ErrUserExists or ErrEmailExists on duplicates.
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser returns ErrNotFound when no User matches the filter.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		activity core.ActivityLogger
		tokens   tokenGenerator
	}
)

func NewService(repo Repository, mailSvc core.EmailService, activity core.ActivityLogger, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		mailSvc:  mailSvc,
		activity: activity,
		tokens:   newTokenGenerator(conf.SecretKey, conf.PasswordResetTimeoutDelta),
	}
}

// Register creates a User from a validated NewUser.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := nowFunc().UTC()
	usr := User{
		ID:            nu.ID,
		Role:          nu.Role,
		FullName:      nu.FullName,
		Email:         nu.Email,
		Phone:         nu.Phone,
		Gender:        nu.Gender,
		FaceIDEnabled: nu.FaceIDEnabled,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		switch errors.Cause(err) {
		case ErrUserExists:
			svc.activity.Warn(core.Activity{User: nu.ID, Role: nu.Role, Action: "signup_fail_exists"})
			return User{}, core.NewFieldValidationError("id", ErrUserExists)
		case ErrEmailExists:
			svc.activity.Warn(core.Activity{User: nu.ID, Role: nu.Role, Action: "signup_fail_exists"})
			return User{}, core.NewFieldValidationError("email", ErrEmailExists)
		}
		svc.activity.Error(core.Activity{
			User:    nu.ID,
			Role:    nu.Role,
			Action:  "signup_fail_db_error",
			Details: map[string]interface{}{"error": err.Error()},
		})
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.activity.Info(core.Activity{User: usr.ID, Role: usr.Role, Action: "signup_success"})
	return usr, nil
}

// Authenticate checks the credentials of a User of the given role (any role if empty)
// and records the login.
func (svc *Service) Authenticate(ctx context.Context, idOrEmail, role, pwd string) (User, error) {
	idOrEmail = core.CleanString(idOrEmail, true /* lower */)
	usr, err := svc.repo.GetUser(ctx, GetFilter{IDOrEmail: idOrEmail, Role: role})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			svc.activity.Warn(core.Activity{User: idOrEmail, Role: role, Action: "login_fail_not_found"})
			return User{}, ErrAuthenticationFailure
		}
		return User{}, errors.Wrap(err, "getting user")
	}
	if err := usr.CheckPassword(pwd); err != nil {
		svc.activity.Warn(core.Activity{User: usr.ID, Role: usr.Role, Action: "login_fail_password"})
		return User{}, ErrAuthenticationFailure
	}
	if !usr.IsActive {
		svc.activity.Warn(core.Activity{User: usr.ID, Role: usr.Role, Action: "login_fail_inactive"})
		return User{}, ErrAccountDeactivated
	}

	usr, err = svc.SetLastLogin(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.activity.Info(core.Activity{User: usr.ID, Role: usr.Role, Action: "login_success"})
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: core.CleanString(id, true /* lower */)})
}

func (svc *Service) GetByIDOrEmail(ctx context.Context, idOrEmail string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{IDOrEmail: core.CleanString(idOrEmail, true /* lower */)})
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	now := nowFunc().UTC()
	usr.LastLogin = now
	usr.UpdatedAt = now
	usr, err := svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating last login")
}

// SetPassword replaces the password of a User without applying the password policy.
func (svc *Service) SetPassword(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = nowFunc().UTC()
	usr, err := svc.repo.UpdateUser(ctx, usr)
	return usr, errors.Wrap(err, "updating password")
}

// RequestPasswordReset emails a password reset token to the User with the given email.
// Unknown emails are ignored.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return errors.Wrap(err, "getting user")
	}
	if !usr.IsActive {
		return nil
	}

	token, err := svc.tokens.makeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making token")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{
			"Name":  usr.FullName,
			"UID":   EncodeUID(usr),
			"Token": token,
		},
	})
	svc.activity.Info(core.Activity{User: usr.ID, Role: usr.Role, Action: "password_reset_request"})
	return nil
}

// ResetPassword sets a new password after checking the reset token.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) (User, error) {
	invalid := core.NewFieldValidationError("token", errInvalidToken)

	id, err := decodeUID(rp.UID)
	if err != nil {
		return User{}, invalid
	}
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, invalid
		}
		return User{}, errors.Wrap(err, "getting user")
	}
	if err := svc.tokens.verifyToken(usr, rp.Token); err != nil {
		if err == errInvalidToken || err == errTokenExpired {
			return User{}, core.NewFieldValidationError("token", err)
		}
		return User{}, errors.Wrap(err, "verifying token")
	}

	usr, err = svc.SetPassword(ctx, usr, rp.Password)
	if err != nil {
		return User{}, err
	}
	svc.activity.Info(core.Activity{User: usr.ID, Role: usr.Role, Action: "password_reset_success"})
	return usr, nil
}

// DevUsers are the accounts seeded in development.
func DevUsers() []NewUser {
	return []NewUser{
		{
			ID:       "admin@futa.edu.ng",
			Role:     RoleAdmin,
			FullName: "Admin User",
			Email:    "admin@futa.edu.ng",
			Phone:    "1234567890",
			Gender:   GenderMale,
			Password: "AdminPass123",
		},
		{
			ID:       "12345678ab",
			Role:     RoleApplicant,
			FullName: "John Doe",
			Email:    "john@example.com",
			Phone:    "0987654321",
			Gender:   GenderMale,
			Password: "Password123",
		},
	}
}

// SeedDevUsers registers DevUsers that do not exist yet.
func (svc *Service) SeedDevUsers(ctx context.Context) error {
	for _, nu := range DevUsers() {
		nu.PasswordConfirm = nu.Password
		if _, err := svc.repo.GetUser(ctx, GetFilter{ID: nu.ID}); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "getting user")
		}
		if _, err := svc.Register(ctx, nu); err != nil {
			return errors.Wrapf(err, "seeding %s", nu.ID)
		}
	}
	return nil
}

package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/analysis"
	"github.com/unimatric/admissions/core/user"
	appfs "github.com/unimatric/admissions/fs"
	logsvc "github.com/unimatric/admissions/services/logger"
)

// NewConfig returns the configuration used by tests.
func NewConfig() *core.Config {
	return &core.Config{
		Env:                       "TEST",
		AppName:                   "Admissions",
		TestMode:                  true,
		SecretKey:                 "test-secret-key",
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmailAddr:      "noreply@localhost",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			DisableReqLogs:            true,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Database: core.DatabaseConfig{Engine: "memory"},
		Admission: core.AdmissionConfig{
			AptitudeWeight:     75,
			AcademicWeight:     25,
			AccommodationBonus: 5,
			AptitudeMax:        400,
			AcademicMax:        400,
			BestOf:             5,
			MinAptitude:        180,
			MinCredits:         5,
			FairnessThreshold:  0.8,
		},
	}
}

// NewLogger returns a logger that discards its output and never reports to Rollbar.
func NewLogger(conf *core.Config) *logsvc.RollbarLogger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewActivityLogger() *logsvc.ActivityLogger {
	return logsvc.NewActivityLogger(io.Discard)
}

// ParseEmailTemplates loads the embedded email templates.
func ParseEmailTemplates(conf *core.Config) {
	core.ParseEmailTemplates(conf, NewLogger(conf), appfs.FS)
}

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator, _ := ut.New(en.New()).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	admission.InitValidators(validate, translator)
	analysis.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	id, role, name, email, gender, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        id,
		Role:      role,
		FullName:  name,
		Email:     email,
		Gender:    gender,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

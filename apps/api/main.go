package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/unimatric/admissions/apps/api/echo"
	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/analysis"
	"github.com/unimatric/admissions/core/user"
	appfs "github.com/unimatric/admissions/fs"
	geminianalyzer "github.com/unimatric/admissions/services/analysis/gemini"
	mockanalyzer "github.com/unimatric/admissions/services/analysis/mock"
	emailsvc "github.com/unimatric/admissions/services/email"
	logsvc "github.com/unimatric/admissions/services/logger"
	"github.com/unimatric/admissions/storage/database"
	inmemdb "github.com/unimatric/admissions/storage/database/inmem"
	sqlxrepos "github.com/unimatric/admissions/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	activity := logsvc.NewActivityLogger(activityOutput(conf))

	// set up storage
	usrRepo, admRepo, closeDB, err := setUpRepositories(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = closeDB(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(log.New(os.Stdout, "MAIL : ", 0), logger, conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}

	catalog, err := admission.CatalogFromConfig(conf.Admission)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading department catalog: %v", err), err)
	}

	var analyzer analysis.Analyzer = mockanalyzer.New()
	if conf.Gemini.APIKey != "" {
		gemini, err := geminianalyzer.New(context.Background(), conf.Gemini)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up gemini: %v", err), err)
		}
		defer gemini.Close()
		analyzer = gemini
	}

	usrSvc := user.NewService(usrRepo, mailSvc, activity, conf)
	admSvc := admission.NewService(admRepo, catalog, mailSvc, activity, conf)
	analysisSvc := analysis.NewService(analyzer, logger, activity)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	admission.InitValidators(validate, translator)
	analysis.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger, appfs.FS)

	ctx := context.Background()
	if err = admSvc.SeedQuotas(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("seeding quotas: %v", err), err)
	}
	if conf.Env == "DEV" {
		if err = usrSvc.SeedDevUsers(ctx); err != nil {
			logger.Error(fmt.Sprintf("seeding dev users: %v", err), err)
		}
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			UserSvc:      usrSvc,
			AdmissionSvc: admSvc,
			AnalysisSvc:  analysisSvc,
			Validate:     validate,
			Translator:   translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpRepositories opens the configured storage engine; "memory" needs no database.
func setUpRepositories(conf *core.Config) (user.Repository, admission.Repository, func() error, error) {
	if conf.Database.Engine == database.EngineMemory {
		db := inmemdb.Open()
		return inmemdb.NewUserRepository(db), inmemdb.NewAdmissionRepository(db), func() error { return nil }, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return nil, nil, nil, err
	}
	return sqlxrepos.NewUserRepository(db), sqlxrepos.NewAdmissionRepository(db), db.Close, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// activityOutput is where the activity log is written: stdout, or nowhere in tests.
func activityOutput(conf *core.Config) io.Writer {
	if conf.TestMode {
		return io.Discard
	}
	return os.Stdout
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

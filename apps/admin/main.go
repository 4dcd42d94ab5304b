package main

import (
	"io"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
	emailsvc "github.com/unimatric/admissions/services/email"
	logsvc "github.com/unimatric/admissions/services/logger"
	"github.com/unimatric/admissions/storage/database"
	inmemdb "github.com/unimatric/admissions/storage/database/inmem"
	sqlxrepos "github.com/unimatric/admissions/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if code := start(); code != 0 {
		os.Exit(code)
	}
}

func start() int {
	conf := core.NewConfig()

	translator, _ := ut.New(en.New()).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	admission.InitValidators(validate, translator)

	catalog, err := admission.CatalogFromConfig(conf.Admission)
	errAndDie(err)

	// the CLI only assesses transcripts: nothing is mailed or logged
	mailSvc := emailsvc.NewConsoleService(nil, logsvc.NewRollbarLogger(logger, conf), conf)
	activity := logsvc.NewActivityLogger(io.Discard)

	cli := commandLine{validate: validate, out: os.Stdout}
	if conf.Database.Engine == database.EngineMemory {
		db := inmemdb.Open()
		cli.usrRepo = inmemdb.NewUserRepository(db)
		cli.admSvc = admission.NewService(inmemdb.NewAdmissionRepository(db), catalog, mailSvc, activity, conf)
	} else {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		cli.db = db
		cli.usrRepo = sqlxrepos.NewUserRepository(db)
		cli.admSvc = admission.NewService(sqlxrepos.NewAdmissionRepository(db), catalog, mailSvc, activity, conf)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

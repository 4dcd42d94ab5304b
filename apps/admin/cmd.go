package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("no database configured: set the database engine to sqlite or postgres")
)

type commandLine struct {
	db       *sqlx.DB // nil with the memory engine
	usrRepo  user.Repository
	admSvc   *admission.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -id ID -email EMAIL -name NAME -gender male|female [-admin] - create or update a user")
	fmt.Fprintln(cli.out, "  resetpassword -id ID|EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run goose migrations (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  score -aptitude N -department ID [-accommodation] SUBJECT=GRADE... - assess a transcript")
}

func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserID := addUserCmd.String("id", "", "JAMB registration number or staff id. The password will be prompted next.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserGender := addUserCmd.String("gender", user.GenderMale, "male or female.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Create an admin instead of an applicant.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordID := resetPasswordCmd.String("id", "", "The user's id or email. The password will be prompted next.")

	scoreCmd := flag.NewFlagSet("score", flag.ContinueOnError)
	scoreAptitude := scoreCmd.Int("aptitude", 0, "The UTME aptitude score (0-400).")
	scoreDept := scoreCmd.String("department", "", "The department id.")
	scoreAccommodation := scoreCmd.Bool("accommodation", false, "Apply the accommodation bonus.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, scoreCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserID == "" || *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		switch core.CleanString(*addUserGender, true /* lower */) {
		case user.GenderMale, user.GenderFemale:
		default:
			fmt.Fprintf(cli.out, "invalid gender %q: must be male or female\n", *addUserGender)
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		role := user.RoleApplicant
		if *addUserAdmin {
			role = user.RoleAdmin
		}
		return cli.addUser(*addUserID, role, *addUserName, *addUserEmail, *addUserGender, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordID == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordID, pwd)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "score":
		if err := scoreCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *scoreDept == "" || scoreCmd.NArg() == 0 {
			scoreCmd.Usage()
			return errHelp
		}
		grades, err := parseGrades(scoreCmd.Args())
		if err != nil {
			return err
		}
		return cli.score(admission.Submission{
			AptitudeScore: *scoreAptitude,
			Department:    *scoreDept,
			Accommodation: *scoreAccommodation,
			Grades:        grades,
		})

	default:
		cli.printUsage()
		return errHelp
	}
}

// parseGrades reads `subject=grade` pairs.
func parseGrades(pairs []string) (admission.Transcript, error) {
	grades := make(admission.Transcript, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid grade %q: expected SUBJECT=GRADE", pair)
		}
		sub := admission.Subject(strings.ToLower(strings.TrimSpace(parts[0])))
		grades[sub] = admission.Grade(strings.ToUpper(strings.TrimSpace(parts[1])))
	}
	return grades, nil
}

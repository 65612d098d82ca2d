package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/academix-api/internal/models"
)

var (
	readPasswordFunc = term.ReadPassword

	errHelp = errors.New("help provided")
)

type accountStore interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateFaculty(ctx context.Context, acc *models.Account, profile *models.FacultyProfile) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	RevokeAccountRefreshTokens(ctx context.Context, accountID string) error
}

type schemaMigrator interface {
	Run(ctx context.Context, db *sql.DB, command string, args ...string) error
}

type commandLine struct {
	db       *sql.DB
	accounts accountStore
	migrator schemaMigrator
	out      io.Writer
	logger   *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]   - run a goose command (up, down, status, version, redo, up-to N, down-to N)")
	fmt.Fprintln(cli.out, "  addfaculty -username USERNAME -email EMAIL -first FIRST [-middle MIDDLE] -last LAST - create a faculty account")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME|EMAIL - reset an account's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addFacultyCmd := flag.NewFlagSet("addfaculty", flag.ContinueOnError)
	addFacultyCmd.SetOutput(cli.out)
	afUsername := addFacultyCmd.String("username", "", "Login handle. The password will be prompted next.")
	afEmail := addFacultyCmd.String("email", "", "Contact email, unique across accounts.")
	afFirst := addFacultyCmd.String("first", "", "First name.")
	afMiddle := addFacultyCmd.String("middle", "", "Middle name.")
	afLast := addFacultyCmd.String("last", "", "Last name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	rpUsername := resetPasswordCmd.String("username", "", "The account's username or email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "addfaculty":
		if err := addFacultyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *afUsername == "" || *afEmail == "" || *afFirst == "" || *afLast == "" {
			addFacultyCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addFacultyCmd.Usage()
			return errHelp
		}
		return cli.addFaculty(facultyInput{
			username: *afUsername,
			email:    *afEmail,
			first:    *afFirst,
			middle:   *afMiddle,
			last:     *afLast,
			password: pwd,
		})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *rpUsername == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*rpUsername, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

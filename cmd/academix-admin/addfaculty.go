package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academix-api/internal/models"
)

const minPasswordLength = 8

type facultyInput struct {
	username string
	email    string
	first    string
	middle   string
	last     string
	password string
}

// addFaculty provisions a faculty account with its profile. Faculty cannot self-register.
func (cli *commandLine) addFaculty(in facultyInput) error {
	ctx := context.Background()
	username := strings.ToLower(strings.TrimSpace(in.username))
	email := strings.ToLower(strings.TrimSpace(in.email))

	if len(in.password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if err := cli.ensureFree(ctx, username, email); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account := &models.Account{Username: username, Email: email, PasswordHash: string(hash)}
	profile := &models.FacultyProfile{
		FirstName:  strings.TrimSpace(in.first),
		MiddleName: strings.TrimSpace(in.middle),
		LastName:   strings.TrimSpace(in.last),
	}
	if err := cli.accounts.CreateFaculty(ctx, account, profile); err != nil {
		return err
	}

	cli.logger.Info("faculty account created", zap.String("account_id", account.ID), zap.String("username", username))
	fmt.Fprintf(cli.out, "created faculty %s (%s)\n", username, account.ID)
	return nil
}

func (cli *commandLine) ensureFree(ctx context.Context, username, email string) error {
	if _, err := cli.accounts.FindByUsername(ctx, username); err == nil {
		return fmt.Errorf("username %q is already taken", username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := cli.accounts.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("email %q is already registered", email)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

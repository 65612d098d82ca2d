package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academix-api/internal/models"
)

// resetPassword sets a new password and signs the account out everywhere.
func (cli *commandLine) resetPassword(usernameOrEmail, pwd string) error {
	ctx := context.Background()
	if len(pwd) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	account, err := cli.lookup(ctx, strings.ToLower(strings.TrimSpace(usernameOrEmail)))
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := cli.accounts.UpdatePassword(ctx, account.ID, string(hash), time.Now().UTC()); err != nil {
		return err
	}
	if err := cli.accounts.RevokeAccountRefreshTokens(ctx, account.ID); err != nil {
		cli.logger.Warn("refresh tokens not revoked", zap.String("account_id", account.ID), zap.Error(err))
	}

	fmt.Fprintf(cli.out, "password reset for %s\n", account.Username)
	return nil
}

func (cli *commandLine) lookup(ctx context.Context, key string) (*models.Account, error) {
	account, err := cli.accounts.FindByUsername(ctx, key)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	account, err = cli.accounts.FindByEmail(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no account matches %q", key)
	}
	return account, err
}

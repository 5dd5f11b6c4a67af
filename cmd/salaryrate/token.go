package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/config"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		admin   bool
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET_KEY is not set")
			}
			if ttl <= 0 {
				ttl = cfg.JWT.TokenExpiration
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, ttl).GenerateAccessToken(subject, admin)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the is_admin claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: JWT_TOKEN_EXPIRATION_TIME)")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "rigcheck/internal/jwt_token"
	id "rigcheck/pkg/domain"
)

func newTokenCmd(e *env) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user (development and smoke tests)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := id.ParseUserID(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			if ttl <= 0 {
				ttl = e.cfg.Server.TokenTTL
			}
			svc := jwttoken.NewJWTService(e.cfg.Server.JWTSigningKey, e.cfg.Server.JWTIssuer,
				jwttoken.WithClock(e.clock))
			token, err := svc.GenerateAccessToken(id.Actor{ID: uid, Role: id.Role(role)}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&role, "role", string(id.RoleFirefighter), "firefighter, maintenance_technician or administrator")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

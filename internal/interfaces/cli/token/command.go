// Package token implements "tripdesk token", which mints bearer tokens for
// the operator-only endpoints.
package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tripdesk/tripdesk/internal/infrastructure/auth"
	"github.com/tripdesk/tripdesk/internal/interfaces/cli/bootstrap"
	"github.com/tripdesk/tripdesk/internal/shared/constants"
)

type tokenGenerator interface {
	Generate(subject, role string, ttl time.Duration) (string, time.Time, error)
}

func NewCommand(opts *bootstrap.Options) *cobra.Command {
	return newCommand(func() (tokenGenerator, error) {
		cfg, err := bootstrap.Setup(opts)
		if err != nil {
			return nil, err
		}
		return auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes), nil
	})
}

func newCommand(factory func() (tokenGenerator, error)) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for an operator",
		Example: "  tripdesk token --subject ops@agency.example --role admin --ttl 1h\n" +
			"  curl -X POST -H \"Authorization: Bearer $(tripdesk token -s ops)\" localhost:8080/currency/refresh",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != constants.RoleAdmin && role != constants.RoleOperator {
				return fmt.Errorf("unknown role %q: must be %s or %s", role, constants.RoleAdmin, constants.RoleOperator)
			}

			generator, err := factory()
			if err != nil {
				return err
			}

			token, expiresAt, err := generator.Generate(subject, role, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Operator identity stored in the sub claim")
	cmd.Flags().StringVarP(&role, "role", "r", constants.RoleAdmin, "Role granted to the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default auth.jwt.access_exp_minutes)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

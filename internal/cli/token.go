package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"taskboard/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the mutating API routes",
		Long: `Mint an HS256 bearer token. The secret defaults to JWT_SECRET from the
environment or a .env file in the working directory.`,
		RunE: runToken,
	}
	cmd.Flags().String("subject", "", "Token subject (required)")
	cmd.Flags().String("secret", "", "Signing secret (default: $JWT_SECRET)")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	secret, _ := cmd.Flags().GetString("secret")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	if secret == "" {
		_ = godotenv.Load()
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return errors.New("no secret: pass --secret or set JWT_SECRET")
	}

	token, err := service.NewTokenIssuer(secret, ttl).Generate(subject)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

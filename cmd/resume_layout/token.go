package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-layout/internal/config"
	"github.com/jonathan/resume-layout/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the document API",
	Long: `Signs a token with JWT_SECRET for the given owner. Documents stored with
the token are visible only to requests carrying a token for the same owner.
Without --owner a new owner ID is generated.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

var tokenOwner string

func init() {
	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "Owner UUID (default: a new random ID)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	owner := uuid.New()
	if tokenOwner != "" {
		owner, err = uuid.Parse(tokenOwner)
		if err != nil {
			return fmt.Errorf("invalid --owner: %w", err)
		}
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(owner)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

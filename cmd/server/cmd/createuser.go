package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	createUserLogin    string
	createUserPassword string
	createUserName     string
	createUserRole     string
	createUserSchoolID string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account directly in the database",
	Long: `Create an account of any role without going through the API. Intended for
provisioning staff and admin accounts; student accounts are normally created
through POST /students.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		role, err := auth.ParseRole(createUserRole)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		repo, err := postgres.NewRepository(pool)
		if err != nil {
			return err
		}

		if _, err := repo.Schools().FindByID(ctx, createUserSchoolID); err != nil {
			if errors.Is(err, schools.ErrNotFound) {
				return fmt.Errorf("school %s does not exist", createUserSchoolID)
			}
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(createUserPassword), accounts.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		account := &accounts.Account{
			ID:           uuid.NewString(),
			SchoolID:     createUserSchoolID,
			DisplayName:  createUserName,
			Role:         role,
			Login:        createUserLogin,
			PasswordHash: string(hash),
		}
		if err := repo.Accounts().Create(ctx, account); err != nil {
			if errors.Is(err, accounts.ErrLoginTaken) {
				return fmt.Errorf("login %q is already taken", createUserLogin)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (login %s)\n", role, account.ID, account.Login)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&createUserLogin, "login", "", "unique login (required)")
	createUserCmd.Flags().StringVar(&createUserPassword, "password", "", "password (required)")
	createUserCmd.Flags().StringVar(&createUserName, "name", "", "display name (required)")
	createUserCmd.Flags().StringVar(&createUserRole, "role", "STAFF", "role: STUDENT, PARENT, STAFF, ADMIN, or OWNER")
	createUserCmd.Flags().StringVar(&createUserSchoolID, "school-id", "", "school the account belongs to (required)")

	_ = createUserCmd.MarkFlagRequired("login")
	_ = createUserCmd.MarkFlagRequired("password")
	_ = createUserCmd.MarkFlagRequired("name")
	_ = createUserCmd.MarkFlagRequired("school-id")
}

package commands

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/norrbil/rentals/internal/config"
	"github.com/norrbil/rentals/internal/database"
	"github.com/norrbil/rentals/internal/domain/identity"
	"github.com/norrbil/rentals/internal/logger"
	pgstorage "github.com/norrbil/rentals/internal/storage/postgres"
)

var (
	adminEmail string
	adminName  string
)

// createAdminCmd bootstraps an admin account
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	Long: `Create a user with the admin role. The password is read interactively
so it never lands in shell history.

Examples:
  rentalctl create-admin --email admin@norrbil.se --name "Fleet Admin"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateAdmin()
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email for the new admin (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name for the new admin")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DataBackend != "postgres" {
		return fmt.Errorf("create-admin requires DATA_BACKEND=postgres")
	}

	logr := logger.New(cfg.Env)
	ctx := context.Background()

	db, err := database.Connect(ctx, database.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		Logger:          logr,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	migrator := database.NewSQLMigrator(db.DB, database.MigrationsFS(), database.MigrationsPath, logr)
	if err := db.RunMigrations(ctx, migrator); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	service := identity.NewService(pgstorage.NewUserRepository(db.DB))
	user, err := service.Register(identity.RegisterInput{
		Email:    adminEmail,
		Name:     adminName,
		Password: password,
		Role:     identity.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

// readPassword reads a masked password from the terminal
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}

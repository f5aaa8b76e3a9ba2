package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/schema"
	"github.com/contalink/backoffice/internal/core/service"
	"github.com/contalink/backoffice/internal/infrastructure/db/mongo"
)

// CreateAdminOptions holds flags for the create-admin command.
type CreateAdminOptions struct {
	*RootOptions
	TenantID string
	Name     string
	Email    string
	Password string
}

// NewCreateAdminCommand creates the create-admin command.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateAdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first admin of a tenant",
		Long: `Create an admin account. Further users are created by admins through
the API.

When --tenant is omitted a new tenant id is generated.

Example:
  backoffice create-admin --name "Ana Pérez" --email ana@example.com --password s3cret-pass`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant id (generated when empty)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "admin full name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "admin password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func createAdmin(cmd *cobra.Command, opts *CreateAdminOptions) error {
	ctx := cmd.Context()
	cfg, log, err := bootstrap(ctx, opts.RootOptions)
	if err != nil {
		return err
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repos := mongo.NewRepositories(db)
	if err := repos.Users.EnsureIndexes(ctx); err != nil {
		return err
	}

	tenantID := opts.TenantID
	if tenantID == "" {
		tenantID = uuid.NewString()
	}

	auth := service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.TokenTTL)
	user, err := auth.Register(ctx, tenantID, &schema.UserForm{
		Name:     opts.Name,
		Email:    opts.Email,
		Password: opts.Password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info().Str("tenant_id", user.TenantID).Str("user_id", user.ID).Msg("admin created")
	fmt.Fprintf(cmd.OutOrStdout(), "tenant: %s\nuser:   %s <%s>\n", user.TenantID, user.ID, user.Email)
	return nil
}

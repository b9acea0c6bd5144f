package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/besimplit/task-tracker/internal/database"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/repository"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Demo accounts created by seed-demo.
const (
	demoAdminEmail    = "admin@besimplit.com"
	demoAdminPassword = "admin123"
	demoUserPassword  = "usuario123"
)

var demoUserEmails = []string{"usuario1@besimplit.com", "usuario2@besimplit.com"}

type opener func(ctx context.Context) (*gorm.DB, error)

// app holds the connections shared by every subcommand.
type app struct {
	open  opener
	db    *gorm.DB
	users repository.UserRepository
	auth  *services.AuthService
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Administer the task tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return database.Close(a.db)
		},
	}

	root.AddCommand(
		a.setupGroupsCmd(),
		a.createUserCmd(),
		a.seedDemoCmd(),
		a.deactivateUserCmd(),
		a.deleteUserCmd(),
	)
	return root
}

func (a *app) connect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := a.open(ctx)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return err
	}

	a.db = db
	a.users = repository.NewUserRepository(db)
	// Tokens are never issued from the CLI.
	a.auth = services.NewAuthService(a.users, "", 0)
	return nil
}

func (a *app) setupGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-groups",
		Short: "Create the Administrator and Limited User groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, created, err := database.EnsureGroups(a.db)
			if err != nil {
				return err
			}
			for _, name := range []string{models.GroupAdministrator, models.GroupLimitedUser} {
				if contains(created, name) {
					fmt.Fprintf(cmd.OutOrStdout(), "Group %q created\n", name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Group %q already exists\n", name)
				}
			}
			return nil
		},
	}
}

func (a *app) createUserCmd() *cobra.Command {
	var (
		email, password         string
		admin, limited, isSuper bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var groups []string
			if admin {
				groups = append(groups, models.GroupAdministrator)
			}
			if limited {
				groups = append(groups, models.GroupLimitedUser)
			}

			user, err := a.auth.ProvisionUser(cmd.Context(), services.ProvisionUserInput{
				Email:       email,
				Password:    password,
				Groups:      groups,
				IsSuperuser: isSuper,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %s created (id %d, groups %v)\n", user.Email, user.ID, user.GroupNames())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	cmd.Flags().BoolVar(&admin, "admin", false, "add to the Administrator group")
	cmd.Flags().BoolVar(&limited, "limited", false, "add to the Limited User group")
	cmd.Flags().BoolVar(&isSuper, "superuser", false, "grant superuser status")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	cmd.MarkFlagsMutuallyExclusive("admin", "limited")
	return cmd
}

func (a *app) seedDemoCmd() *cobra.Command {
	var (
		count int
		clearTasks bool
	)

	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create demo users and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			if _, _, err := database.EnsureGroups(a.db); err != nil {
				return err
			}

			adminUser, err := a.ensureUser(cmd, demoAdminEmail, demoAdminPassword, models.GroupAdministrator)
			if err != nil {
				return err
			}

			assignees := make([]uint64, 0, len(demoUserEmails))
			for _, email := range demoUserEmails {
				u, err := a.ensureUser(cmd, email, demoUserPassword, models.GroupLimitedUser)
				if err != nil {
					return err
				}
				assignees = append(assignees, u.ID)
			}

			removed, created, err := database.SeedDemoTasks(a.db, database.SeedDemoTasksInput{
				Count:       count,
				Clear:       clearTasks,
				CreatorID:   adminUser.ID,
				AssigneeIDs: assignees,
				Now:         time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			if clearTasks {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d existing tasks\n", removed)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d demo tasks\n", created)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 15, "number of demo tasks")
	cmd.Flags().BoolVar(&clearTasks, "clear", false, "delete every existing task first")
	return cmd
}

// ensureUser returns the user with email, provisioning it when missing.
func (a *app) ensureUser(cmd *cobra.Command, email, password, group string) (*models.User, error) {
	user, err := a.users.FindByEmail(cmd.Context(), email)
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "User %s already exists\n", email)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = a.auth.ProvisionUser(cmd.Context(), services.ProvisionUserInput{
		Email:    email,
		Password: password,
		Groups:   []string{group},
		IsStaff:  group == models.GroupAdministrator,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s created\n", email)
	return user, nil
}

func (a *app) deactivateUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate-user EMAIL",
		Short: "Deactivate a user; their sessions stop working",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.auth.DeactivateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s deactivated\n", user.Email)
			return nil
		},
	}
}

func (a *app) deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user EMAIL",
		Short: "Delete a user; their tasks are kept with the reference cleared",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", services.NormalizeEmail(args[0]))
			return nil
		},
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/database"
	"GREENPATH_BACK-END/internal/hotspot"
	"GREENPATH_BACK-END/internal/models"
)

type roleStore interface {
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
}

type postStore interface {
	Stats(ctx context.Context) (*models.WasteStats, error)
	All(ctx context.Context) ([]models.WastePost, error)
}

// deps is what every subcommand needs once connected
type deps struct {
	roles   roleStore
	posts   postStore
	migrate func(ctx context.Context, command string, args ...string) error
	status  func(ctx context.Context) ([]database.MigrationState, error)
	close   func()
	log     *zap.Logger
}

type openFunc func(ctx context.Context) (*deps, error)

var migrateCommands = []string{"up", "down", "status", "version", "redo", "reset"}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "greenpath-admin",
		Short:        "GreenPath maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(open), newSetRoleCmd(open), newStatsCmd(open))
	return root
}

// withDeps opens the database for the duration of one command
func withDeps(cmd *cobra.Command, open openFunc, fn func(ctx context.Context, d *deps) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := open(ctx)
	if err != nil {
		return err
	}
	if d.close != nil {
		defer d.close()
	}
	return fn(ctx, d)
}

func newMigrateCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <" + strings.Join(migrateCommands, "|") + ">",
		Short:     "Run database migrations",
		Long:      "Run the embedded goose migrations. up applies everything pending, down rolls back one version, status lists every migration.",
		ValidArgs: migrateCommands,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				if args[0] == "status" {
					states, err := d.status(ctx)
					if err != nil {
						return err
					}
					return printMigrations(cmd.OutOrStdout(), states)
				}
				if err := d.migrate(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", args[0])
				return nil
			})
		},
	}
}

func newSetRoleCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <user|admin>",
		Short: "Grant or revoke the admin role on a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}
			role := strings.ToLower(strings.TrimSpace(args[1]))
			if role != models.RoleUser && role != models.RoleAdmin {
				return fmt.Errorf("invalid role %q: must be %s or %s", args[1], models.RoleUser, models.RoleAdmin)
			}

			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				if err := d.roles.SetRole(ctx, userID, role); err != nil {
					return fmt.Errorf("set role: %w", err)
				}
				if d.log != nil {
					d.log.Info("profile role changed", zap.String("user_id", userID.String()), zap.String("role", role))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", userID, role)
				return nil
			})
		},
	}
}

func newStatsCmd(open openFunc) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print waste report totals and the busiest hotspots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, open, func(ctx context.Context, d *deps) error {
				stats, err := d.posts.Stats(ctx)
				if err != nil {
					return fmt.Errorf("stats: %w", err)
				}
				posts, err := d.posts.All(ctx)
				if err != nil {
					return fmt.Errorf("load posts: %w", err)
				}
				return printStats(cmd.OutOrStdout(), stats, hotspot.Group(posts), top)
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "number of hotspots to show")
	return cmd
}

func printStats(out io.Writer, s *models.WasteStats, hotspots []hotspot.Hotspot, top int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "total\t%d\n", s.Total)
	fmt.Fprintf(tw, "pending\t%d\n", s.Pending)
	fmt.Fprintf(tw, "in progress\t%d\n", s.InProgress)
	fmt.Fprintf(tw, "collected\t%d\n", s.Collected)

	if top > len(hotspots) {
		top = len(hotspots)
	}
	if top > 0 {
		fmt.Fprintln(tw, "\nhotspot\treports")
		for _, h := range hotspots[:top] {
			fmt.Fprintf(tw, "%s\t%d\n", h.Area, h.Count)
		}
	}
	return tw.Flush()
}

func printMigrations(out io.Writer, states []database.MigrationState) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "version\tstate\tapplied at\tfile")
	for _, m := range states {
		state, appliedAt := "pending", "-"
		if m.Applied {
			state = "applied"
			appliedAt = m.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.Version, state, appliedAt, m.File)
	}
	return tw.Flush()
}

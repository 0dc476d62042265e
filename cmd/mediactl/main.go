// Command mediactl runs maintenance tasks against the provider database and
// the image host: DNS target sync and logo audits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/nextslot/media-service/internal/audit"
	"github.com/nextslot/media-service/internal/config"
	"github.com/nextslot/media-service/internal/db"
	"github.com/nextslot/media-service/internal/domains"
	"github.com/nextslot/media-service/internal/logging"
	"github.com/nextslot/media-service/internal/provider"
	"github.com/nextslot/media-service/internal/storage"
)

// app carries the dependencies shared by subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	pool   *pgxpool.Pool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "mediactl",
		Short:        "Maintenance tasks for provider media and custom domains",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = config.Load()
			a.logger = logging.New(a.cfg.LogLevel, a.cfg.LogFormat)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.pool != nil {
				a.pool.Close()
			}
		},
	}

	root.AddCommand(newDNSCmd(a), newImagesCmd(a))
	return root
}

func (a *app) providers(ctx context.Context) (*provider.Repository, error) {
	if a.pool == nil {
		pool, err := db.Connect(ctx, a.cfg.DatabaseURL, a.logger)
		if err != nil {
			return nil, err
		}
		a.pool = pool
	}
	return provider.NewRepository(a.pool), nil
}

func (a *app) images(ctx context.Context) (storage.Remote, *storage.CloudinaryStorage, error) {
	remote, err := storage.OpenRemote(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return remote, storage.NewCloudinaryStorage(remote, a.cfg.CloudinaryFolder, a.logger), nil
}

func newDNSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Custom domain DNS targets",
	}

	var dryRun bool
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Compute CNAME/TXT targets for every provider with a custom domain and store them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.providers(cmd.Context())
			if err != nil {
				return err
			}
			namer := domains.Namer{Base: a.cfg.SubdomainBase, TXTPrefix: a.cfg.TXTPrefix}
			results, err := domains.NewSyncer(repo, namer, a.logger).Sync(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			return domains.WriteInstructions(cmd.OutOrStdout(), results, domains.Sheet{
				Base:    a.cfg.SubdomainBase,
				TTL:     a.cfg.DNSRecordTTL,
				Applied: !dryRun,
			})
		},
	}
	sync.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")

	cmd.AddCommand(sync)
	return cmd
}

func newImagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Hosted logo diagnostics",
	}

	var (
		prefix string
		limit  int
	)
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare logo references in the database with hosted images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auditor, err := a.auditor(cmd.Context())
			if err != nil {
				return err
			}
			report, err := auditor.Run(cmd.Context(), prefix, limit)
			if err != nil {
				return err
			}
			return audit.WriteReport(cmd.OutOrStdout(), report)
		},
	}
	auditCmd.Flags().StringVar(&prefix, "prefix", "", "public id prefix to list (default: storage folder)")
	auditCmd.Flags().IntVar(&limit, "limit", 100, "maximum hosted images to list, 0 for all")

	inspect := &cobra.Command{
		Use:   "inspect <provider-id>",
		Short: "Show how a provider's logo reference resolves to URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auditor, err := a.auditor(cmd.Context())
			if err != nil {
				return err
			}
			in, err := auditor.Inspect(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			return audit.WriteInspection(cmd.OutOrStdout(), in)
		},
	}

	cmd.AddCommand(auditCmd, inspect)
	return cmd
}

func (a *app) auditor(ctx context.Context) (*audit.Auditor, error) {
	repo, err := a.providers(ctx)
	if err != nil {
		return nil, err
	}
	remote, images, err := a.images(ctx)
	if err != nil {
		return nil, err
	}
	return audit.New(remote, images, repo), nil
}

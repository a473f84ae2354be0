package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hairyhenderson/go-airdrive"
	"github.com/hairyhenderson/go-airdrive/autostore"
	"github.com/hairyhenderson/go-airdrive/tracestore"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// version is set at build time via ldflags.
var version = "dev"

// app holds the state shared by all commands during a single invocation
type app struct {
	flags   config
	cfgPath string
	verbose bool

	cfg      *config
	logger   *slog.Logger
	span     trace.Span
	shutdown func(context.Context) error
}

// newRootCmd builds the root command with all subcommands registered. Run it
// with a.execute so that tracing is shut down even when a command fails.
func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "airdrive",
		Short:   "Drives in blob storage",
		Long:    "Create, fill, and empty named drives stored in S3, GCS, Azure, or local buckets.",
		Version: version,
		// errors are reported by main
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}

			return a.setup(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "config file path (default $AIRDRIVE_CONFIG)")
	f.StringVar(&a.flags.Credential, "credential", "", "store URL that drives live under, e.g. s3://bucket/prefix")
	f.StringVar(&a.flags.Drive, "drive", "", "drive name")
	f.StringVar(&a.flags.LocalDir, "local-dir", "", "directory downloads are written to (default .)")
	f.IntVar(&a.flags.ChunkSize, "chunk-size", airdrive.DefaultChunkSize, "read size for downloads, in bytes")
	f.BoolVarP(&a.flags.Silent, "quiet", "q", false, "suppress progress messages")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVar(&a.flags.Tracing, "tracing", false, "export traces with OTLP")

	cmd.AddCommand(
		newCreateCmd(a),
		newLsCmd(a),
		newFoldersCmd(a),
		newMkdirCmd(a),
		newPutCmd(a),
		newPutURLCmd(a),
		newMvCmd(a),
		newGetCmd(a),
		newGetAllCmd(a),
		newCatCmd(a),
		newRmCmd(a),
		newRmAllCmd(a),
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := resolveConfig(os.DirFS("/"), a.cfgPath, &a.flags, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	a.cfg = cfg

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cfg.Tracing {
		shutdown, err := initTracing(cmd.Context())
		if err != nil {
			return fmt.Errorf("init trace exporter: %w", err)
		}

		a.shutdown = shutdown

		ctx, span := otel.Tracer("airdrive").Start(cmd.Context(), cmd.Name())
		a.span = span

		cmd.SetContext(ctx)
	}

	return nil
}

// execute runs cmd and then tears down whatever setup started. Cobra skips
// post-run hooks when a command fails, so this can't be one.
func (a *app) execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)

	// the command's context may already be cancelled by a signal
	terr := a.teardown(context.WithoutCancel(ctx))
	if terr != nil {
		terr = fmt.Errorf("shut down tracing: %w", terr)
	}

	return errors.Join(err, terr)
}

func (a *app) teardown(ctx context.Context) error {
	if a.span != nil {
		a.span.End()
		a.span = nil
	}

	if a.shutdown != nil {
		shutdown := a.shutdown
		a.shutdown = nil

		return shutdown(ctx)
	}

	return nil
}

func (a *app) opener() airdrive.Opener {
	var o airdrive.Opener = autostore.Mux()

	if a.cfg.Tracing {
		o = tracestore.Opener(o)
	}

	return o
}

func (a *app) driveOpts() []airdrive.Option {
	return []airdrive.Option{
		airdrive.WithLogger(a.logger),
		airdrive.WithSilent(a.cfg.Silent),
		airdrive.WithLocalDir(a.cfg.LocalDir),
		airdrive.WithChunkSize(a.cfg.ChunkSize),
	}
}

// login opens the configured drive, which must already exist
func (a *app) login(ctx context.Context) (*airdrive.Drive, error) {
	return airdrive.Login(ctx, a.opener(), a.cfg.Credential, a.cfg.Drive, a.driveOpts()...)
}

// withDrive runs f against the configured drive, closing it afterwards
func (a *app) withDrive(cmd *cobra.Command, f func(ctx context.Context, d *airdrive.Drive) error) error {
	ctx := cmd.Context()

	d, err := a.login(ctx)
	if err != nil {
		return err
	}

	defer d.Close()

	return f(ctx, d)
}

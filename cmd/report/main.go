// Command crgg-report runs one competitive revenue gap report in-process and
// prints the closing pitch with the entity table, or the report as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/okian/crgg/internal/app"
	"github.com/okian/crgg/internal/config"
	"github.com/okian/crgg/internal/domain/model"
	"github.com/okian/crgg/internal/render"
	"github.com/okian/crgg/pkg/logger"
)

const acquisitionFailedMessage = "CRGG Failed: Could not acquire competitor data."

type reportFlags struct {
	target     string
	location   string
	targetURL  string
	searchType string
	limit      int
	asJSON     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "crgg-report",
		Short: "Generate a competitive revenue gap report",
		Long: `crgg-report discovers local competitors, audits their websites and
estimates the monthly revenue the target loses to them.

Examples:
  # Pitch and entity table for a dental office
  crgg-report --target "Dr. Smith's Dental Office" --location "Chicago, IL"

  # Three competitors, JSON output
  crgg-report -t "Dr. Smith's Dental Office" -l "Chicago, IL" -n 3 --json

Configuration is read from CRGG_* environment variables, an optional .env
file and the YAML file named by CRGG_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runReport(cmd.Context(), out, errOut, flags)
			if err != nil {
				printFailure(errOut, err)
			}
			return err
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Name of the business the report is for")
	cmd.Flags().StringVarP(&flags.location, "location", "l", "", "Locality to search, e.g. \"Chicago, IL\"")
	cmd.Flags().StringVar(&flags.targetURL, "target-url", "", "Website of the target business")
	cmd.Flags().StringVarP(&flags.searchType, "search-type", "s", "", "Business category (default from config)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "Number of competitors (0 uses the configured default)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the report as JSON")
	cobra.CheckErr(cmd.MarkFlagRequired("target"))
	cobra.CheckErr(cmd.MarkFlagRequired("location"))

	return cmd
}

func runReport(ctx context.Context, out, errOut io.Writer, flags *reportFlags) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// stdout carries the report, so logs go to stderr.
	if err := logger.InitWithOptions(errOut, cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	svc, err := app.NewFromConfig(cfg, logger.Get())
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	report, err := svc.Generate(ctx, model.ReportRequest{
		TargetName: flags.target,
		Location:   flags.location,
		TargetURL:  flags.targetURL,
		SearchType: flags.searchType,
		Limit:      flags.limit,
	})
	if err != nil {
		return err
	}

	if flags.asJSON {
		return render.JSON(out, report)
	}
	if err := render.Pitch(out, report); err != nil {
		return err
	}
	render.Table(out, report)
	return nil
}

func printFailure(w io.Writer, err error) {
	if errors.Is(err, app.ErrAcquisitionFailed) {
		fmt.Fprintln(w, acquisitionFailedMessage)
		return
	}
	fmt.Fprintf(w, "CRGG Failed: %v\n", err)
}

// conductance-sweep loads one community-labelled graph per sweep parameter,
// scores every community by cut conductance and reports the mean and
// population standard deviation per parameter.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-conductance/pkg/config"
	"github.com/dd0wney/cluso-conductance/pkg/loader"
	"github.com/dd0wney/cluso-conductance/pkg/logging"
	"github.com/dd0wney/cluso-conductance/pkg/metrics"
	"github.com/dd0wney/cluso-conductance/pkg/report"
	"github.com/dd0wney/cluso-conductance/pkg/source"
	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:          "conductance-sweep",
		Short:        "Score community conductance across a parameter sweep",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			logger := logging.NewJSONLogger(stderr, logging.ParseLevel(logLevel))
			return run(cmd.Context(), cfg, logger, stdout)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sweep.yaml", "Sweep configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "Log level: debug|info|warn|error (overrides the config file)")

	cmd.AddCommand(validateCmd(&configPath, stdout))
	return cmd
}

func validateCmd(configPath *string, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print the graph paths it would load",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			params, err := cfg.Params()
			if err != nil {
				return err
			}
			tmpl, err := loader.ParsePathTemplate(cfg.Input.PathTemplate)
			if err != nil {
				return err
			}
			for _, p := range params {
				path, err := tmpl.Render(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "%s\t%s\n", loader.FormatParam(p), path)
			}
			return nil
		},
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger, stdout io.Writer) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	var s3 source.Source
	if opts, ok := cfg.S3Options(); ok {
		s3, err = source.NewS3Source(ctx, opts)
		if err != nil {
			return err
		}
	}

	reg := metrics.DefaultRegistry()
	l, err := loader.New(loader.NewDefaultSource(s3), loader.Config{
		PathTemplate: cfg.Input.PathTemplate,
		Decode:       cfg.DecodeOptions(),
	}, logger, reg)
	if err != nil {
		return err
	}

	runner := &sweep.Runner{
		Loader:    l,
		Attribute: cfg.Input.Attribute,
		Workers:   cfg.Sweep.Workers,
		Logger:    logger,
		Metrics:   reg,
	}
	res, err := runner.Run(ctx, params)
	if err != nil {
		logger.Error("sweep failed", logging.Error(err))
		return err
	}

	return writeOutputs(ctx, cfg.Output, res, logger, stdout)
}

func writeOutputs(ctx context.Context, out config.OutputConfig, res *sweep.Result, logger logging.Logger, stdout io.Writer) error {
	if out.JSON != "" {
		if err := writeFile(out.JSON, func(w io.Writer) error { return report.WriteJSON(w, res) }); err != nil {
			return err
		}
		logger.Info("wrote results", logging.Path(out.JSON), logging.String("format", "json"))
	}
	if out.CSV != "" {
		if err := writeFile(out.CSV, func(w io.Writer) error { return report.WriteCSV(w, res) }); err != nil {
			return err
		}
		logger.Info("wrote results", logging.Path(out.CSV), logging.String("format", "csv"))
	}
	if out.Parquet != "" {
		if err := os.MkdirAll(filepath.Dir(out.Parquet), 0o755); err != nil {
			return err
		}
		if err := report.WriteParquet(out.Parquet, res); err != nil {
			return err
		}
		logger.Info("wrote results", logging.Path(out.Parquet), logging.String("format", "parquet"))
	}
	if out.PostgresDSN != "" {
		sink, err := report.NewPostgresSink(ctx, out.PostgresDSN)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := sink.Save(ctx, res); err != nil {
			return err
		}
		logger.Info("saved results to postgres", logging.RunID(res.RunID))
	}
	if out.Table {
		fmt.Fprintln(stdout, report.RenderTable(res))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

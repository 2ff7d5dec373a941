// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/tomtom215/fashionrec/internal/api"
	"github.com/tomtom215/fashionrec/internal/catalog"
	"github.com/tomtom215/fashionrec/internal/config"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
	"github.com/tomtom215/fashionrec/internal/objectstore"
	"github.com/tomtom215/fashionrec/internal/pipeline"
	"github.com/tomtom215/fashionrec/internal/supervisor"
)

// Defaults of the s3 command.
const (
	defaultS3Path    = "s3://2022-msia423-wu-yuyan/raw/2021June-July_product_data.csv"
	defaultLocalPath = "data/external/2021June-July_product_data.csv"
)

func newFlagSet(name string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("fashionrec "+name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	return fs
}

// parseFlags parses args, mapping parse failures to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func runModel(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("model", stdout)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: model takes exactly one action, one of %v", errUsage, pipeline.Actions())
	}
	action := fs.Arg(0)

	reports, err := pipeline.New(cfg).Run(ctx, action)
	printReports(stdout, reports)
	pushMetrics(ctx, cfg, action)

	if errors.Is(err, pipeline.ErrUnknownAction) {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return err
}

func printReports(w io.Writer, reports []pipeline.Report) {
	if len(reports) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tROWS IN\tROWS OUT\tBYTES\tDURATION\tOUTPUT")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			r.Stage, r.RowsIn, r.RowsOut, r.Bytes, r.Duration.Round(time.Millisecond), r.Output)
	}
	_ = tw.Flush()
}

// pushMetrics publishes stage metrics when a Pushgateway is configured. A
// push failure is logged and does not change the exit status.
func pushMetrics(ctx context.Context, cfg *config.Config, action string) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	grouping := map[string]string{"command": "model", "action": action}
	if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName, grouping); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to push metrics")
	}
}

func runS3(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("s3", stdout)
	download := fs.Bool("download", false, "download from S3 instead of uploading")
	s3Path := fs.String("s3_path", defaultS3Path, "s3://bucket/key")
	localPath := fs.String("local_path", defaultLocalPath, "local file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if _, _, err := objectstore.ParseS3Path(*s3Path); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	client, err := objectstore.New(&cfg.ObjectStore)
	if errors.Is(err, objectstore.ErrNoCredentials) {
		logging.Ctx(ctx).Error().Msg(objectstore.CredentialsHint)
		return err
	}
	if err != nil {
		return err
	}

	if *download {
		return client.Download(ctx, *s3Path, *localPath)
	}
	return client.Upload(ctx, *localPath, *s3Path)
}

// openCatalog applies an --engine_string override and opens the store.
func openCatalog(ctx context.Context, cfg *config.Config, engineString string) (*catalog.Store, error) {
	cc := cfg.Catalog
	if engineString != "" {
		cc.DSN = engineString
	}
	return catalog.Open(ctx, &cc)
}

func runCreateDB(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("create_db", stdout)
	engine := fs.String("engine_string", "", "catalog DSN (default: catalog.dsn)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	store, err := openCatalog(ctx, cfg, *engine)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.CreateSchema(ctx)
}

func runIngest(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("ingest_data", stdout)
	engine := fs.String("engine_string", "", "catalog DSN (default: catalog.dsn)")
	inputPath := fs.String("input_path", cfg.Catalog.InputPath, "recommendation CSV")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	store, err := openCatalog(ctx, cfg, *engine)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.IngestFile(ctx, *inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ingested %d rows from %s\n", n, *inputPath)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("serve", stdout)
	port := fs.Int("port", cfg.Server.Port, "listen port")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	store, err := catalog.Open(ctx, &cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	sc := cfg.Server
	reads := api.NewBreakerCatalog(store, api.DefaultBreakerSettings())
	handler := api.NewRouter(
		api.NewHandler(reads, sc.MaxRowsShow, version),
		api.RateLimitConfig{
			Requests: sc.RateLimitRequests,
			Window:   sc.RateLimitWindow,
			Disabled: sc.RateLimitDisabled,
		},
	)

	server := &http.Server{
		Addr:              net.JoinHostPort(sc.Host, strconv.Itoa(*port)),
		Handler:           handler,
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: sc.ShutdownTimeout,
	})
	tree.AddDataService(supervisor.NewCatalogProbe(store, 0))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, sc.ShutdownTimeout))

	logging.Ctx(ctx).Info().
		Str("addr", server.Addr).
		Str("catalog", store.Driver()).
		Int("max_rows_show", sc.MaxRowsShow).
		Msg("Serving lookup API")

	err = tree.Serve(ctx)
	if report, repErr := tree.UnstoppedServiceReport(); repErr == nil && len(report) > 0 {
		logging.Ctx(ctx).Warn().Int("count", len(report)).Msg("Services did not stop in time")
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

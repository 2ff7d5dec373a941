// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package main is the fashionrec command line.
//
// Usage:
//
//	fashionrec [--config FILE] <command> [flags]
//
// Commands:
//
//	model <action>   run a pipeline stage, or "all" for every stage in order
//	s3               upload a file to S3, or download one with --download
//	create_db        create the products table in the catalog
//	ingest_data      load a recommendation CSV into the catalog
//	serve            run the read-only lookup API
//
// Model actions: preprocess_products, preprocess_reviews, truncate_reviews,
// get_csr_matrix, fit_model, recommend, all.
//
// Configuration is read from --config, CONFIG_PATH, or
// config/model_config.yaml, then overridden by environment variables such
// as ENGINE_STRING, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and LOG_LEVEL.
//
// Exit status is 0 on success, 1 when a command fails and 2 on a usage
// error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/fashionrec/internal/config"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
	"github.com/tomtom215/fashionrec/internal/recommend"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errUsage marks errors that should exit with status 2.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// command is one subcommand. args excludes the command name.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error
}

var commands = []command{
	{"model", "run a pipeline stage (or all)", runModel},
	{"s3", "transfer a file to or from S3", runS3},
	{"create_db", "create the products table", runCreateDB},
	{"ingest_data", "load recommendations into the catalog", runIngest},
	{"serve", "serve the lookup API", runServe},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fashionrec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to the YAML config file")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, "fashionrec", version)
		return exitOK
	}
	if fs.NArg() == 0 {
		usage(fs, stderr)
		return exitUsage
	}

	cmd, ok := lookupCommand(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		usage(fs, stderr)
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "fashionrec: %v\n", err)
		return exitFailure
	}
	cfg.Logging.Output = stderr
	logging.Init(cfg.Logging)
	metrics.SetAppInfo(version)

	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("cli").With().Str("command", cmd.name).Logger())

	if err := cmd.run(ctx, cfg, fs.Args()[1:], stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "fashionrec %s: %v\n", cmd.name, err)
			return exitUsage
		}
		ev := logging.Ctx(ctx).Error().Err(err)
		if recommend.IsPipelineError(err) {
			ev = ev.Str("error_kind", recommend.KindName(err)).Str("subject", recommend.SubjectOf(err))
		}
		ev.Msg("Command failed")
		return exitFailure
	}
	return exitOK
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: fashionrec [--config FILE] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fs.PrintDefaults()
}

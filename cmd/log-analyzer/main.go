package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log-analyzer/internal/app"
	"log-analyzer/internal/shared/configs"
	"log-analyzer/internal/shared/svcerrors"

	"github.com/spf13/pflag"
)

const (
	defaultConfigPath = "./configs/configs.yml"

	codeInvalidFlags = "CLI_1000"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("log-analyzer", pflag.ContinueOnError)
	configPath := flags.String("config", defaultConfigPath, "path to the YAML config file")
	force := flags.Bool("force", false, "rebuild the report even if it already exists")
	summary := flags.Int("summary", 0, "print the top N report rows to stdout")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Parse the latest nginx access log and build a report of the slowest URLs.\n\nUsage: log-analyzer [flags]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return svcerrors.ExitCodeOK
		}
		svcErr := svcerrors.NewInvalidArgumentError(codeInvalidFlags, "invalid command line", err)
		fmt.Fprintln(os.Stderr, svcErr.Error())
		return svcErr.ExitCode
	}

	// Load configuration
	cfg, err := configs.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		if errors.Is(err, configs.ErrConfigNotFound) {
			return svcerrors.ExitCodeOK
		}
		return svcerrors.ExitCodeFailure
	}

	// Initialize application
	application, err := app.New(cfg, app.Options{
		Force:         *force,
		SummaryRows:   *summary,
		SummaryWriter: os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		return svcerrors.ExitCodeFailure
	}
	defer application.Close()

	// Interrupts stop the run between two log lines, no report is written
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			return svcErr.ExitCode
		}
		return svcerrors.ExitCodeFailure
	}
	return svcerrors.ExitCodeOK
}

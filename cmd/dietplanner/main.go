// Package main provides the dietplanner command line
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
	"time"

	"github.com/alchemorsel/dietplanner/internal/infrastructure/config"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/container"
	"github.com/alchemorsel/dietplanner/internal/infrastructure/monitoring"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/alchemorsel/dietplanner/pkg/healthcheck"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// A missing .env file is fine
	_ = godotenv.Load()

	global := flag.NewFlagSet("dietplanner", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to a config file")
	global.Usage = func() { usage(global, stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		usage(global, stderr)
		return 2
	}

	name, rest := global.Arg(0), global.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(global, stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	env := &environment{out: stdout, now: time.Now}
	app := fx.New(
		fx.NopLogger,
		container.Module(cfg),
		fx.Populate(&env.svc, &env.metrics, &env.health),
	)

	startCtx, cancelStart := context.WithTimeout(ctx, 30*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(stderr, "error: failed to start: %v\n", err)
		return 1
	}

	code := 0
	if err := cmd.run(ctx, env, rest); err != nil {
		code = report(stderr, err)
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "error: failed to stop: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

// environment is what a command runs against
type environment struct {
	svc     inbound.MealPlanService
	metrics *monitoring.MetricsCollector
	health  *healthcheck.HealthCheck
	out     io.Writer
	now     func() time.Time
}

func report(w io.Writer, err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(w, "error: %v\n", err)
		return 2
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(w, "error: %s\n", appErr.Error())
		if appErr.Recoverable() {
			fmt.Fprintln(w, "nothing changed")
		}
		return 1
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "usage: dietplanner [-config path] <command> [flags]\n\ncommands:\n")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-14s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fs.PrintDefaults()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saddlefit/oms/cmd/omsctl/cli"
	"github.com/saddlefit/oms/internal/app"
	"github.com/saddlefit/oms/internal/orders"
	"github.com/saddlefit/oms/jobs"
)

const usage = `usage: omsctl <command> [flags]

commands:
  permissions [--role ROLE] [--key KEY] [--json]   print the permission matrix
  jobs stats                                       show queue depth
  jobs trigger <name> [--retention 72h]            enqueue a maintenance job
  jobs resend --order ID --number NO --status ST   re-send an order status mail
`

func main() {
	if app.InTestMode() {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "permissions":
		fs := flag.NewFlagSet("permissions", flag.ContinueOnError)
		fs.SetOutput(stderr)
		role := fs.String("role", "", "limit output to one role")
		key := fs.String("key", "", "limit output to one screen key")
		asJSON := fs.Bool("json", false, "emit JSON")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		return cli.PermissionsCommand(cli.PermissionsOptions{Role: *role, Key: *key, JSONOutput: *asJSON, Stdout: stdout, Stderr: stderr})
	case "jobs":
		return runJobs(ctx, args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}
}

func runJobs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}
	jc, err := cli.NewJobsCLI(redisAddr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = jc.Close() }()

	switch args[0] {
	case "stats":
		stats, err := jc.InspectQueues(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs stats: %v\n", err)
			return 1
		}
		for _, s := range stats {
			_, _ = fmt.Fprintf(stdout, "%-12s pending=%d active=%d scheduled=%d retry=%d archived=%d\n",
				s.Queue, s.Pending, s.Active, s.Scheduled, s.Retry, s.Archived)
		}
		return 0
	case "trigger":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stderr, "jobs trigger: job name required")
			return 2
		}
		fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
		fs.SetOutput(stderr)
		retention := fs.Duration("retention", jobs.DefaultIdempotencyRetention, "idempotency key retention")
		if err := fs.Parse(args[2:]); err != nil {
			return 2
		}
		info, err := jc.Trigger(ctx, args[1], *retention)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs trigger: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return 0
	case "resend":
		fs := flag.NewFlagSet("resend", flag.ContinueOnError)
		fs.SetOutput(stderr)
		orderID := fs.Int64("order", 0, "order id")
		number := fs.String("number", "", "order number")
		status := fs.String("status", "", "current order status")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		info, err := jc.ResendOrderNotification(ctx, jobs.OrderNotifyPayload{
			Kind:        orders.EventStatusChanged,
			OrderID:     *orderID,
			OrderNumber: *number,
			Status:      *status,
		})
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs resend: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(stdout, "enqueued %s id=%s at %s\n", info.Type, info.ID, time.Now().UTC().Format(time.RFC3339))
		return 0
	default:
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}
}

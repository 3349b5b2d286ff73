package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gsanchezu/elasticbox-plugin/internal/app"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
	"github.com/gsanchezu/elasticbox-plugin/internal/server"
	"github.com/gsanchezu/elasticbox-plugin/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the descriptor helpers over HTTP",
	Long: `Run an HTTP server exposing the selection lists, box stacks and checks
of every configured cloud as JSON.

Endpoints live under /api/clouds/{cloud}/. List endpoints answer with an
empty array when the cloud cannot be reached. /healthz reports the latest
probe of every cloud when --monitor-interval is set.

Every request naming a cloud is recorded in that cloud's audit journal.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveListen          string
	serveRateLimit       int
	serveRateWindow      time.Duration
	serveMonitorInterval time.Duration
	serveShutdownTimeout time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "Address to listen on")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 0, "Max requests per client per window (0 = unlimited)")
	serveCmd.Flags().DurationVar(&serveRateWindow, "rate-window", time.Minute, "Rate limit window duration")
	serveCmd.Flags().DurationVar(&serveMonitorInterval, "monitor-interval", time.Minute, "Cloud probe interval (0 = disabled)")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var monitor *watch.Monitor
	if serveMonitorInterval > 0 {
		monitor = watch.NewMonitor(serveMonitorInterval, app.Default, watch.WithAuditLogger(app.Default.Audit))
	}

	srv := server.NewServer(&server.Config{
		ListenAddr:        serveListen,
		Clouds:            app.Default,
		Audit:             app.Default,
		Monitor:           monitor,
		RateLimitRequests: serveRateLimit,
		RateLimitWindow:   serveRateWindow,
		Logger:            logging.Logger,
	})

	logInfo("Serving on %s", serveListen)
	logInfo("Config: %s", paths().ConfigFile())
	if serveRateLimit > 0 {
		logInfo("Rate limit: %d requests per %s", serveRateLimit, serveRateWindow)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if monitor != nil {
		g.Go(func() error {
			if err := monitor.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

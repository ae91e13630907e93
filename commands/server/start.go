package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"

	shutdownTimeout = 5 * time.Second
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. Metrics are
// registered with the registerer when it is not nil. The returned function
// releases the application resources.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, func(), error)

// StartCmd returns a command that serves the application over the ABCI
// socket until the process receives SIGINT or SIGTERM, or the command
// context is cancelled.
func StartCmd(gen AppGenerator, logger log.Logger, home *string) *cobra.Command {
	var (
		bind    string
		debug   bool
		metrics string
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var reg *prometheus.Registry
			var registerer prometheus.Registerer
			if metrics != "" {
				reg = prometheus.NewRegistry()
				registerer = reg
			}
			app, cleanup, err := gen(*home, logger, debug, registerer)
			if err != nil {
				return errors.Wrap(err, "create application")
			}
			defer cleanup()

			services := []service{}
			if reg != nil {
				services = append(services, metricsServer(logger, metrics, reg))
			}
			svr, err := server.NewServer(bind, "socket", app)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
			}
			svr.SetLogger(logger.With("module", "abci-server"))
			services = append(services, abciServer{svr: svr, bind: bind, logger: logger})
			return Serve(ctx, logger, services...)
		},
	}
	cmd.Flags().StringVar(&bind, flagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().BoolVar(&debug, flagDebug, false, "call stack returned on error")
	cmd.Flags().StringVar(&metrics, flagMetrics, "", "address to serve prometheus metrics on, for example :9090")
	return cmd
}

// service is a long running component of the node.
type service interface {
	// Start must return once the service is accepting requests.
	Start() error
	Stop() error
}

// Serve starts all services in order and blocks until ctx is done. Services
// are then stopped in reverse order. If a service fails to start, the
// already started ones are stopped and the error is returned.
func Serve(ctx context.Context, logger log.Logger, services ...service) error {
	for i, s := range services {
		if err := s.Start(); err != nil {
			stopAll(logger, services[:i])
			return err
		}
	}
	<-ctx.Done()
	logger.Info("Shutting down")
	stopAll(logger, services)
	return nil
}

func stopAll(logger log.Logger, services []service) {
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(); err != nil {
			logger.Error("Cannot stop service", "err", err)
		}
	}
}

type abciServer struct {
	svr    cmn.Service
	bind   string
	logger log.Logger
}

func (a abciServer) Start() error {
	a.logger.Info("Starting ABCI app", "bind", a.bind)
	if err := a.svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot start server: %s", err)
	}
	return nil
}

func (a abciServer) Stop() error {
	return a.svr.Stop()
}

// httpServer serves a handler until stopped. Start binds the address
// synchronously so that a busy port is reported as a start failure.
type httpServer struct {
	srv    *http.Server
	logger log.Logger
}

func metricsServer(logger log.Logger, addr string, reg *prometheus.Registry) *httpServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &httpServer{
		srv:    &http.Server{Addr: addr, Handler: mux},
		logger: logger.With("module", "metrics"),
	}
}

func (h *httpServer) Start() error {
	ln, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serve metrics: %s", err)
	}
	h.logger.Info("Serving metrics", "addr", ln.Addr().String())
	go func() {
		if err := h.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			h.logger.Error("Metrics server failed", "err", err)
		}
	}()
	return nil
}

func (h *httpServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.srv.Shutdown(ctx)
}

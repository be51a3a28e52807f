package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/openpayroll/cmd/payrolld/app"
	"github.com/iov-one/openpayroll/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	"github.com/tendermint/tendermint/libs/log"
)

// StartCmd runs the ABCI server until the process is interrupted. When a
// metrics address is configured, prometheus metrics are served under
// /metrics on that address.
func StartCmd(conf Config, logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&conf.Bind, "bind", conf.Bind, "address server listens on")
	fs.BoolVar(&conf.Debug, "debug", conf.Debug, "call stack returned on error")
	fs.StringVar(&conf.MetricsAddr, "metrics", conf.MetricsAddr, "address to serve prometheus metrics on, empty to disable")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	application, err := app.GenerateApp(home, logger, conf.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", application)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot start server: %s", err)
	}

	var metrics *http.Server
	if conf.MetricsAddr != "" {
		metrics = serveMetrics(conf.MetricsAddr, logger.With("module", "metrics"))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Shutting down", "signal", s.String())

	if metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(ctx); err != nil {
			logger.Error("metrics shutdown", "err", err)
		}
	}
	return svr.Stop()
}

func serveMetrics(addr string, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server", "err", err)
		}
	}()
	return srv
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/omni/oracle-relay/config"
	"github.com/omni/oracle-relay/logging"
	"github.com/omni/oracle-relay/merkle"
	"github.com/omni/oracle-relay/presenter"
	"github.com/omni/oracle-relay/relay"
	"github.com/omni/oracle-relay/store"
)

func main() {
	logger := logging.New()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithError(err).Warn("can't load .env file")
	}

	configPath := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.ReadConfigFromFile(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("can't read config")
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	st := store.New(logger.WithField("service", "store"))
	r, err := relay.New(logger.WithField("service", "relay"), cfg, st, merkle.NewProver())
	if err != nil {
		logger.WithError(err).Fatal("can't initialize relay")
	}
	if err = r.StartPruner(ctx); err != nil {
		logger.WithError(err).Fatal("can't start store pruner")
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		g.Go(func() error {
			return serve(gctx, cfg.Metrics.Host, mux)
		})
	}

	var updates chan relay.Update
	if cfg.Presenter != nil {
		var sink chan<- relay.Update
		if cfg.Presenter.AcceptUpdates {
			updates = make(chan relay.Update, cfg.Presenter.UpdatesBuffer)
			sink = updates
		}
		pr := presenter.NewPresenter(logger.WithField("service", "presenter"), st, sink)
		logger.WithField("addr", cfg.Presenter.Host).Info("starting presenter service")
		g.Go(func() error {
			return serve(gctx, cfg.Presenter.Host, pr)
		})
	}
	if updates != nil {
		g.Go(func() error {
			r.Run(gctx, updates)
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		logger.WithError(err).Fatal("service failed")
	}
	logger.Warn("caught CTRL-C, gracefully terminated")
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/beanapologist/productive-mining/app/services/platform/handlers"
	"github.com/beanapologist/productive-mining/business/web/metrics"
	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/logger"
	"github.com/beanapologist/productive-mining/foundation/platform/database/memory"
	"github.com/beanapologist/productive-mining/foundation/platform/genesis"
	"github.com/beanapologist/productive-mining/foundation/platform/state"
	"github.com/beanapologist/productive-mining/foundation/platform/worker"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("PLATFORM")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Engine struct {
			MinerName         string        `conf:"default:miner1"`
			GenesisPath       string        `conf:""`
			SelectStrategy    string        `conf:"default:value"`
			KeyPath           string        `conf:""`
			ProgressInterval  time.Duration `conf:"default:1s"`
			AggregateInterval time.Duration `conf:"default:10s"`
			MetricsInterval   time.Duration `conf:"default:15s"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "PLATFORM"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Platform Support

	// Load the genesis configuration. An empty path uses the compiled-in
	// defaults.
	gen, err := genesis.Load(cfg.Engine.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis: %w", err)
	}

	// Need a private key so work records can carry a signature. A configured
	// key path is loaded, otherwise an ephemeral key is generated since the
	// signatures carry no long term meaning in mock mode.
	var privateKey *ecdsa.PrivateKey
	switch {
	case cfg.Engine.KeyPath != "":
		privateKey, err = crypto.LoadECDSA(cfg.Engine.KeyPath)
		if err != nil {
			return fmt.Errorf("unable to load private key: %w", err)
		}
	default:
		privateKey, err = crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("unable to generate private key: %w", err)
		}
	}

	// The records live in memory only, the mock deployment carries no
	// durable storage.
	storage, err := memory.New()
	if err != nil {
		return fmt.Errorf("unable to construct storage: %w", err)
	}

	// The platform engine accepts a function of this signature so every
	// domain event reaches the logs, the websocket clients and the
	// prometheus counters.
	evts := events.New()
	ev := func(typ string, data any) {
		log.Infow("platform event", "type", typ, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(events.Event{Type: typ, Data: data})

		switch typ {
		case events.TypeDiscoveryMade:
			metrics.Discoveries.Inc()
		case events.TypeBlockMined:
			metrics.Blocks.Inc()
		}
	}

	// The state value represents the platform engine and manages the
	// records and provides an API for application support.
	st, err := state.New(state.Config{
		MinerID:        cfg.Engine.MinerName,
		Genesis:        gen,
		Storage:        storage,
		SelectStrategy: cfg.Engine.SelectStrategy,
		PrivateKey:     privateKey,
		EvHandler:      ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the tick driving workflows such as
	// operation progress, block aggregation and metrics recomputation. The
	// worker will register itself with the state.
	worker.Run(st, worker.Config{
		ProgressInterval:  cfg.Engine.ProgressInterval,
		AggregateInterval: cfg.Engine.AggregateInterval,
		MetricsInterval:   cfg.Engine.MetricsInterval,
	}, func(v string, args ...any) {
		log.Infof(v, args...)
	})

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the
	// debug related endpoints. This includes the standard library endpoints
	// and the prometheus scrape endpoint.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

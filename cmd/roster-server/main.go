// Command roster-server is the main server process that answers all client
// requests and periodically commits pending admissions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bren2010/roster/db"
	"github.com/Bren2010/roster/tree/accumulator"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

var (
	configFile = flag.String("config", "", "Location of config file.")
)

func openStore(file string) (db.AccumulatorStore, error) {
	if file == "" {
		log.Println("No database file provided, keeping state in memory.")
		return db.NewLDBMemoryStore()
	}
	return db.NewLDBAccumulatorStore(file)
}

// router returns the API server's routes.
func router(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/v1/meta", HandleAPI("meta", h.Meta)).Methods(http.MethodGet)
	r.HandleFunc("/v1/checkpoint", HandleAPI("checkpoint", h.Checkpoint)).Methods(http.MethodGet)
	r.HandleFunc("/v1/admit", HandleAPI("admit", h.Admit)).Methods(http.MethodPost)
	r.HandleFunc("/v1/publish", HandleAPI("publish", h.Publish)).Methods(http.MethodPost)
	r.HandleFunc("/v1/member", HandleAPI("member", h.Member)).Methods(http.MethodPost)
	return r
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC)
	flag.Parse()

	// Load config from disk.
	if *configFile == "" {
		log.Fatalf("No config file provided, see --help.")
	}
	config, err := ReadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, config)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run serves the API and metrics servers until ctx is cancelled or one of
// them fails. Pending admissions are committed and the database is closed
// before it returns, whether or not there was an error.
func run(ctx context.Context, config *Config) (err error) {
	// Open the accumulator and check that its log is intact.
	store, err := openStore(config.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close database: %w", closeErr))
		}
	}()
	acc, err := accumulator.New(config.APIConfig.suite, store)
	if err != nil {
		return fmt.Errorf("failed to initialize accumulator: %w", err)
	}
	if err := acc.Audit(); err != nil {
		return fmt.Errorf("action log failed audit: %w", err)
	}
	size, _ := acc.Size()
	logSize.Set(float64(size))
	log.Printf("Loaded accumulator with %v actions.", size)

	g, ctx := errgroup.WithContext(ctx)

	// Start the committer thread.
	ch := make(chan CommitRequest)
	g.Go(func() error {
		return committer(ctx, acc, config.APIConfig.commitInterval, ch)
	})

	// Setup the API server.
	h := &Handler{config: config.APIConfig, acc: acc, ch: ch}
	srv := &http.Server{
		Addr:      config.ServerAddr,
		Handler:   router(h),
		TLSConfig: config.tlsConfig,

		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	metricsSrv := metricsServer(config.MetricsAddr)

	g.Go(func() error {
		log.Println("Starting API server.")
		var err error
		if config.TLSConfig == nil {
			err = srv.ListenAndServe()
		} else {
			err = srv.ListenAndServeTLS("", "")
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Println("Starting metrics server.")
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	err = g.Wait()

	// Commit anything that was admitted after the last tick.
	if _, pubErr := publish(acc); pubErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to commit pending admissions: %w", pubErr))
	}
	return err
}

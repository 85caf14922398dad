package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/setianjay/api-contract-tests/config"
	"github.com/setianjay/api-contract-tests/contracttests"
	"github.com/setianjay/api-contract-tests/diag"
	"github.com/setianjay/api-contract-tests/framework"
	"github.com/setianjay/api-contract-tests/jsoncodec"
	"github.com/setianjay/api-contract-tests/mockapi"
	"github.com/setianjay/api-contract-tests/request"
	"github.com/setianjay/api-contract-tests/transport"
)

const statusQueryTimeout = time.Second * 10

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	cfg, err := config.Load(params.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}
	if params.bookingURL != "" {
		cfg.Targets.BookingURL = params.bookingURL
	}
	if params.objectsURL != "" {
		cfg.Targets.ObjectsURL = params.objectsURL
	}

	logger := diag.NewZapLogger(diag.ParseLevel(cfg.Log.Level), os.Stderr)
	defer func() { _ = logger.Sync() }()

	if params.mock {
		mockURL, err := startMockAPI(logger.Named("mockapi"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not start fake APIs: %s\n", err)
			os.Exit(1)
		}
		cfg.Targets.BookingURL = mockURL
		cfg.Targets.ObjectsURL = mockURL
		fmt.Printf("Fake booking and object APIs listening at %s\n", mockURL)
	}

	registry := prometheus.NewRegistry()
	metrics := request.NewMetrics(registry)
	if cfg.Metrics.Addr != "" {
		startMetricsListener(cfg.Metrics.Addr, registry, logger)
	}

	statusClient := cfg.HTTP.Transport().NewClient()
	for _, target := range []string{cfg.Targets.BookingURL, cfg.Targets.ObjectsURL} {
		if err := transport.AwaitReachable(context.Background(), statusClient, target, statusQueryTimeout, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Target %s is not reachable: %s\n", target, err)
			os.Exit(1)
		}
	}
	statusClient.CloseIdleConnections()

	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running test suites")

	env := framework.Environment{
		Codecs:    jsoncodec.NewProvider(logger.Named("json")),
		Clients:   transport.NewRegistry(),
		Store:     diag.NewStore(),
		Logger:    logger,
		Transport: cfg.HTTP.Transport(),
		UserAgent: cfg.HTTP.UserAgent,
		Metrics:   metrics,
		Filter:    params.filters.AsFilter,
		TestLogger: &ConsoleTestLogger{
			DebugOutputOnFailure: params.debug || params.debugAll,
			DebugOutputOnSuccess: params.debugAll,
		},
	}
	results := framework.RunSuites(env, contracttests.All(cfg.Targets.BookingURL, cfg.Targets.ObjectsURL)...)

	fmt.Println()
	framework.PrintResults(results)
	if !results.OK() {
		if len(results.Failures) > 0 {
			fmt.Printf("\nTo run the failed tests again:\n  %s\n", rerunCommand(os.Args[0], params, results.Failures))
		}
		os.Exit(1)
	}
}

func startMockAPI(logger *zap.Logger) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	server := &http.Server{Handler: mockapi.New(logger), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("fake API server stopped", zap.Error(err))
		}
	}()
	return "http://" + listener.Addr().String(), nil
}

func startMetricsListener(addr string, registry *prometheus.Registry, logger *zap.Logger) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("Serving metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener stopped", zap.Error(err))
		}
	}()
}

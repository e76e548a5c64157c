package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    "github.com/local/vectorcheck/internal/classifier"
    cfgpkg "github.com/local/vectorcheck/internal/config"
    "github.com/local/vectorcheck/internal/fetch"
    "github.com/local/vectorcheck/internal/filetype"
    logpkg "github.com/local/vectorcheck/internal/logger"
    "github.com/local/vectorcheck/internal/metrics"
    "github.com/local/vectorcheck/internal/pdf"
    "github.com/local/vectorcheck/internal/report"
    "github.com/local/vectorcheck/internal/server"
    "github.com/local/vectorcheck/internal/statuscheck"
)

func main() {
    _ = godotenv.Load()

    cfg := cfgpkg.FromEnv()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level: cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File: cfg.Logging.File,
        MaxSizeMB: cfg.Logging.MaxSizeMB,
        MaxBackups: cfg.Logging.MaxBackups,
        MaxAgeDays: cfg.Logging.MaxAgeDays,
        Compress: cfg.Logging.Compress,
        SendToAxiom: cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey: cfg.Axiom.APIKey,
        AxiomOrgID: cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush: cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    metrics.Init()

    // Download breaker (optional, needs Redis)
    var breaker *fetch.Breaker
    if cfg.Breaker.RedisURL != "" {
        b, err := fetch.NewBreaker(fetch.BreakerOptions{
            RedisURL:    cfg.Breaker.RedisURL,
            BaseBackoff: cfg.Breaker.BaseBackoff,
            MaxBackoff:  cfg.Breaker.MaxBackoff,
        })
        if err != nil {
            log.Fatal().Err(err).Msg("failed to connect to redis")
        }
        breaker = b
        defer breaker.CloseClient()
    }

    fetcher := fetch.New(fetch.Config{
        ConnectTimeout:     cfg.Fetch.ConnectTimeout,
        ReadTimeout:        cfg.Fetch.ReadTimeout,
        MaxBytes:           cfg.Fetch.MaxBytes,
        MaxAttempts:        cfg.Fetch.MaxAttempts,
        RetryBaseDelay:     cfg.Fetch.RetryBaseDelay,
        RetryBackoffFactor: cfg.Fetch.RetryBackoffFactor,
        AllowS3:            cfg.Fetch.AllowS3,
    }, nil, breaker)

    var pinger statuscheck.RedisPinger
    if breaker != nil {
        pinger = breaker
    }

    srv := server.New(server.Dependencies{
        Fetcher:    fetcher,
        Extractor:  pdf.NewExtractor(),
        Verifier:   filetype.New(),
        Aggregator: report.NewAggregator(classifier.New(cfg.Thresholds)),
        Status:     statuscheck.New(statuscheck.Options{Redis: pinger}),
    })

    mux := http.NewServeMux()
    srv.RegisterRoutes(mux)
    mux.Handle("/metrics", metrics.Handler())

    httpSrv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

    go func(){
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
    defer cancel()
    _ = httpSrv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}

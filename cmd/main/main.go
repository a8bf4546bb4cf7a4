package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"candle-chart/src/config"
	"candle-chart/src/logger"
	"candle-chart/src/server"
)

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	logger.SetLevel(logger.ParseLevel(conf.LogLevel))
	appLogger := logger.NewLogger(conf, conf.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Setup Components
	db, err := setupDatabase(ctx, conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to open database: %v", err)
		return
	}
	defer db.Close()

	store := setupStore(conf.MConfig, appLogger)
	networkManager := setupNetwork(conf.MConfig)
	refresher := setupRefresher(conf.MConfig, store, db, networkManager, appLogger)

	// 5. Restore persisted series before anyone can subscribe
	if _, err := refresher.Restore(); err != nil {
		appLogger.Warning("Restore failed: %v", err)
	}

	srv := server.NewChartServer(conf.MConfig, store, db, logger.NewLogger(conf, "ChartServer"))

	// 6. Start Servers
	grpcServer := startServers(srv, conf, *configPath, refresher, appLogger)

	// 7. Run the refresher until a signal arrives
	var wg sync.WaitGroup
	if len(refresher.SourceNames()) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refresher.Run(ctx)
		}()
	} else {
		appLogger.Info("No data sources configured; serving imported series only")
	}

	<-ctx.Done()
	appLogger.Info("Shutting down...")

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Stop(); err != nil {
		appLogger.Error("Server shutdown: %v", err)
	}
	wg.Wait()
	appLogger.Info("Shutdown complete.")
}

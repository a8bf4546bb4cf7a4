package main

import (
	"fmt"
	"net"

	"candle-chart/src/config"
	datasource "candle-chart/src/data_source"
	pb "candle-chart/src/grpc_control"
	"candle-chart/src/logger"
	"candle-chart/src/server"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers starts the HTTP/WebSocket server and, when a gRPC port is
// configured, the control plane. It returns the gRPC server for shutdown.
func startServers(
	srv *server.ChartServer,
	conf *config.Config,
	configPath string,
	refresher *datasource.Refresher,
	appLogger *logger.Logger,
) *grpc.Server {

	// 1. ChartServer
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 2. gRPC Control Server
	if conf.GrpcPort == 0 {
		appLogger.Info("gRPC control plane disabled")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", conf.GrpcHost, conf.GrpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		appLogger.Critical("failed to listen for gRPC: %v", err)
		return nil
	}

	grpcServer := grpc.NewServer()
	grpcLogger := logger.NewLogger(conf, "ControlService")
	controlService := pb.NewControlService(conf, configPath, srv, refresher, grpcLogger)
	pb.RegisterChartControlServer(grpcServer, controlService)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", addr)
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Error("gRPC server stopped: %v", err)
		}
	}()
	return grpcServer
}

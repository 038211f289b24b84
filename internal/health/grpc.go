package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported for the gateway.
const ServiceName = "employee.gateway"

// GRPCServer mirrors the monitor's status into the standard gRPC health
// service so orchestrators can probe the gateway without HTTP.
type GRPCServer struct {
	monitor  *Monitor
	port     int
	interval time.Duration
	server   *grpc.Server
	health   *grpchealth.Server
	log      *slog.Logger
	last     SystemStatus
}

// NewGRPCServer creates a health server listening on port.
func NewGRPCServer(monitor *Monitor, port int, interval time.Duration, logger *slog.Logger) *GRPCServer {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	hs := grpchealth.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &GRPCServer{
		monitor:  monitor,
		port:     port,
		interval: interval,
		server:   srv,
		health:   hs,
		log:      logger.With("component", "grpc-health"),
	}
}

// Start serves until ctx is cancelled or Stop is called.
func (g *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("listen grpc health on %d: %w", g.port, err)
	}

	g.sync()
	go g.watch(ctx)

	g.log.Info("gRPC health server listening", "port", g.port)
	if err := g.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains connections.
func (g *GRPCServer) Stop() {
	g.health.Shutdown()
	g.server.GracefulStop()
}

func (g *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sync()
		}
	}
}

// sync pushes the current report into the health service.
func (g *GRPCServer) sync() {
	report := g.monitor.Check()

	status := healthpb.HealthCheckResponse_SERVING
	if report.Status == StatusCritical {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ServiceName, status)

	if report.Status != g.last {
		g.log.Info("Health status changed", "from", g.last, "to", report.Status)
		g.last = report.Status
	}
}

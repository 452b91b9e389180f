package health

import (
	"net"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reporting the settlement engine.
const ServiceName = "settlement"

// Server is a gRPC health endpoint. The settlement service reports
// NOT_SERVING while the engine is halted; the overall status stays SERVING
// so reads keep being routed.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// New creates a Server with every service SERVING.
func New() *Server {
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{grpc: grpcServer, health: healthSrv}
}

// SetHalted updates the settlement status. It matches the engine's halt hook.
func (s *Server) SetHalted(halted bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if halted {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	logger.Log.Infow("settlement health changed", "status", status.String())
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains open streams.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

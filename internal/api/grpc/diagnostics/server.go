package diagnostics

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	pb "github.com/oshokin/alert-router/internal/pb/v1"
	"github.com/oshokin/alert-router/internal/router"
)

// RateLimiter is the part of the rate limiter exposed to operators.
type RateLimiter interface {
	Status(scope alert.Scope, id string) (*alert.RateLimitStatus, error)
	Reset(ctx context.Context, scope alert.Scope, id string) error
}

// DeliveryReporter reports PA delivery counters.
type DeliveryReporter interface {
	DeliveryStats() router.DeliveryStats
}

// AlertReader reads persisted alert records.
type AlertReader interface {
	Get(ctx context.Context, alertID string) (*alert.Record, error)
	Stats(ctx context.Context) (*alert.Stats, error)
}

// Server implements the Diagnostics gRPC API.
type Server struct {
	pb.UnimplementedDiagnosticsServer

	// limiter answers bucket queries and operator resets.
	limiter RateLimiter
	// delivery provides the router counters.
	delivery DeliveryReporter
	// alerts is the alert store.
	alerts AlertReader
}

var _ pb.DiagnosticsServer = (*Server)(nil)

// NewServer wires the router components into a gRPC handler.
func NewServer(limiter RateLimiter, delivery DeliveryReporter, alerts AlertReader) *Server {
	return &Server{
		limiter:  limiter,
		delivery: delivery,
		alerts:   alerts,
	}
}

// RateLimitStatus returns the state of one token bucket.
func (s *Server) RateLimitStatus(_ context.Context, req *pb.BucketRequest) (*pb.BucketStatus, error) {
	scope, id, err := parseBucketRequest(req)
	if err != nil {
		return nil, err
	}

	bucket, err := s.limiter.Status(scope, id)
	if err != nil {
		return nil, toStatusError(err, "unable to read rate limit status")
	}

	return toProtoBucket(bucket), nil
}

// ResetRateLimit clears one token bucket.
func (s *Server) ResetRateLimit(ctx context.Context, req *pb.BucketRequest) (*emptypb.Empty, error) {
	scope, id, err := parseBucketRequest(req)
	if err != nil {
		return nil, err
	}

	if err = s.limiter.Reset(ctx, scope, id); err != nil {
		return nil, toStatusError(err, "unable to reset rate limit")
	}

	logger.InfoKV(ctx, "Rate limit reset by operator", "scope", scope, "id", id)

	return new(emptypb.Empty), nil
}

// DeliveryStats returns the cumulative PA delivery counters.
func (s *Server) DeliveryStats(context.Context, *emptypb.Empty) (*pb.DeliveryStats, error) {
	return toProtoDelivery(s.delivery.DeliveryStats()), nil
}

// GetAlert returns one persisted alert record.
func (s *Server) GetAlert(ctx context.Context, req *pb.GetAlertRequest) (*pb.AlertRecord, error) {
	alertID := req.GetAlertId()
	if alertID == "" {
		return nil, status.Error(codes.InvalidArgument, "alertId is required")
	}

	record, err := s.alerts.Get(ctx, alertID)
	if err != nil {
		return nil, toStatusError(err, "unable to read alert")
	}

	return toProtoRecord(record), nil
}

// Stats returns record counts by status.
func (s *Server) Stats(ctx context.Context, _ *emptypb.Empty) (*pb.AlertStats, error) {
	stats, err := s.alerts.Stats(ctx)
	if err != nil {
		return nil, toStatusError(err, "unable to read alert stats")
	}

	return toProtoStats(stats), nil
}

func parseBucketRequest(req *pb.BucketRequest) (alert.Scope, string, error) {
	scope, err := alert.ParseScope(req.GetScope())
	if err != nil {
		return "", "", status.Error(codes.InvalidArgument, err.Error())
	}

	id := req.GetId()
	if id == "" {
		return "", "", status.Error(codes.InvalidArgument, "id is required")
	}

	return scope, id, nil
}

// toStatusError maps domain errors to gRPC codes. Internal details stay in the log.
func toStatusError(err error, message string) error {
	switch {
	case errors.Is(err, alert.ErrUnknownScope):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, alert.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, message)
	}
}

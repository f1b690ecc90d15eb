package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/oshokin/alert-router/internal/domain/alert"
	pb "github.com/oshokin/alert-router/internal/pb/v1"
	"github.com/oshokin/alert-router/internal/router"
)

// DefaultCallTimeout bounds a single diagnostics call.
const DefaultCallTimeout = 5 * time.Second

// Client calls the diagnostics service of a running router.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn

	// diagnostics is the generated stub bound to conn.
	diagnostics pb.DiagnosticsClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when the diagnostics address is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the diagnostics endpoint at address.
// The endpoint is meant for the local operator network and uses plaintext transport.
func Dial(address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial diagnostics: %w", err)
	}

	client := &Client{
		conn:        conn,
		diagnostics: pb.NewDiagnosticsClient(conn),
		callTimeout: DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// RateLimitStatus returns the state of one token bucket.
func (c *Client) RateLimitStatus(ctx context.Context, scope alert.Scope, id string) (*alert.RateLimitStatus, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.diagnostics.RateLimitStatus(callCtx, &pb.BucketRequest{Scope: string(scope), Id: id})
	if err != nil {
		return nil, fmt.Errorf("get rate limit status: %w", err)
	}

	return fromProtoBucket(response)
}

// ResetRateLimit clears one token bucket.
func (c *Client) ResetRateLimit(ctx context.Context, scope alert.Scope, id string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.diagnostics.ResetRateLimit(callCtx, &pb.BucketRequest{Scope: string(scope), Id: id}); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}

	return nil
}

// DeliveryStats returns the router's cumulative PA delivery counters.
func (c *Client) DeliveryStats(ctx context.Context) (*router.DeliveryStats, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.diagnostics.DeliveryStats(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get delivery stats: %w", err)
	}

	return fromProtoDelivery(response)
}

// GetAlert returns one persisted alert record.
func (c *Client) GetAlert(ctx context.Context, alertID string) (*alert.Record, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.diagnostics.GetAlert(callCtx, &pb.GetAlertRequest{AlertId: alertID})
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}

	return fromProtoRecord(response)
}

// Stats returns record counts by status.
func (c *Client) Stats(ctx context.Context) (*alert.Stats, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.diagnostics.Stats(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get alert stats: %w", err)
	}

	return fromProtoStats(response)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

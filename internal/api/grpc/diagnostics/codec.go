package diagnostics

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/oshokin/alert-router/internal/domain/alert"
	pb "github.com/oshokin/alert-router/internal/pb/v1"
	"github.com/oshokin/alert-router/internal/router"
)

// errEmptyMessage is returned when a response carries no payload.
var errEmptyMessage = errors.New("empty diagnostics message")

// toProtoBucket converts a bucket snapshot to its protobuf message.
func toProtoBucket(s *alert.RateLimitStatus) *pb.BucketStatus {
	return &pb.BucketStatus{
		Scope:           string(s.Scope),
		Id:              s.Identifier,
		TokensRemaining: s.TokensRemaining,
		Capacity:        int32(s.Capacity), //nolint:gosec // Capacities are validated small positive numbers.
		IsLimited:       s.IsLimited,
		CooldownUntil:   toProtoTime(s.CooldownUntil),
	}
}

func fromProtoBucket(msg *pb.BucketStatus) (*alert.RateLimitStatus, error) {
	if msg == nil {
		return nil, errEmptyMessage
	}

	cooldownUntil, err := fromProtoTime(msg.GetCooldownUntil())
	if err != nil {
		return nil, fmt.Errorf("cooldown until: %w", err)
	}

	return &alert.RateLimitStatus{
		Scope:           alert.Scope(msg.GetScope()),
		Identifier:      msg.GetId(),
		TokensRemaining: msg.GetTokensRemaining(),
		Capacity:        int(msg.GetCapacity()),
		IsLimited:       msg.GetIsLimited(),
		CooldownUntil:   cooldownUntil,
	}, nil
}

func toProtoDelivery(s router.DeliveryStats) *pb.DeliveryStats {
	return &pb.DeliveryStats{
		CommandsSent:  s.CommandsSent,
		PublishErrors: s.PublishErrors,
		Successes:     s.Successes,
		Failures:      s.Failures,
		SuccessRatio:  s.SuccessRatio,
	}
}

func fromProtoDelivery(msg *pb.DeliveryStats) (*router.DeliveryStats, error) {
	if msg == nil {
		return nil, errEmptyMessage
	}

	return &router.DeliveryStats{
		CommandsSent:  msg.GetCommandsSent(),
		PublishErrors: msg.GetPublishErrors(),
		Successes:     msg.GetSuccesses(),
		Failures:      msg.GetFailures(),
		SuccessRatio:  msg.GetSuccessRatio(),
	}, nil
}

// toProtoRecord converts a persisted alert to its protobuf message.
func toProtoRecord(r *alert.Record) *pb.AlertRecord {
	var createdAt *timestamppb.Timestamp
	if !r.CreatedAt.IsZero() {
		createdAt = timestamppb.New(r.CreatedAt)
	}

	return &pb.AlertRecord{
		AlertId:         r.AlertID,
		TenantId:        r.TenantID,
		BuildingId:      r.BuildingID,
		SourceRoomId:    r.SourceRoomID,
		SourceDeviceId:  r.SourceDeviceID,
		Origin:          r.Origin,
		Mode:            r.Mode,
		TriggeredAt:     r.TriggeredAt,
		CausalChainId:   r.CausalChainID,
		Status:          string(r.Status),
		CreatedAt:       createdAt,
		ProcessedAt:     toProtoTime(r.ProcessedAt),
		TargetRoomCount: int32(r.TargetRoomCount), //nolint:gosec // Room counts per building are small.
		ErrorMessage:    r.ErrorMessage,
	}
}

func fromProtoRecord(msg *pb.AlertRecord) (*alert.Record, error) {
	if msg == nil {
		return nil, errEmptyMessage
	}

	createdAt, err := fromProtoTime(msg.GetCreatedAt())
	if err != nil {
		return nil, fmt.Errorf("created at: %w", err)
	}

	processedAt, err := fromProtoTime(msg.GetProcessedAt())
	if err != nil {
		return nil, fmt.Errorf("processed at: %w", err)
	}

	record := &alert.Record{
		AlertID:         msg.GetAlertId(),
		TenantID:        msg.GetTenantId(),
		BuildingID:      msg.GetBuildingId(),
		SourceRoomID:    msg.GetSourceRoomId(),
		SourceDeviceID:  msg.GetSourceDeviceId(),
		Origin:          msg.GetOrigin(),
		Mode:            msg.GetMode(),
		TriggeredAt:     msg.GetTriggeredAt(),
		CausalChainID:   msg.GetCausalChainId(),
		Status:          alert.Status(msg.GetStatus()),
		ProcessedAt:     processedAt,
		TargetRoomCount: int(msg.GetTargetRoomCount()),
		ErrorMessage:    msg.GetErrorMessage(),
	}

	if createdAt != nil {
		record.CreatedAt = *createdAt
	}

	return record, nil
}

func toProtoStats(s *alert.Stats) *pb.AlertStats {
	return &pb.AlertStats{
		Total:     int64(s.Total),
		Pending:   int64(s.Pending),
		Completed: int64(s.Completed),
		Failed:    int64(s.Failed),
	}
}

func fromProtoStats(msg *pb.AlertStats) (*alert.Stats, error) {
	if msg == nil {
		return nil, errEmptyMessage
	}

	return &alert.Stats{
		Total:     int(msg.GetTotal()),
		Pending:   int(msg.GetPending()),
		Completed: int(msg.GetCompleted()),
		Failed:    int(msg.GetFailed()),
	}, nil
}

func toProtoTime(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}

	return timestamppb.New(*t)
}

// fromProtoTime treats an absent timestamp as nil and rejects out-of-range ones.
func fromProtoTime(ts *timestamppb.Timestamp) (*time.Time, error) {
	if ts == nil {
		return nil, nil //nolint:nilnil // An absent timestamp is not an error.
	}

	if err := ts.CheckValid(); err != nil {
		return nil, err
	}

	t := ts.AsTime()

	return &t, nil
}

package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alert-router/internal/bus/mqtt"
	"github.com/oshokin/alert-router/internal/config"
	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/router"
	"github.com/oshokin/alert-router/internal/service/common"
)

// clientID is the MQTT client id prefix of the trigger command.
const clientID = "alert-trigger"

// Options describes the alert to raise.
type Options struct {
	// ConfigPath to the router settings; only the broker section is used.
	ConfigPath string
	// TenantID, BuildingID and RoomID locate the source room.
	TenantID   string
	BuildingID string
	RoomID     string
	// DeviceID defaults to a name derived from the hostname.
	DeviceID string
	// Mode defaults to AUDIBLE.
	Mode string
	// Origin defaults to API.
	Origin string
	// AlertID defaults to a random UUID. Reusing one simulates a redelivery.
	AlertID string
	// CausalChainID defaults to a random UUID.
	CausalChainID string
}

// errLocationRequired is returned when tenant, building or room is missing.
var errLocationRequired = errors.New("tenant, building and room must be provided")

// Run publishes one trigger with at-least-once delivery and waits for the broker acknowledgement.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alert-trigger")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	trigger, err := BuildTrigger(opts, actor, time.Now())
	if err != nil {
		return err
	}

	payload, err := json.Marshal(trigger)
	if err != nil {
		return fmt.Errorf("encode trigger: %w", err)
	}

	brokerConfig := cfg.Broker
	brokerConfig.ClientID = clientID

	session, err := mqtt.NewSession(ctx, brokerConfig)
	if err != nil {
		return fmt.Errorf("create broker session: %w", err)
	}

	connectTimeout := brokerConfig.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = config.DefaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err = session.Connect(connectCtx); err != nil {
		session.Disconnect()

		return err
	}

	defer session.Disconnect()

	topic := router.TriggerTopic(trigger.TenantID, trigger.BuildingID, trigger.SourceRoomID)

	if err = session.Publish(ctx, topic, mqtt.AtLeastOnce, false, payload); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Alert trigger published",
		"topic", topic,
		"alert_id", trigger.AlertID,
		"causal_chain_id", trigger.CausalChainID,
		"mode", trigger.Mode,
		"device_id", trigger.SourceDeviceID,
		"actor", actor.String())

	return nil
}

// BuildTrigger validates the options and fills generated fields.
func BuildTrigger(opts *Options, actor *common.Actor, now time.Time) (*alert.Trigger, error) {
	tenantID := strings.TrimSpace(opts.TenantID)
	buildingID := strings.TrimSpace(opts.BuildingID)
	roomID := strings.TrimSpace(opts.RoomID)

	if tenantID == "" || buildingID == "" || roomID == "" {
		return nil, errLocationRequired
	}

	mode, err := alert.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	origin := alert.OriginAPI
	if opts.Origin != "" {
		if origin, err = alert.ParseOrigin(opts.Origin); err != nil {
			return nil, err
		}
	}

	deviceID := opts.DeviceID
	if deviceID == "" && actor != nil {
		deviceID = actor.DeviceID()
	}

	return &alert.Trigger{
		AlertID:        orNewUUID(opts.AlertID),
		TenantID:       tenantID,
		BuildingID:     buildingID,
		SourceRoomID:   roomID,
		SourceDeviceID: deviceID,
		Origin:         string(origin),
		Mode:           string(mode),
		Timestamp:      now.UTC().Format(time.RFC3339Nano),
		CausalChainID:  orNewUUID(opts.CausalChainID),
	}, nil
}

func orNewUUID(value string) string {
	if value != "" {
		return value
	}

	return uuid.NewString()
}

package mqtt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
)

// Delivery levels used by the router.
const (
	AtMostOnce  byte = 0
	AtLeastOnce byte = 1
)

const (
	defaultKeepAlive            = 15 * time.Second
	defaultConnectTimeout       = 10 * time.Second
	defaultMaxReconnectInterval = 30 * time.Second
	defaultPublishTimeout       = 3 * time.Second
	defaultDisconnectQuiesce    = 250 * time.Millisecond
	clientIDSuffixLength        = 8
)

var (
	// ErrNotConnected is returned by Publish while the broker is unreachable.
	ErrNotConnected = errors.New("broker is not connected")
	// ErrPublishTimeout is returned when the broker does not acknowledge in time.
	ErrPublishTimeout = errors.New("publish timed out")
	// ErrBrokerURLRequired is returned for an empty broker URL.
	ErrBrokerURLRequired = errors.New("broker url must be provided")
)

// Config is the broker connection configuration.
type Config struct {
	URL                  string        `yaml:"url"`
	ClientID             string        `yaml:"client_id"`
	CACert               string        `yaml:"ca_cert"`
	ClientCert           string        `yaml:"client_cert"`
	ClientKey            string        `yaml:"client_key"`
	Username             string        `yaml:"username"`
	Password             string        `yaml:"password"`
	KeepAlive            time.Duration `yaml:"keep_alive"`
	ConnectTimeout       time.Duration `yaml:"connect_timeout"`
	MaxReconnectInterval time.Duration `yaml:"max_reconnect_interval"`
	PublishTimeout       time.Duration `yaml:"publish_timeout"`
	DisconnectQuiesce    time.Duration `yaml:"disconnect_quiesce"`
}

// Handler processes one inbound message. It runs on the client's dispatch goroutine
// and must hand long work off instead of blocking.
type Handler func(ctx context.Context, topic string, payload []byte)

// Subscription binds a topic filter to a handler.
type Subscription struct {
	Topic   string
	QoS     byte
	Handler Handler
}

// Session is a long-lived broker connection.
type Session struct {
	cfg    Config
	client paho.Client
	// ctx is handed to message handlers; it carries the logger.
	ctx context.Context

	mu   sync.RWMutex
	subs []Subscription
}

// NewSession prepares a session. Nothing is sent until Connect.
func NewSession(ctx context.Context, cfg Config, subs ...Subscription) (*Session, error) {
	applyDefaults(&cfg)

	s := &Session{
		cfg:  cfg,
		ctx:  logger.WithName(ctx, "mqtt"),
		subs: subs,
	}

	opts, err := s.clientOptions()
	if err != nil {
		return nil, err
	}

	s.client = paho.NewClient(opts)

	return s, nil
}

// Connect blocks until the first connection succeeds or ctx is done.
// Failed attempts are retried in the background at the reconnect interval.
func (s *Session) Connect(ctx context.Context) error {
	logger.InfoKV(s.ctx, "Connecting to broker", "url", s.cfg.URL)

	token := s.client.Connect()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("connect to broker: %w", err)
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("connect to broker: %w", ctx.Err())
	}
}

// Publish sends payload and waits for the broker acknowledgement, bounded by the
// publish timeout and ctx.
func (s *Session) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	if !s.client.IsConnectionOpen() {
		return fmt.Errorf("publish to %s: %w", topic, ErrNotConnected)
	}

	token := s.client.Publish(topic, qos, retained, payload)

	timer := time.NewTimer(s.cfg.PublishTimeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}

		return nil
	case <-timer.C:
		return fmt.Errorf("publish to %s: %w", topic, ErrPublishTimeout)
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", topic, ctx.Err())
	}
}

// IsConnected reports whether the connection is currently up.
func (s *Session) IsConnected() bool {
	return s.client.IsConnectionOpen()
}

// Disconnect lets in-flight work finish for the quiesce period and closes the connection.
func (s *Session) Disconnect() {
	s.client.Disconnect(uint(s.cfg.DisconnectQuiesce.Milliseconds()))
	metrics.SetBrokerConnected(false)
	logger.Info(s.ctx, "Disconnected from broker")
}

// ClientID returns the effective, unique client id.
func (s *Session) ClientID() string {
	reader := s.client.OptionsReader()

	return reader.ClientID()
}

func (s *Session) clientOptions() (*paho.ClientOptions, error) {
	if s.cfg.URL == "" {
		return nil, ErrBrokerURLRequired
	}

	brokerURL, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse broker url: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(s.cfg.URL).
		SetClientID(uniqueClientID(s.cfg.ClientID)).
		SetKeepAlive(s.cfg.KeepAlive).
		SetConnectTimeout(s.cfg.ConnectTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Second).
		SetMaxReconnectInterval(s.cfg.MaxReconnectInterval).
		SetCleanSession(true).
		SetOrderMatters(false).
		SetOnConnectHandler(s.onConnect).
		SetConnectionLostHandler(s.onConnectionLost).
		SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
			logger.Warn(s.ctx, "Reconnecting to broker")
		})

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}

	if isTLSScheme(brokerURL.Scheme) {
		tlsConfig, tlsErr := NewTLSConfig(s.cfg.CACert, s.cfg.ClientCert, s.cfg.ClientKey)
		if tlsErr != nil {
			return nil, tlsErr
		}

		opts.SetTLSConfig(tlsConfig)
	}

	return opts, nil
}

// onConnect runs after every successful (re)connect.
func (s *Session) onConnect(client paho.Client) {
	metrics.SetBrokerConnected(true)
	logger.InfoKV(s.ctx, "Connected to broker", "url", s.cfg.URL)

	s.mu.RLock()
	subs := append([]Subscription(nil), s.subs...)
	s.mu.RUnlock()

	s.subscribe(client, subs)
}

// Subscribe registers more subscriptions. They are applied right away when the
// session is connected and again after every reconnect.
func (s *Session) Subscribe(subs ...Subscription) {
	s.mu.Lock()
	s.subs = append(s.subs, subs...)
	s.mu.Unlock()

	if s.client.IsConnectionOpen() {
		s.subscribe(s.client, subs)
	}
}

func (s *Session) subscribe(client paho.Client, subs []Subscription) {
	for _, sub := range subs {
		token := client.Subscribe(sub.Topic, sub.QoS, s.dispatch(sub.Handler))
		if !token.WaitTimeout(s.cfg.ConnectTimeout) {
			logger.ErrorKV(s.ctx, "Subscription timed out", "topic", sub.Topic)

			continue
		}

		if err := token.Error(); err != nil {
			logger.ErrorKV(s.ctx, "Subscription failed", "topic", sub.Topic, "error", err)

			continue
		}

		logger.InfoKV(s.ctx, "Subscribed", "topic", sub.Topic, "qos", sub.QoS)
	}
}

func (s *Session) onConnectionLost(_ paho.Client, err error) {
	metrics.SetBrokerConnected(false)
	logger.WarnKV(s.ctx, "Broker connection lost", "error", err)
}

func (s *Session) dispatch(handler Handler) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		handler(s.ctx, msg.Topic(), msg.Payload())
	}
}

func applyDefaults(cfg *Config) {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = defaultKeepAlive
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	if cfg.MaxReconnectInterval <= 0 {
		cfg.MaxReconnectInterval = defaultMaxReconnectInterval
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	if cfg.DisconnectQuiesce <= 0 {
		cfg.DisconnectQuiesce = defaultDisconnectQuiesce
	}
}

func isTLSScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "ssl", "tls", "mqtts", "tcps", "wss":
		return true
	default:
		return false
	}
}

// uniqueClientID keeps two instances with the same configured id from kicking each other off.
func uniqueClientID(base string) string {
	suffix := uuid.NewString()[:clientIDSuffixLength]
	if base == "" {
		return "alert-router-" + suffix
	}

	return base + "-" + suffix
}

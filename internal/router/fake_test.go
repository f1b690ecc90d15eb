package router

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/pipeline"
)

// published is one message captured by fakeBus.
type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeBus records publishes and fails for the configured topics.
type fakeBus struct {
	mu       sync.Mutex
	messages []published
	failOn   map[string]error
}

func (b *fakeBus) Publish(_ context.Context, topic string, qos byte, retained bool, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.failOn[topic]; err != nil {
		return err
	}

	b.messages = append(b.messages, published{topic: topic, qos: qos, retained: retained, payload: payload})

	return nil
}

func (b *fakeBus) commands() map[string]alert.PlayCommand {
	b.mu.Lock()
	defer b.mu.Unlock()

	commands := make(map[string]alert.PlayCommand, len(b.messages))

	for _, msg := range b.messages {
		var command alert.PlayCommand
		if err := json.Unmarshal(msg.payload, &command); err == nil {
			commands[msg.topic] = command
		}
	}

	return commands
}

// fakeLimiter admits or refuses everything.
type fakeLimiter struct {
	allow bool
	calls atomic.Int32
}

func (l *fakeLimiter) Admit(context.Context, string, string) bool {
	l.calls.Add(1)

	return l.allow
}

// fakeProcessor returns a fixed result and counts calls.
type fakeProcessor struct {
	result pipeline.Result
	calls  atomic.Int32
}

func (p *fakeProcessor) Process(context.Context, *alert.Trigger, time.Time) pipeline.Result {
	p.calls.Add(1)

	return p.result
}

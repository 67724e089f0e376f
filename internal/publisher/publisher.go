// Package publisher periodically writes the tracker's stats report to Kafka.
package publisher

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventType is set on the event_type header of every published snapshot.
const EventType = "action.stats"

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// StatsSource returns the current JSON stats report.
type StatsSource interface {
	Stats(ctx context.Context) string
}

// Option configures optional behaviour for the Publisher.
type Option func(*Publisher)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithClock overrides the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// Publisher writes a stats snapshot whenever the report changed since the last successful write.
type Publisher struct {
	source           StatsSource
	producer         messageWriter
	topic            string
	interval         time.Duration
	logger           *log.Logger
	now              func() time.Time
	last             string
	shutdownComplete chan struct{}
}

// NewPublisher constructs a Publisher.
func NewPublisher(source StatsSource, producer messageWriter, topic string, interval time.Duration, opts ...Option) *Publisher {
	p := &Publisher{
		source:           source,
		producer:         producer,
		topic:            topic,
		interval:         interval,
		logger:           log.New(log.Writer(), "[publisher] ", log.LstdFlags|log.Lshortfile),
		now:              time.Now,
		shutdownComplete: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling loop. It should be called in a goroutine.
func (p *Publisher) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer func() {
		ticker.Stop()
		close(p.shutdownComplete)
	}()

	for {
		if _, err := p.PublishOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Printf("stats publish error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait waits until the publisher stops.
func (p *Publisher) Wait() {
	<-p.shutdownComplete
}

// PublishOnce writes the current report if it differs from the last one published.
// It reports whether a message was written.
func (p *Publisher) PublishOnce(ctx context.Context) (bool, error) {
	report := p.source.Stats(ctx)
	if report == p.last {
		return false, nil
	}

	start := time.Now()
	msg := kafka.Message{
		Key:   []byte("stats"),
		Value: []byte(report),
		Time:  p.now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "content_type", Value: []byte("application/json")},
		},
	}
	err := p.producer.WriteMessages(ctx, p.topic, msg)
	publishDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		publishErrorCounter.Inc()
		return false, err
	}

	p.last = report
	publishedCounter.Inc()
	return true, nil
}

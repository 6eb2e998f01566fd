// Package consumer owns the JetStream side of the indexer: connecting,
// making sure the stream and durable pull consumer exist with the expected
// shape, and running the fetch/process/ack loop.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/10thfloor/NFractional-sub000/internal/observability"
)

// Pipeline is the message sink. The consumer acknowledges every delivered
// message regardless of the returned error; the error is logged and
// counted, never used to hold a message for redelivery.
type Pipeline interface {
	Handle(ctx context.Context, data []byte) error
}

// Options configures a Consumer.
type Options struct {
	StreamName      string // e.g. VAULT_EVENTS
	SubjectRoot     string // e.g. vault.events; stream binds <root>.>
	Network         string // chain network; also the durable name suffix
	BatchSize       int
	FetchWait       time.Duration
	AdminRetryDelay time.Duration // backoff before the single admin retry
	Logger          *log.Logger
}

// Consumer is a durable pull consumer over the vault event stream.
type Consumer struct {
	js       nats.JetStreamContext
	pipeline Pipeline
	opts     Options
	logger   *log.Logger
}

// Connect dials NATS and opens a JetStream context.
func Connect(url string) (*nats.Conn, nats.JetStreamContext, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream context: %w", err)
	}
	return nc, js, nil
}

// New creates a consumer over an existing JetStream context.
func New(js nats.JetStreamContext, pipeline Pipeline, opts Options) *Consumer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.FetchWait <= 0 {
		opts.FetchWait = 5 * time.Second
	}
	if opts.AdminRetryDelay <= 0 {
		opts.AdminRetryDelay = 2 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Consumer{js: js, pipeline: pipeline, opts: opts, logger: logger}
}

// DurableName returns the durable consumer name for this network.
func (c *Consumer) DurableName() string {
	return "indexer-" + c.opts.Network
}

// FilterSubject returns the per-network subject filter.
func (c *Consumer) FilterSubject() string {
	return c.opts.SubjectRoot + "." + c.opts.Network + ".>"
}

// Ensure makes the stream and durable consumer exist with the expected
// shape. Each admin call is retried once after a fixed delay before the
// error propagates.
func (c *Consumer) Ensure(ctx context.Context) error {
	if err := c.withRetry(ctx, "ensure stream", c.ensureStream); err != nil {
		return err
	}
	return c.withRetry(ctx, "ensure consumer", c.ensureConsumer)
}

func (c *Consumer) ensureStream(ctx context.Context) error {
	_, err := c.js.StreamInfo(c.opts.StreamName, nats.Context(ctx))
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream info %s: %w", c.opts.StreamName, err)
	}

	c.logger.Printf("[consumer] stream %s not found, creating", c.opts.StreamName)
	_, err = c.js.AddStream(&nats.StreamConfig{
		Name:     c.opts.StreamName,
		Subjects: []string{c.opts.SubjectRoot + ".>"},
		Storage:  nats.FileStorage,
	}, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("add stream %s: %w", c.opts.StreamName, err)
	}
	return nil
}

func (c *Consumer) ensureConsumer(ctx context.Context) error {
	durable := c.DurableName()
	filter := c.FilterSubject()

	info, err := c.js.ConsumerInfo(c.opts.StreamName, durable, nats.Context(ctx))
	if err != nil {
		if !errors.Is(err, nats.ErrConsumerNotFound) {
			return fmt.Errorf("consumer info %s: %w", durable, err)
		}
		return c.addConsumer(ctx, durable, filter)
	}

	if !filterMismatch(info.Config.FilterSubject, filter) {
		return nil
	}

	// The durable exists but is filtered to the wrong subjects. Recreating
	// it discards the delivery cursor, so the stream is replayed from the
	// start; the idempotency marker absorbs the duplicates. Loud on
	// purpose.
	c.logger.Printf("[consumer] RECREATING durable %s: filter %q does not match expected %q; delivery cursor will be discarded and the stream replayed",
		durable, info.Config.FilterSubject, filter)
	observability.RecordConsumerRecreated()

	if err := c.js.DeleteConsumer(c.opts.StreamName, durable, nats.Context(ctx)); err != nil {
		return fmt.Errorf("delete consumer %s: %w", durable, err)
	}
	return c.addConsumer(ctx, durable, filter)
}

func (c *Consumer) addConsumer(ctx context.Context, durable, filter string) error {
	c.logger.Printf("[consumer] creating durable %s filtered to %s", durable, filter)
	_, err := c.js.AddConsumer(c.opts.StreamName, &nats.ConsumerConfig{
		Durable:       durable,
		FilterSubject: filter,
		AckPolicy:     nats.AckExplicitPolicy,
		DeliverPolicy: nats.DeliverAllPolicy,
		ReplayPolicy:  nats.ReplayInstantPolicy,
	}, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("add consumer %s: %w", durable, err)
	}
	return nil
}

// filterMismatch reports whether an existing durable's filter subject
// disagrees with the one this process needs.
func filterMismatch(existing, expected string) bool {
	return existing != expected
}

// withRetry runs an admin call, retrying once after a fixed delay. Stream
// and consumer admin is a startup concern; a second failure is returned to
// the caller, which treats it as fatal.
func (c *Consumer) withRetry(ctx context.Context, what string, fn func(context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}
	c.logger.Printf("[consumer] %s failed, retrying in %s: %v", what, c.opts.AdminRetryDelay, err)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.opts.AdminRetryDelay):
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// Run binds to the durable and pulls batches until the context is
// cancelled. Every delivered message is acknowledged, including ones the
// pipeline rejects; a failed message that cannot be projected now will not
// be projectable on redelivery either, and holding it would stall the
// subject behind it.
func (c *Consumer) Run(ctx context.Context) error {
	sub, err := c.js.PullSubscribe("", c.DurableName(),
		nats.Bind(c.opts.StreamName, c.DurableName()),
	)
	if err != nil {
		return fmt.Errorf("pull subscribe %s: %w", c.DurableName(), err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Printf("[consumer] unsubscribe: %v", err)
		}
	}()

	c.logger.Printf("[consumer] consuming %s via durable %s, batch %d",
		c.FilterSubject(), c.DurableName(), c.opts.BatchSize)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := sub.Fetch(c.opts.BatchSize, nats.MaxWait(c.opts.FetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				observability.RecordFetch(0, time.Now().Unix())
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.RecordError(observability.StageFetch, "fetch")
			c.logger.Printf("[consumer] fetch: %v", err)
			continue
		}
		observability.RecordFetch(len(msgs), time.Now().Unix())

		for _, msg := range msgs {
			if err := c.pipeline.Handle(ctx, msg.Data); err != nil {
				c.logger.Printf("[consumer] message on %s not projected: %v", msg.Subject, err)
			}
			if err := msg.Ack(); err != nil {
				c.logger.Printf("[consumer] ack: %v", err)
				continue
			}
			observability.RecordAck()
		}
	}
}

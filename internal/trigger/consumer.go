package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/chat-fileout/internal/core"
)

// Handler processes one trigger. A returned error means the job failed as a
// whole; the delivery is negatively acknowledged so the broker redelivers it.
// Retry policy lives entirely with the broker, not here.
type Handler func(ctx context.Context, trig core.Trigger) error

// Recorder receives job outcome observations. Implementations must tolerate
// a nil receiver.
type Recorder interface {
	JobProcessed(status string, dur time.Duration)
}

type Config struct {
	URL   string
	Queue string
}

// Consumer reads trigger messages off a durable queue and dispatches them
// one at a time.
type Consumer struct {
	cfg     Config
	handler Handler
	rec     Recorder
}

func NewConsumer(cfg Config, handler Handler, rec Recorder) *Consumer {
	return &Consumer{cfg: cfg, handler: handler, rec: rec}
}

// Run connects, declares the queue and consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := dial(ctx, c.cfg.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	log.Printf("fileout: waiting for triggers on queue %q", c.cfg.Queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			c.dispatch(ctx, d)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	start := time.Now()

	trig, err := ParseTrigger(d.Body)
	if err != nil {
		// A malformed trigger can never succeed; drop it instead of
		// cycling through redelivery.
		log.Printf("fileout: bad trigger message: %v", err)
		c.record("invalid", start)
		_ = d.Ack(false)
		return
	}

	if err := c.handler(ctx, trig); err != nil {
		log.Printf("fileout: trigger %s/%s failed: %v", trig.ChannelID, trig.VideoID, err)
		c.record("failure", start)
		_ = d.Nack(false, true)
		return
	}

	c.record("success", start)
	_ = d.Ack(false)
}

func (c *Consumer) record(status string, start time.Time) {
	if c.rec == nil {
		return
	}
	c.rec.JobProcessed(status, time.Since(start))
}

// ParseTrigger decodes a trigger message body. video_id and channel_id are
// required; title travels along but is unused by the pipeline.
func ParseTrigger(body []byte) (core.Trigger, error) {
	var trig core.Trigger
	if err := json.Unmarshal(body, &trig); err != nil {
		return core.Trigger{}, err
	}
	trig.VideoID = strings.TrimSpace(trig.VideoID)
	trig.ChannelID = strings.TrimSpace(trig.ChannelID)
	if trig.VideoID == "" || trig.ChannelID == "" {
		return core.Trigger{}, errMissingIdentity
	}
	return trig, nil
}

var errMissingIdentity = errors.New("trigger missing video_id or channel_id")

func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	// broker may come up after the worker; give it a short warmup window
	for i := 0; i < 10; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		timer := time.NewTimer(time.Second * time.Duration(1+i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, err
}

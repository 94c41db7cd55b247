package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Worker is a topic consumer whose lifecycle a ConsumerGroup manages.
type Worker interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs the workers sharing one subscriber, e.g. the cache fill consumer.
type ConsumerGroup struct {
	workers    []Worker
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a new consumer group.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a worker with the group.
func (g *ConsumerGroup) Add(worker Worker) {
	g.workers = append(g.workers, worker)
}

// Topics lists the topics of the registered workers in registration order.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, 0, len(g.workers))
	for _, w := range g.workers {
		topics = append(topics, w.Topic())
	}

	return topics
}

// Start starts every worker. If one fails, the ones already started are stopped again.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, worker := range g.workers {
		if err := worker.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.workers[j].Shutdown()
			}

			return fmt.Errorf("start consumer for %s: %w", worker.Topic(), err)
		}

		g.logger.Info("consumer started", zap.String("topic", worker.Topic()))
	}

	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// Shutdown stops the workers in reverse order, then closes the subscriber.
// Every worker is stopped even when an earlier one fails; all errors are returned.
func (g *ConsumerGroup) Shutdown() error {
	var errs []error

	for i := len(g.workers) - 1; i >= 0; i-- {
		topic := g.workers[i].Topic()

		if err := g.workers[i].Shutdown(); err != nil {
			g.logger.Error("consumer shutdown failed", zap.String("topic", topic), zap.Error(err))
			errs = append(errs, fmt.Errorf("stop consumer for %s: %w", topic, err))

			continue
		}

		g.logger.Info("consumer stopped", zap.String("topic", topic))
	}

	if err := g.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}

	return errors.Join(errs...)
}

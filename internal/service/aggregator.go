package service

import (
	"context"
	"encoding/json"
	"time"

	"kal-storefront/internal/domain"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const DefaultReadRetryDelay = time.Second

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type AggregatorInterface interface {
	Start(ctx context.Context) error
	ProcessEvent(ctx context.Context, event domain.OrderEvent) error
}

// Aggregator folds order events into dashboard statistics.
type Aggregator struct {
	Reader MessageReader
	Stats  StatsStore

	// RetryDelay is the pause after a failed read.
	RetryDelay time.Duration
}

func NewAggregator(reader MessageReader, stats StatsStore) *Aggregator {
	return &Aggregator{Reader: reader, Stats: stats, RetryDelay: DefaultReadRetryDelay}
}

// Start consumes the order topic until ctx is canceled.
func (a *Aggregator) Start(ctx context.Context) error {
	log.Info("starting order event aggregator")
	for {
		message, err := a.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.WithError(err).Error("error reading order event")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(a.RetryDelay):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.WithError(err).WithField("offset", message.Offset).Error("error decoding order event")
			continue
		}
		if err := a.ProcessEvent(ctx, event); err != nil {
			log.WithError(err).WithField("order_id", event.OrderID).Error("error processing order event")
		}
	}
}

func (a *Aggregator) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	switch event.Type {
	case domain.EventOrderPlaced:
		if err := a.Stats.RecordItems(ctx, event.Lines); err != nil {
			return errors.Wrap(err, "record items")
		}
		if err := a.Stats.RecordStatus(ctx, "", event.Status); err != nil {
			return errors.Wrap(err, "record status")
		}
	case domain.EventOrderStatusChanged:
		if err := a.Stats.RecordStatus(ctx, event.PreviousStatus, event.Status); err != nil {
			return errors.Wrap(err, "record status")
		}
	default:
		log.WithField("type", event.Type).Debug("ignoring unknown order event")
		return nil
	}
	log.WithFields(log.Fields{"type": event.Type, "order_id": event.OrderID}).Debug("order event aggregated")
	return nil
}

// InlinePublisher hands events straight to an Aggregator when no broker is configured.
type InlinePublisher struct {
	Aggregator *Aggregator
}

func (p InlinePublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return p.Aggregator.ProcessEvent(ctx, event)
}

var (
	_ AggregatorInterface = (*Aggregator)(nil)
	_ EventPublisher      = InlinePublisher{}
)

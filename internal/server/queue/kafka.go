package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/golfcoachpro/backend/internal/logging"
)

// Config carries the broker connection settings shared by producer and
// consumer.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaPublisher writes analysis tasks to the configured topic. Messages
// are keyed by swing id so re-analysis of one swing stays ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger logging.Logger
}

func NewKafkaPublisher(cfg Config, logger logging.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger.With("module", "kafka_publisher"),
	}
}

func (p *KafkaPublisher) PublishAnalysis(ctx context.Context, task AnalysisTask) error {
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encoding analysis task: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(task.SwingID, 10)),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing analysis task: %w", err)
	}

	p.logger.Info(ctx, "analysis task published", "swing_id", task.SwingID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Consumer reads analysis tasks and hands them to a handler. Commit happens
// only after the handler returns, so a crashed worker re-reads the task.
type Consumer struct {
	reader *kafka.Reader
	logger logging.Logger
}

func NewConsumer(cfg Config, logger logging.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
			GroupID: cfg.GroupID,
		}),
		logger: logger.With("module", "kafka_consumer"),
	}
}

// Run blocks until ctx is cancelled, delivering each task to handle.
// Handler errors are logged, the message is committed anyway: the task is
// retryable through the explicit re-analyze endpoint, not by redelivery.
func (c *Consumer) Run(ctx context.Context, handle func(ctx context.Context, task AnalysisTask) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		var task AnalysisTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			c.logger.Error(ctx, "dropping undecodable task", "error", err.Error())
		} else if err := handle(ctx, task); err != nil {
			c.logger.Error(ctx, "analysis task failed", "swing_id", task.SwingID, "error", err.Error())
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("committing message: %w", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

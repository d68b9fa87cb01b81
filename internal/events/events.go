package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeAssigned     = "task.assigned"
	TypeStatusChange = "task.status_changed"
	TypeFinished     = "control_number.finished"
)

// TaskEvent is published whenever an assignment is created or moves state.
type TaskEvent struct {
	Type          string    `json:"type"`
	TaskID        int64     `json:"taskId,omitempty"`
	ControlNumber int64     `json:"controlNumber"`
	EmployeeID    string    `json:"employeeId,omitempty"`
	From          string    `json:"from,omitempty"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event TaskEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &kafkaPublisher{writer: writer}
}

// Publish keys messages by control number so events of one work order stay ordered.
func (p *kafkaPublisher) Publish(ctx context.Context, event TaskEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ControlNumber, 10)),
		Value: payload,
		Time:  event.Timestamp,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, TaskEvent) error { return nil }
func (Nop) Close() error                             { return nil }

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ClassifyJob is the queue payload for one uploaded document.
type ClassifyJob struct {
	DocumentID uint `json:"document_id"`
}

type ClassifyPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewClassifyPublisher(conn *amqp.Connection, queueName string) *ClassifyPublisher {
	return &ClassifyPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ClassifyPublisher) Publish(ctx context.Context, documentID uint) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(ClassifyJob{DocumentID: documentID})
	if err != nil {
		return fmt.Errorf("marshal classify job failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish classify job failed: %w", err)
	}
	return nil
}

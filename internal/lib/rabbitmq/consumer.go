package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage запускает чтение очереди queueName. Одновременно
// обрабатывается не больше 10 сообщений. Чтение прекращается с отменой ctx.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler Handler) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	sem := make(chan struct{}, 10)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(ctx, d.Body); err != nil {
						log.Error("failed to handle message", slog.String("message_id", d.MessageId), sl.Err(err))
						if nackErr := d.Nack(false, !d.Redelivered); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

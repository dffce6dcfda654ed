package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Channel часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует message в JSON с постоянной доставкой.
func PublishMessage(ch Channel, exchange string, routingKey string, messageID string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует сообщения в Exchange через один канал.
// amqp.Channel не безопасен для конкурентной публикации, поэтому вызовы сериализуются.
// Если задан reopen, закрытый канал открывается заново и публикация повторяется один раз.
type Publisher struct {
	mu     sync.Mutex
	ch     Channel
	reopen func() (Channel, error)
}

// NewPublisher создаёт Publisher поверх настроенного канала.
func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// NewReopeningPublisher создаёт Publisher, который после закрытия канала
// получает новый через reopen.
func NewReopeningPublisher(ch Channel, reopen func() (Channel, error)) *Publisher {
	return &Publisher{ch: ch, reopen: reopen}
}

// NewLinkPublisher создаёт Publisher поверх l, переподключаясь через l.Reopen.
func NewLinkPublisher(l *Link) *Publisher {
	return NewReopeningPublisher(l.Channel(), func() (Channel, error) {
		ch, err := l.Reopen()
		if err != nil {
			return nil, err
		}
		return ch, nil
	})
}

// Publish отправляет message с ключом routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey, messageID string, message any) error {
	const op = "rabbitmq.Publisher.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		if err := p.reopenLocked(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	err := PublishMessage(p.ch, Exchange, routingKey, messageID, message)
	if err == nil || p.reopen == nil || !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	if rerr := p.reopenLocked(); rerr != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(err, rerr))
	}
	return PublishMessage(p.ch, Exchange, routingKey, messageID, message)
}

func (p *Publisher) reopenLocked() error {
	if p.reopen == nil {
		return amqp.ErrClosed
	}
	ch, err := p.reopen()
	if err != nil {
		p.ch = nil
		return err
	}
	p.ch = ch
	return nil
}

package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// Link держит соединение с брокером и канал с объявленной топологией.
// После разрыва Reopen подключается заново и снова объявляет очереди.
type Link struct {
	url     string
	retries int
	delay   time.Duration
	queues  []QueueConfig

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial подключается к брокеру и открывает канал для queues.
func Dial(url string, retries int, delay time.Duration, queues []QueueConfig) (*Link, error) {
	const op = "rabbitmq.Dial"
	l := &Link{url: url, retries: retries, delay: delay, queues: queues}
	if _, err := l.Reopen(); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// Channel возвращает текущий канал.
func (l *Link) Channel() *amqp.Channel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ch
}

// Closed сообщает, что соединения с брокером нет.
func (l *Link) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn == nil || l.conn.IsClosed()
}

// Reopen открывает новый канал. Закрытое соединение устанавливается заново.
func (l *Link) Reopen() (*amqp.Channel, error) {
	const op = "rabbitmq.Link.Reopen"
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil || l.conn.IsClosed() {
		conn, err := Connect(l.url, l.retries, l.delay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		l.conn = conn
	}
	if l.ch != nil {
		_ = l.ch.Close()
		l.ch = nil
	}

	ch, err := SetupChannel(l.conn, l.queues)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	l.ch = ch
	return ch, nil
}

// Close закрывает канал и соединение. Уже закрытые ресурсы не считаются ошибкой.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	if l.ch != nil {
		if err := l.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		l.ch = nil
	}
	if l.conn != nil {
		if err := l.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		l.conn = nil
	}
	return errors.Join(errs...)
}

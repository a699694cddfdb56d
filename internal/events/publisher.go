package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder фиксирует результат публикации (может быть nil)
type MetricsRecorder interface {
	IncEventPublished(event string, ok bool)
}

// Publisher публикует события о бронированиях в topic exchange RabbitMQ
// Ошибки публикации логируются и не пробрасываются вызывающему:
// бизнес-операция не должна падать из-за недоступности брокера
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      Logger
	metrics  MetricsRecorder
}

// NewPublisher подключается к RabbitMQ и объявляет topic exchange
func NewPublisher(url, exchange string, log Logger, metrics MetricsRecorder) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: declare exchange: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log, metrics: metrics}, nil
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// BookingCreated публикует событие о созданной брони
func (p *Publisher) BookingCreated(ctx context.Context, booking *domain.Booking) {
	p.publish(ctx, KeyBookingCreated, booking)
}

// BookingStatusUpdated публикует событие об изменении статуса брони
func (p *Publisher) BookingStatusUpdated(ctx context.Context, booking *domain.Booking) {
	p.publish(ctx, KeyBookingStatusUpdated, booking)
}

// BookingDeleted публикует событие об удалении брони
func (p *Publisher) BookingDeleted(ctx context.Context, booking *domain.Booking) {
	p.publish(ctx, KeyBookingDeleted, booking)
}

func (p *Publisher) publish(ctx context.Context, key string, booking *domain.Booking) {
	event := BookingEvent{
		Event:      key,
		LocationID: booking.LocationID,
		Booking:    FromDomainBooking(booking),
		EmittedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("events: failed to marshal %s for booking id=%d: %v", key, booking.ID, err)
		p.record(key, false)
		return
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.log.Warn("events: failed to publish %s for booking id=%d: %v", key, booking.ID, err)
		p.record(key, false)
		return
	}

	p.record(key, true)
}

func (p *Publisher) record(key string, ok bool) {
	if p.metrics != nil {
		p.metrics.IncEventPublished(key, ok)
	}
}

// NoopPublisher заглушка, используемая когда публикация событий отключена
type NoopPublisher struct{}

// BookingCreated ничего не делает
func (NoopPublisher) BookingCreated(ctx context.Context, booking *domain.Booking) {}

// BookingStatusUpdated ничего не делает
func (NoopPublisher) BookingStatusUpdated(ctx context.Context, booking *domain.Booking) {}

// BookingDeleted ничего не делает
func (NoopPublisher) BookingDeleted(ctx context.Context, booking *domain.Booking) {}

// Package natsbus publica eventos de dominio en NATS como JSON.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-care-backend/internal/ports/events"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("nats: not connected")

// Publisher implementa events.Publisher sobre una conexión core NATS.
type Publisher struct {
	conn *nats.Conn
	log  *zap.Logger
	now  func() time.Time
}

// Connect abre la conexión con reconexión infinita. name identifica al cliente en el servidor.
func Connect(url, name string, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return New(conn, log), nil
}

func New(conn *nats.Conn, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{conn: conn, log: log, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	if p.conn == nil || p.conn.IsClosed() {
		return ErrNotConnected
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = p.now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Subject, err)
	}
	if err := p.conn.Publish(e.Subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Subject, err)
	}

	p.log.Debug("event published", zap.String("subject", e.Subject), zap.Int("bytes", len(data)))
	return nil
}

// Subscribe registra handler para subject (admite comodines, p.ej. "post.*").
func (p *Publisher) Subscribe(subject string, handler func(events.Event)) (*nats.Subscription, error) {
	return p.conn.Subscribe(subject, func(msg *nats.Msg) {
		var e events.Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			p.log.Warn("discarding malformed event", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		handler(e)
	})
}

// Close drena las suscripciones y publicaciones pendientes antes de cerrar.
func (p *Publisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}

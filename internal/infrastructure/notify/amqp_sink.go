package notify

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/streadway/amqp"

	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
)

const defaultAMQPExchange = "football-manager.notifications"

type AMQPConfig struct {
	URL      string
	Exchange string
}

// AMQPSink publishes notifications to a topic exchange with routing key
// "notification.<kind>". amqp.Channel is not safe for concurrent publishes,
// so publishes are serialized.
type AMQPSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *logging.Logger
}

func NewAMQPSink(cfg AMQPConfig, logger *logging.Logger) (*AMQPSink, error) {
	if logger == nil {
		logger = logging.Default()
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = defaultAMQPExchange
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open amqp channel")
	}
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %s", exchange)
	}

	return &AMQPSink{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (s *AMQPSink) Deliver(ctx context.Context, msg notification.Message) error {
	body, err := sonic.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encode notification")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	err = s.channel.Publish(s.exchange, "notification."+string(msg.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.CreatedAt,
		Type:         string(msg.Kind),
		Headers:      amqp.Table{"recipient_id": msg.RecipientID},
		Body:         body,
	})
	if err != nil {
		return errors.Wrapf(err, "publish notification to %s", s.exchange)
	}
	return nil
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs error
	if err := s.channel.Close(); err != nil {
		errs = errors.CombineErrors(errs, err)
	}
	if err := s.conn.Close(); err != nil {
		errs = errors.CombineErrors(errs, err)
	}
	return errs
}

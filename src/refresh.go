package main

import (
	"fmt"

	"twitter-dashboard/src/dashboard"
	"twitter-dashboard/src/filter"
	"twitter-dashboard/src/loader"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RefreshMQConfig holds the RabbitMQ connection settings for the
// refresh queue the batch pipeline publishes to after rewriting its
// output files.
type RefreshMQConfig struct {
	Host     string
	Port     int
	Queue    string
	Username string
	Password string
}

// RefreshMQ wraps a connection to the refresh queue.
type RefreshMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	config  RefreshMQConfig
}

// NewRefreshMQ connects to RabbitMQ and declares the refresh queue.
func NewRefreshMQ(config RefreshMQConfig) (*RefreshMQ, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", config.Username, config.Password, config.Host, config.Port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		config.Queue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// One announcement at a time; a reload is cheap but not free.
	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &RefreshMQ{
		conn:    conn,
		channel: ch,
		queue:   q,
		config:  config,
	}, nil
}

// Close closes the RabbitMQ connection
func (r *RefreshMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Consume starts delivering refresh announcements.
func (r *RefreshMQ) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer
		true,         // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}

// startRefreshListener connects to the refresh queue and reloads the
// dashboard snapshot whenever the batch pipeline announces new output
// files. A failed reload keeps the previous snapshot; only the startup
// load is fatal.
func startRefreshListener(cfg *Config, stopwords *filter.StopwordFilter, snap *dashboard.Snapshot) error {
	mq, err := NewRefreshMQ(RefreshMQConfig{
		Host:     cfg.MQHost,
		Port:     cfg.MQPort,
		Queue:    cfg.MQQueue,
		Username: "guest",
		Password: "guest",
	})
	if err != nil {
		return err
	}

	msgs, err := mq.Consume()
	if err != nil {
		mq.Close()
		return err
	}

	slog.Info("Listening for pipeline refresh announcements", "queue", cfg.MQQueue)

	go func() {
		defer mq.Close()
		for msg := range msgs {
			slog.Info("Pipeline announced new outputs, reloading", "body", string(msg.Body))
			tbls, err := loader.Load(cfg.InputDir, cfg.SampleRows, stopwords)
			if err != nil {
				slog.Error("Reload failed, keeping previous snapshot", "error", err)
				continue
			}
			page, err := dashboard.RenderPage(tbls, pageConfig(cfg))
			if err != nil {
				slog.Error("Re-render failed, keeping previous snapshot", "error", err)
				continue
			}
			snap.Set(page)
			slog.Info("Dashboard snapshot refreshed",
				"tweets", len(tbls.CleanedTweets),
				"users", len(tbls.UserStats))
		}
		slog.Warn("Refresh queue closed; dashboard will keep serving the last snapshot")
	}()

	return nil
}

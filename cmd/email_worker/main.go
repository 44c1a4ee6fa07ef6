package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
	"github.com/oksasatya/my-maps-api/pkg/mailer"
)

const (
	sendTimeout    = 15 * time.Second
	maxAttempts    = 5
	attemptsHeader = "x-attempts"
	maxBackoff     = 30 * time.Second
)

// retryBase is the delay before the first requeue; it doubles per attempt.
var retryBase = time.Second

// publisher is the part of *amqp.Channel used to requeue a job.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// outcome says what to do with a consumed message.
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+" email worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			settle(ctx, ch, cfg.RabbitMQEmailQueue, msg, process(ctx, mg, msg.Body, logger), logger)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// process decodes one job and delivers it. Malformed or unrenderable jobs
// are dropped; send failures are retried.
func process(ctx context.Context, s mailer.Sender, body []byte, logger *logrus.Logger) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		return drop
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err := mailer.Deliver(c, s, job)
	switch {
	case err == nil:
		logger.WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Info("email sent")
		return ack
	case errors.Is(err, mailer.ErrEmptyJob), errors.Is(err, mailer.ErrRender):
		logger.WithError(err).WithField("template", job.Template).Warn("dropping email job")
		return drop
	default:
		logger.WithError(err).WithField("template", job.Template).Warn("send failed; requeueing")
		return retry
	}
}

// settle acks, drops or requeues msg. A retried job is republished after a
// backoff with its attempt count in attemptsHeader, and dropped once it
// reaches maxAttempts.
func settle(ctx context.Context, pub publisher, queue string, msg amqp.Delivery, o outcome, logger *logrus.Logger) {
	switch o {
	case ack:
		_ = msg.Ack(false)
	case drop:
		_ = msg.Nack(false, false)
	case retry:
		n := attempts(msg) + 1
		if n >= maxAttempts {
			logger.WithField("attempts", n).Warn("email job out of attempts; dropping")
			_ = msg.Nack(false, false)
			return
		}
		select {
		case <-ctx.Done():
			_ = msg.Nack(false, true)
			return
		case <-time.After(backoff(n)):
		}

		headers := amqp.Table{}
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers[attemptsHeader] = int32(n)
		next := amqp.Publishing{
			Headers:      headers,
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         msg.Body,
		}
		if err := pub.PublishWithContext(ctx, "", queue, false, false, next); err != nil {
			logger.WithError(err).Warn("requeue publish failed")
			_ = msg.Nack(false, true)
			return
		}
		_ = msg.Ack(false)
	}
}

// attempts reads the failed-send count carried by msg.
func attempts(msg amqp.Delivery) int {
	switch v := msg.Headers[attemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func backoff(n int) time.Duration {
	d := retryBase
	for i := 1; i < n && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

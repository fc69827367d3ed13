package producer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"portal/internal/application/common"
	"portal/internal/application/entity"
	"portal/pkg/broker"
	"portal/pkg/metrics"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// HeaderEvent заголовок сообщения с именем события
const HeaderEvent = "event"

type Producer interface {
	ProduceMessage(ctx context.Context, e entity.OutboxEvent) error
	HealthCheck(ctx context.Context) error
}

type KafkaProducer struct {
	broker      *broker.KafkaBroker
	logger      *zap.SugaredLogger
	maxAttempts int
	m           *metrics.Metrics
	backoff     func(attempt int) time.Duration
}

func NewProducer(broker *broker.KafkaBroker, logger *zap.SugaredLogger, maxAttempts int, m *metrics.Metrics) *KafkaProducer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &KafkaProducer{
		broker:      broker,
		logger:      logger,
		maxAttempts: maxAttempts,
		m:           m,
		backoff:     common.NextBackoffWithJitter,
	}
}

func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	if p.broker == nil {
		return errors.New("kafka broker is not initialized")
	}
	return p.broker.HealthCheck(ctx)
}

// ProduceMessage отправляет конверт события: ключ - имя события, чтобы события одного типа шли в одну партицию
func (p *KafkaProducer) ProduceMessage(ctx context.Context, e entity.OutboxEvent) error {
	topic := p.broker.ProducerTopic
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(e.EventType),
			Value: sarama.ByteEncoder(e.Payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte(HeaderEvent), Value: []byte(e.EventType)},
			},
			Timestamp: time.Now(),
		}

		t0 := time.Now()
		part, off, err := p.broker.SyncProducer.SendMessage(msg)
		rt := time.Since(t0)

		if p.m != nil {
			res := "ok"
			if err != nil {
				res = "error"
			}
			p.m.Kafka.ProducerAttemptLatencySeconds.WithLabelValues(topic, res).Observe(rt.Seconds())
		}

		if err == nil {
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "success").Inc()
				p.m.Kafka.ProducerSuccessAttempts.WithLabelValues(topic).Observe(float64(attempt))
			}
			p.logger.Infof("[ID %d] %s sent topic=%s partition=%d offset=%d attempt=%d rt=%s",
				e.ID, e.EventType, topic, part, off, attempt, rt)
			return nil
		}

		lastErr = err

		var kerr sarama.KError
		if errors.As(err, &kerr) {
			if isPermanent(kerr) {
				if p.m != nil {
					p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "permanent").Inc()
				}
				p.logger.Errorf("[ID %d] permanent kafka error attempt=%d rt=%s kafka_error=%s code=%d", e.ID, attempt, rt, kerr.Error(), int16(kerr))
				return fmt.Errorf("permanent kafka error: %w", kerr)
			}
		}
		p.logger.Warnf("[ID %d] retryable error attempt=%d rt=%s reason=%s err=%v", e.ID, attempt, rt, ClassifyRetry(err), err)

		if attempt == p.maxAttempts {
			break
		}

		if err := common.SleepCtx(ctx, p.backoff(attempt-1)); err != nil {
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "canceled").Inc()
			}
			return err
		}
	}

	if p.m != nil {
		p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "exhausted").Inc()
	}
	p.logger.Errorf("[ID %d] produce_failed after %d attempts: %v", e.ID, p.maxAttempts, lastErr)
	return fmt.Errorf("produce failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func isPermanent(k sarama.KError) bool {
	switch k {
	case sarama.ErrTopicAuthorizationFailed,
		sarama.ErrClusterAuthorizationFailed,
		sarama.ErrInvalidRequest,
		sarama.ErrInvalidMessage,
		sarama.ErrMessageSizeTooLarge,
		sarama.ErrSASLAuthenticationFailed:
		return true
	default:
		return false
	}
}

func ClassifyRetry(err error) string {
	var k sarama.KError
	if errors.As(err, &k) {
		switch k {
		case sarama.ErrLeaderNotAvailable:
			return "leader_not_available"
		case sarama.ErrRequestTimedOut:
			return "broker_timeout"
		case sarama.ErrNotEnoughReplicas, sarama.ErrNotEnoughReplicasAfterAppend:
			return "not_enough_replicas"
		default:
			return k.Error()
		}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "net_timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "client_deadline"
	}
	return "other"
}

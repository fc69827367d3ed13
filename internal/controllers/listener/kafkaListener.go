package listener

import (
	"context"
	"errors"
	"time"

	"portal/internal/application/common"
	use_cases "portal/internal/application/use-cases"
	"portal/pkg/metrics"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// MessageConsumer разбирает и раздает сообщение из Kafka
type MessageConsumer interface {
	ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error
}

type KafkaBrokerConsumer struct {
	usecase MessageConsumer
	logger  *zap.SugaredLogger
	m       *metrics.Metrics
}

func NewKafkaBrokerConsumer(usecase MessageConsumer, logger *zap.SugaredLogger, m *metrics.Metrics) *KafkaBrokerConsumer {
	return &KafkaBrokerConsumer{
		logger:  logger,
		usecase: usecase,
		m:       m,
	}
}

func (k *KafkaBrokerConsumer) Setup(session sarama.ConsumerGroupSession) error {
	k.logger.Infof("Kafka setup success, claims: %v", session.Claims())
	if k.m != nil {
		k.m.Kafka.ConsumerRebalancesTotal.WithLabelValues("setup").Inc()
	}
	return nil
}

func (k *KafkaBrokerConsumer) Cleanup(session sarama.ConsumerGroupSession) error {
	k.logger.Info("Kafka cleanup success")
	if k.m != nil {
		k.m.Kafka.ConsumerRebalancesTotal.WithLabelValues("cleanup").Inc()
	}
	return nil
}

// ConsumeClaim каждое сообщение коммитится, даже нераспознанное: оно не должно блокировать партицию
func (k *KafkaBrokerConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	topic := claim.Topic()

	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			k.handle(session.Context(), topic, msg)
			session.MarkMessage(msg, "")
		}
	}
}

func (k *KafkaBrokerConsumer) handle(ctx context.Context, topic string, msg *sarama.ConsumerMessage) {
	if k.m != nil {
		k.m.Kafka.ConsumerInFlight.WithLabelValues(topic).Inc()
		defer k.m.Kafka.ConsumerInFlight.WithLabelValues(topic).Dec()
	}
	start := time.Now()
	k.logger.Debugf("Message topic:%q partition:%d offset:%d key:%s", msg.Topic, msg.Partition, msg.Offset, msg.Key)

	result := "ok"
	if err := k.usecase.ConsumerMessage(ctx, msg.Value, msg.Timestamp); err != nil {
		result = "error"
		if errors.Is(err, use_cases.ErrUndecodable) {
			result = "decode_error"
		}
		k.logger.Errorf("[offset %d/%d] skip message: %v, value: %.200s", msg.Partition, msg.Offset, err, msg.Value)
	}

	if k.m != nil {
		k.m.Kafka.ConsumerMessagesTotal.WithLabelValues(topic, result).Inc()
		k.m.Kafka.ConsumerProcessDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	}
}

// Run читает топик до отмены ctx; Consume возвращается при каждой ребалансировке
func Run(ctx context.Context, group sarama.ConsumerGroup, topic string, handler sarama.ConsumerGroupHandler, logger *zap.SugaredLogger) {
	logger.Infof("Запуск consumer для топика: %s", topic)

	for {
		err := group.Consume(ctx, []string{topic}, handler)
		if err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				logger.Info("Consumer group закрыта")
				return
			}
			logger.Errorf("Ошибка consumer: %v", err)
			if sleepErr := common.SleepCtx(ctx, time.Second); sleepErr != nil {
				return
			}
		}
		if ctx.Err() != nil {
			logger.Info("Consumer остановлен по контексту")
			return
		}
	}
}

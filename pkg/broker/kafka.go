package broker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal/pkg/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const defaultConsumerGroup = "portal"

type KafkaBroker struct {
	ConsumerTopic string
	ProducerTopic string
	ConsumerGroup sarama.ConsumerGroup
	SyncProducer  sarama.SyncProducer
	Brokers       []string
	conf          config.Kafka
	logger        *zap.SugaredLogger
}

func NewKafkaBroker(conf config.Kafka, logger *zap.SugaredLogger) (*KafkaBroker, error) {
	brokers := splitBrokers(conf.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	logger.Debugf("creating consumer group %q for brokers: %v", groupName(conf), brokers)
	consumerGroup, err := newConsumerGroup(brokers, conf)
	if err != nil {
		return nil, err
	}

	logger.Debugf("creating sync producer for brokers: %v", brokers)
	syncProducer, err := newSyncProducer(brokers, conf)
	if err != nil {
		_ = consumerGroup.Close()
		return nil, err
	}

	broker := &KafkaBroker{
		ConsumerTopic: conf.ReaderTopic,
		ProducerTopic: conf.WriterTopic,
		ConsumerGroup: consumerGroup,
		SyncProducer:  syncProducer,
		Brokers:       brokers,
		conf:          conf,
		logger:        logger,
	}
	logger.Infof("kafka broker ready, consumer topic: %s, producer topic: %s", broker.ConsumerTopic, broker.ProducerTopic)
	return broker, nil
}

// HealthCheck проверяет producer, consumer group и доступность брокеров.
// Partitions() не используется: для него нужны права Describe в ACL.
func (kb *KafkaBroker) HealthCheck(ctx context.Context) error {
	if kb.SyncProducer == nil {
		return errors.New("kafka producer is not initialized")
	}
	if kb.ConsumerGroup == nil {
		return errors.New("kafka consumer group is not initialized")
	}

	cfg := sarama.NewConfig()
	timeout := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < timeout {
			timeout = left
		}
	}
	cfg.Net.DialTimeout = timeout
	cfg.Net.ReadTimeout = timeout
	cfg.Net.WriteTimeout = timeout
	cfg.Metadata.Timeout = timeout
	cfg.Metadata.Retry.Max = 1
	applySASLConfig(cfg, kb.conf, kb.conf.WriterUsr != "")

	client, err := sarama.NewClient(kb.Brokers, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to kafka brokers: %w", err)
	}
	defer client.Close()

	if len(client.Brokers()) == 0 {
		return errors.New("no kafka brokers available")
	}
	return nil
}

func (kb *KafkaBroker) Close() error {
	var errs []error
	if kb.SyncProducer != nil {
		errs = append(errs, kb.SyncProducer.Close())
	}
	if kb.ConsumerGroup != nil {
		errs = append(errs, kb.ConsumerGroup.Close())
	}
	return errors.Join(errs...)
}

// applySASLConfig useWriterCreds: true - WriterUsr/WriterUsrPwd, false - ReaderUsr/ReaderUsrPwd
func applySASLConfig(cfg *sarama.Config, conf config.Kafka, useWriterCreds bool) {
	user, pwd := conf.ReaderUsr, conf.ReaderUsrPwd
	if useWriterCreds {
		user, pwd = conf.WriterUsr, conf.WriterUsrPwd
	}
	if user == "" || pwd == "" {
		return
	}
	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.User = user
	cfg.Net.SASL.Password = pwd
	cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
}

func EnableSaramaZapLogs(base *zap.SugaredLogger) {
	sarama.Logger = &zapSarama{base.Named("sarama")}
}

type zapSarama struct{ l *zap.SugaredLogger }

func (z *zapSarama) Print(v ...interface{})                 { z.l.Debug(v...) }
func (z *zapSarama) Printf(format string, v ...interface{}) { z.l.Debugf(format, v...) }
func (z *zapSarama) Println(v ...interface{})               { z.l.Debug(v...) }

func newConsumerGroup(brokers []string, conf config.Kafka) (sarama.ConsumerGroup, error) {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	kafkaConfig.Consumer.Return.Errors = false
	applySASLConfig(kafkaConfig, conf, false)

	consumer, err := sarama.NewConsumerGroup(brokers, groupName(conf), kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}
	return consumer, nil
}

func newSyncProducer(brokers []string, conf config.Kafka) (sarama.SyncProducer, error) {
	kafkaConfig := sarama.NewConfig()

	kafkaConfig.Net.DialTimeout = 10 * time.Second
	kafkaConfig.Net.ReadTimeout = 15 * time.Second
	kafkaConfig.Net.WriteTimeout = 15 * time.Second
	kafkaConfig.Net.KeepAlive = 30 * time.Second

	kafkaConfig.Metadata.Timeout = 10 * time.Second
	kafkaConfig.Metadata.Retry.Max = 1
	kafkaConfig.Metadata.Retry.Backoff = time.Second
	kafkaConfig.Metadata.RefreshFrequency = time.Minute

	// ретраи делает продюсер приложения, у sarama их выключаем
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.Return.Errors = true
	kafkaConfig.Producer.Retry.Max = 0
	kafkaConfig.Producer.Timeout = 10 * time.Second
	kafkaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	applySASLConfig(kafkaConfig, conf, true)

	producer, err := sarama.NewSyncProducer(brokers, kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka sync producer: %w", err)
	}
	return producer, nil
}

func groupName(conf config.Kafka) string {
	if conf.ConsumerGroup == "" {
		return defaultConsumerGroup
	}
	return conf.ConsumerGroup
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

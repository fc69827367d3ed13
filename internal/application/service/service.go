package service

import (
	"context"
	"time"

	"portal/internal/application/common"
	"portal/internal/application/entity"
	"portal/internal/application/repo"
	"portal/internal/transport/producer"
	"portal/pkg/config"
	"portal/pkg/metrics"

	"go.uber.org/zap"
)

type Service interface {
	RelayEventRun(ctx context.Context)
	PurgeOutbox(ctx context.Context) (int64, error)

	HealthCheck(ctx context.Context) entity.HealthCheckResponse
}

// HealthCheck проверка одной зависимости
type HealthCheck struct {
	Name  string
	Type  string
	Check func(ctx context.Context) error
}

type ServiceImpl struct {
	repo          repo.Repo
	transactions  repo.Transactions
	kafkaProducer producer.Producer
	checks        []HealthCheck
	m             *metrics.Metrics
	logger        *zap.SugaredLogger
	cfg           *config.RelayConfig
}

func NewService(repo repo.Repo, transactions repo.Transactions, kafkaProducer producer.Producer, checks []HealthCheck,
	m *metrics.Metrics, logger *zap.SugaredLogger, cfg *config.RelayConfig) *ServiceImpl {
	return &ServiceImpl{
		repo:          repo,
		transactions:  transactions,
		kafkaProducer: kafkaProducer,
		checks:        checks,
		m:             m,
		logger:        logger,
		cfg:           cfg,
	}
}

// HealthCheck опрашивает зависимости параллельно, status=true только если живы все
func (s *ServiceImpl) HealthCheck(ctx context.Context) entity.HealthCheckResponse {
	type result struct {
		name string
		item entity.HealthCheckItem
	}

	results := make(chan result, len(s.checks))
	for _, hc := range s.checks {
		go func(hc HealthCheck) {
			item := entity.HealthCheckItem{Status: true, Type: hc.Type}
			if err := hc.Check(ctx); err != nil {
				s.logger.Warnf("[health: %s] check failed: %v", hc.Name, err)
				item.Status = false
				item.Error = hc.Type + " connection failed"
			}
			results <- result{name: hc.Name, item: item}
		}(hc)
	}

	resp := entity.HealthCheckResponse{
		Status:  true,
		Message: "success",
		Version: common.Version,
		Checks:  make(map[string]entity.HealthCheckItem, len(s.checks)),
	}
	for range s.checks {
		r := <-results
		resp.Checks[r.name] = r.item
		if !r.item.Status {
			resp.Status = false
			resp.Message = "Some services are unavailable"
		}
	}
	return resp
}

// PurgeOutbox удаляет отправленные записи outbox старше relay.purgeAfterDays
func (s *ServiceImpl) PurgeOutbox(ctx context.Context) (int64, error) {
	s.logger.Debugf("[days: %d] PurgeOutbox started", s.cfg.PurgeAfterDays)

	t0 := time.Now()
	n, err := s.repo.PurgeSent(ctx, s.cfg.PurgeAfterDays)
	if err != nil {
		s.logger.Errorf("purge outbox failed: %v", err)
		return 0, err
	}
	s.logger.Infof("purged %d sent outbox rows in %s", n, time.Since(t0))
	return n, nil
}

package bus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"portal/internal/application/entity"
	"portal/pkg/metrics"

	"go.uber.org/zap"
)

// Handler обработчик события
type Handler func(ctx context.Context, env entity.Envelope) error

type subscription struct {
	name    string
	pattern string
	handler Handler
}

// Bus внутрипроцессная шина событий, прочитанных из Kafka.
// Шаблон подписки:
//   - "BADGE_DELETED" - точное имя
//   - "GENERATE_*" - все события с префиксом
//   - "*" - все события
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
	m    *metrics.Metrics
	log  *zap.SugaredLogger
}

func New(m *metrics.Metrics, logger *zap.SugaredLogger) *Bus {
	return &Bus{m: m, log: logger}
}

// Subscribe регистрирует обработчик. name используется в логах.
func (b *Bus) Subscribe(name, pattern string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{name: name, pattern: pattern, handler: h})
	b.log.Infof("[bus] %s subscribed to %s", name, pattern)
}

// Publish вызывает подходящие обработчики по порядку регистрации.
// Ошибка или паника обработчика логируется и не останавливает остальных.
// Возвращает число обработчиков, завершившихся ошибкой.
func (b *Bus) Publish(ctx context.Context, env entity.Envelope) int {
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if Match(s.pattern, env.Event) {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.count(env.Event, "unhandled")
		b.log.Debugf("[event: %s %s] no subscribers", env.Event, env.ID)
		return 0
	}

	failed := 0
	for _, s := range subs {
		if err := b.call(ctx, s, env); err != nil {
			failed++
			b.count(env.Event, "error")
			b.log.Errorf("[event: %s %s] handler %s failed: %v", env.Event, env.ID, s.name, err)
			continue
		}
		b.count(env.Event, "ok")
	}
	return failed
}

func (b *Bus) call(ctx context.Context, s subscription, env entity.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.handler(ctx, env)
}

func (b *Bus) count(event, result string) {
	if b.m != nil {
		b.m.Events.DispatchedTotal.WithLabelValues(event, result).Inc()
	}
}

// Match проверяет имя события по шаблону подписки
func Match(pattern, event string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(event, strings.TrimSuffix(pattern, "*"))
	default:
		return pattern == event
	}
}

package registry

import (
	"fmt"
	"sort"

	"portal/internal/application/entity"
	"portal/pkg/config"
	"portal/pkg/validator"
)

// Binding связывает событие с триггерами: GET маршрутом и/или расписанием cron
type Binding struct {
	Module   string
	Event    string
	Route    string // пусто - только cron
	Schedule string // пусто - только HTTP
	Enabled  bool
}

var defaultBindings = []Binding{
	{Module: "birthday", Event: entity.EventGenerateDailyBirthday, Route: "/birthday/generate", Schedule: "0 9 * * 1-5", Enabled: true},
	{Module: "news", Event: entity.EventGenerateDailyNews, Route: "/news/generate", Schedule: "0 8 * * 1-5", Enabled: true},
	{Module: "weather", Event: entity.EventGenerateDailyWeather, Route: "/weather/generate", Schedule: "30 7 * * 1-5", Enabled: true},
}

type Registry struct {
	bindings map[string]Binding
}

// New строит реестр из привязок по умолчанию с переопределениями из конфига.
// Неизвестный модуль или неразбираемое расписание - ошибка старта.
func New(overrides map[string]config.CronJob) (*Registry, error) {
	r := &Registry{bindings: make(map[string]Binding, len(defaultBindings))}
	for _, b := range defaultBindings {
		r.bindings[b.Module] = b
	}

	for module, o := range overrides {
		b, ok := r.bindings[module]
		if !ok {
			return nil, fmt.Errorf("unknown module %q in cron config", module)
		}
		if o.Schedule != "" {
			b.Schedule = o.Schedule
		}
		b.Enabled = o.Enabled
		r.bindings[module] = b
	}

	for _, b := range r.bindings {
		if b.Schedule == "" {
			continue
		}
		if err := validator.Validate.Var(b.Schedule, "cron_spec"); err != nil {
			return nil, fmt.Errorf("module %s: invalid schedule %q: %w", b.Module, b.Schedule, err)
		}
	}

	return r, nil
}

// Bindings все привязки, отсортированные по модулю
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}

func (r *Registry) Lookup(module string) (Binding, bool) {
	b, ok := r.bindings[module]
	return b, ok
}

// Scheduled включенные привязки с расписанием
func (r *Registry) Scheduled() []Binding {
	return r.filter(func(b Binding) bool { return b.Schedule != "" })
}

// Routed привязки с GET маршрутом. Выключенный cron не отключает ручной запуск.
func (r *Registry) Routed() []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.Bindings() {
		if b.Route != "" {
			out = append(out, b)
		}
	}
	return out
}

func (r *Registry) filter(keep func(Binding) bool) []Binding {
	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.Bindings() {
		if b.Enabled && keep(b) {
			out = append(out, b)
		}
	}
	return out
}

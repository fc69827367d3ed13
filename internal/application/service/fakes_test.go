package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"
	"portal/pkg/config"

	"go.uber.org/zap"
)

var nopLogger = zap.NewNop().Sugar()

type emitted struct {
	Module  string
	Event   string
	Trigger entity.Trigger
	Payload any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
	err    error
}

func (f *fakeEmitter) Emit(_ context.Context, module, event string, trigger entity.Trigger, payload any) (entity.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return entity.Envelope{}, f.err
	}
	f.events = append(f.events, emitted{module, event, trigger, payload})
	return entity.Envelope{Event: event, Module: module, Trigger: trigger}, nil
}

type fakeTransactions struct {
	mu        sync.Mutex
	inserted  []entity.OutboxEvent
	insertErr error
	reserved  []entity.OutboxEvent
	sent      []int
	sentErr   error
}

func (f *fakeTransactions) InsertOutboxEvents(_ context.Context, events []entity.OutboxEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for i := range events {
		events[i].ID = len(f.inserted) + 1
		f.inserted = append(f.inserted, events[i])
	}
	return nil
}

func (f *fakeTransactions) GetOperationsFromOutbox(context.Context, config.RelayConfig) ([]entity.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.reserved
	f.reserved = nil
	return res, nil
}

func (f *fakeTransactions) MarkSent(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sentErr != nil {
		return f.sentErr
	}
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeTransactions) sentIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.sent...)
}

type fakeOutboxRepo struct {
	failed  map[int]time.Time
	gaveUp  []int
	purged  int
	healthy error
}

func (f *fakeOutboxRepo) InsertOutbox(context.Context, *entity.OutboxEvent) (int, error) { return 0, nil }

func (f *fakeOutboxRepo) ReserveOutboxBatch(context.Context, time.Duration, int, int) ([]entity.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkFailedWithBackoff(_ context.Context, id int, next time.Time) error {
	if f.failed == nil {
		f.failed = map[int]time.Time{}
	}
	f.failed[id] = next
	return nil
}

func (f *fakeOutboxRepo) MarkGaveUp(_ context.Context, id int) error {
	f.gaveUp = append(f.gaveUp, id)
	return nil
}

func (f *fakeOutboxRepo) PurgeSent(_ context.Context, days int) (int64, error) {
	f.purged = days
	return 3, nil
}

func (f *fakeOutboxRepo) HealthCheck(context.Context) error { return f.healthy }

type fakeProducer struct {
	err  error
	sent []entity.OutboxEvent
}

func (f *fakeProducer) ProduceMessage(_ context.Context, e entity.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeProducer) HealthCheck(context.Context) error { return f.err }

// fakeLevelingRepo хранит документы в памяти
type fakeLevelingRepo struct {
	badges    map[string]entity.Badge
	quests    map[string]entity.Quest
	profiles  map[string]entity.Profile
	lootboxes map[string]entity.Lootbox
	seq       int
	pulled    []string
	// afterWrite вызывается после записи ссылки на бейдж (квест, награждение)
	afterWrite func()
}

func newFakeLevelingRepo() *fakeLevelingRepo {
	return &fakeLevelingRepo{
		badges:    map[string]entity.Badge{},
		quests:    map[string]entity.Quest{},
		profiles:  map[string]entity.Profile{},
		lootboxes: map[string]entity.Lootbox{},
	}
}

func (f *fakeLevelingRepo) written() {
	if f.afterWrite != nil {
		f.afterWrite()
	}
}

func (f *fakeLevelingRepo) id(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeLevelingRepo) CreateBadge(_ context.Context, b *entity.Badge) error {
	for _, existing := range f.badges {
		if existing.Name == b.Name {
			return appers.ErrAlreadyExists
		}
	}
	b.ID = f.id("badge")
	f.badges[b.ID] = *b
	return nil
}

func (f *fakeLevelingRepo) ListBadges(context.Context) ([]entity.Badge, error) {
	res := []entity.Badge{}
	for _, b := range f.badges {
		res = append(res, b)
	}
	return res, nil
}

func (f *fakeLevelingRepo) GetBadge(_ context.Context, id string) (entity.Badge, error) {
	b, ok := f.badges[id]
	if !ok {
		return b, appers.ErrNotFound
	}
	return b, nil
}

func (f *fakeLevelingRepo) DeleteBadgeCascade(_ context.Context, id string) (entity.BadgeCascade, error) {
	if _, ok := f.badges[id]; !ok {
		return entity.BadgeCascade{BadgeID: id}, appers.ErrNotFound
	}
	res := f.pull(id)
	delete(f.badges, id)
	return res, nil
}

func (f *fakeLevelingRepo) PullBadge(_ context.Context, id string) (entity.BadgeCascade, error) {
	f.pulled = append(f.pulled, id)
	return f.pull(id), nil
}

func (f *fakeLevelingRepo) pull(id string) entity.BadgeCascade {
	res := entity.BadgeCascade{BadgeID: id}
	for qid, q := range f.quests {
		if kept, removed := without(q.Badges, id); removed {
			q.Badges = kept
			f.quests[qid] = q
			res.QuestsUpdated++
		}
	}
	for uid, p := range f.profiles {
		if kept, removed := without(p.Badges, id); removed {
			p.Badges = kept
			f.profiles[uid] = p
			res.ProfilesUpdated++
		}
	}
	return res
}

func (f *fakeLevelingRepo) CreateQuest(_ context.Context, q *entity.Quest) error {
	q.ID = f.id("quest")
	f.quests[q.ID] = *q
	f.written()
	return nil
}

func (f *fakeLevelingRepo) ListQuests(context.Context, entity.QuestStatus) ([]entity.Quest, error) {
	return nil, nil
}

func (f *fakeLevelingRepo) GetQuest(_ context.Context, id string) (entity.Quest, error) {
	q, ok := f.quests[id]
	if !ok {
		return q, appers.ErrNotFound
	}
	return q, nil
}

func (f *fakeLevelingRepo) UpdateQuestStatus(_ context.Context, id string, status entity.QuestStatus) (entity.Quest, error) {
	q, ok := f.quests[id]
	if !ok {
		return q, appers.ErrNotFound
	}
	q.Status = status
	f.quests[id] = q
	return q, nil
}

func (f *fakeLevelingRepo) GetProfile(_ context.Context, userID string) (entity.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return p, appers.ErrNotFound
	}
	return p, nil
}

func (f *fakeLevelingRepo) AwardBadge(_ context.Context, userID, badgeID string) (entity.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		p = entity.NewProfile(userID)
	}
	if _, dup := without(p.Badges, badgeID); !dup {
		p.Badges = append(p.Badges, badgeID)
	}
	f.profiles[userID] = p
	f.written()
	return p, nil
}

func (f *fakeLevelingRepo) CreateLootbox(_ context.Context, l *entity.Lootbox) error {
	l.ID = f.id("box")
	f.lootboxes[l.ID] = *l
	return nil
}

func (f *fakeLevelingRepo) GetLootbox(_ context.Context, id string) (entity.Lootbox, error) {
	l, ok := f.lootboxes[id]
	if !ok {
		return l, appers.ErrNotFound
	}
	return l, nil
}

func (f *fakeLevelingRepo) ListLootboxes(context.Context, string) ([]entity.Lootbox, error) {
	return nil, nil
}

type fakeAssetRepo struct {
	assets map[string]entity.Asset
}

func (f *fakeAssetRepo) CreateAsset(_ context.Context, a *entity.Asset) error {
	for _, existing := range f.assets {
		if existing.SerialNumber == a.SerialNumber {
			return appers.ErrAlreadyExists
		}
	}
	a.ID = "asset-" + a.SerialNumber
	f.assets[a.ID] = *a
	return nil
}

func (f *fakeAssetRepo) ListAssets(context.Context, entity.AssetFilter) ([]entity.Asset, error) {
	return nil, nil
}

func (f *fakeAssetRepo) GetAsset(_ context.Context, id string) (entity.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return a, appers.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssetRepo) ReplaceAsset(_ context.Context, a *entity.Asset) error {
	if _, ok := f.assets[a.ID]; !ok {
		return appers.ErrNotFound
	}
	f.assets[a.ID] = *a
	return nil
}

func (f *fakeAssetRepo) DeleteAsset(_ context.Context, id string) error {
	if _, ok := f.assets[id]; !ok {
		return appers.ErrNotFound
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeAssetRepo) AssignAsset(_ context.Context, id, userID string) (entity.Asset, error) {
	a, ok := f.assets[id]
	if !ok {
		return a, appers.ErrNotFound
	}
	if a.Status != entity.AssetAvailable {
		return a, appers.ErrAssetNotAssignable
	}
	a.Status, a.AssignedTo = entity.AssetAssigned, userID
	f.assets[id] = a
	return a, nil
}

func (f *fakeAssetRepo) ReleaseAsset(_ context.Context, id string) (entity.Asset, string, error) {
	a, ok := f.assets[id]
	if !ok {
		return a, "", appers.ErrNotFound
	}
	if a.Status != entity.AssetAssigned {
		return entity.Asset{}, "", appers.ErrAssetNotAssigned
	}
	prev := a.AssignedTo
	a.Status, a.AssignedTo = entity.AssetAvailable, ""
	f.assets[id] = a
	return a, prev, nil
}

// fakePresenceRepo повторяет уникальный ключ (userId, date, period)
type fakePresenceRepo struct {
	records map[string]entity.Presence
	from    string
	to      string
}

func (f *fakePresenceRepo) UpsertPresence(_ context.Context, p *entity.Presence) (bool, error) {
	key := p.UserID + "|" + p.Date + "|" + string(p.Period)
	existing, ok := f.records[key]
	if ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = key
	}
	f.records[key] = *p
	return !ok, nil
}

func (f *fakePresenceRepo) ListPresenceByDate(context.Context, string) ([]entity.Presence, error) {
	return nil, nil
}

func (f *fakePresenceRepo) ListPresenceByUser(_ context.Context, _, from, to string) ([]entity.Presence, error) {
	f.from, f.to = from, to
	return []entity.Presence{}, nil
}

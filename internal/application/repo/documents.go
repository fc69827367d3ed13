package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal/internal/appers"
	"portal/pkg/db"
	"portal/pkg/metrics"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Коллекции документов модулей
const (
	BadgesCollection    = "badges"
	QuestsCollection    = "quests"
	ProfilesCollection  = "profiles"
	LootboxesCollection = "lootboxes"
	ContactsCollection  = "contacts"
	AssetsCollection    = "assets"
	PresenceCollection  = "presence"
)

// Indexes индексы, которые создаются при старте
func Indexes() []db.Index {
	return []db.Index{
		{Collection: BadgesCollection, Keys: bson.D{{Key: "name", Value: 1}}, Unique: true},
		{Collection: QuestsCollection, Keys: bson.D{{Key: "badges", Value: 1}}},
		{Collection: QuestsCollection, Keys: bson.D{{Key: "status", Value: 1}, {Key: "startDate", Value: -1}}},
		{Collection: ProfilesCollection, Keys: bson.D{{Key: "badges", Value: 1}}},
		{Collection: LootboxesCollection, Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Collection: ContactsCollection, Keys: bson.D{{Key: "email", Value: 1}}, Unique: true, Sparse: true},
		{Collection: ContactsCollection, Keys: bson.D{{Key: "tags", Value: 1}}},
		{Collection: ContactsCollection, Keys: bson.D{{Key: "lastname", Value: 1}, {Key: "firstname", Value: 1}}},
		{Collection: AssetsCollection, Keys: bson.D{{Key: "serialNumber", Value: 1}}, Unique: true},
		{Collection: AssetsCollection, Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
		{Collection: PresenceCollection, Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "period", Value: 1}}, Unique: true},
		{Collection: PresenceCollection, Keys: bson.D{{Key: "date", Value: 1}}},
	}
}

// DocumentsImpl репозитории документов поверх Mongo
type DocumentsImpl struct {
	docs   db.Documents
	m      *metrics.Metrics
	logger *zap.SugaredLogger
	now    func() time.Time
	genID  func() string
}

func NewDocuments(docs db.Documents, m *metrics.Metrics, logger *zap.SugaredLogger) *DocumentsImpl {
	return &DocumentsImpl{
		docs:   docs,
		m:      m,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		genID:  newID,
	}
}

func (d *DocumentsImpl) HealthCheck(ctx context.Context) error {
	if err := d.docs.Ping(ctx); err != nil {
		return fmt.Errorf("mongo health check failed: %w", err)
	}
	return nil
}

// observe пишет метрики операции. Отсутствие документа ошибкой не считается.
func (d *DocumentsImpl) observe(collection, op string, start time.Time, err error) {
	if d.m == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case db.IsNotFound(err), errors.Is(err, appers.ErrNotFound):
		result = "not_found"
	case db.IsDuplicateKey(err):
		result = "duplicate"
	default:
		result = "error"
	}
	d.m.Repo.RequestsTotal.WithLabelValues(collection, op, result).Inc()
	d.m.Repo.DurationSeconds.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}

// translate переводит ошибки драйвера в ответы API
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNotFound(err):
		return appers.ErrNotFound
	case db.IsDuplicateKey(err):
		return appers.ErrAlreadyExists
	default:
		return err
	}
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func pageLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return 50
	case limit > 500:
		return 500
	default:
		return limit
	}
}

package repo

import (
	"context"
	"fmt"
	"time"

	"portal/internal/application/entity"
	"portal/pkg/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PresenceRepo interface {
	UpsertPresence(ctx context.Context, p *entity.Presence) (created bool, err error)
	ListPresenceByDate(ctx context.Context, date string) ([]entity.Presence, error)
	ListPresenceByUser(ctx context.Context, userID, from, to string) ([]entity.Presence, error)
}

// UpsertPresence одна атомарная запись на (userId, date, period): существующая отметка
// той же половины дня обновляется, иначе вставляется новая. created - была ли вставка.
func (d *DocumentsImpl) UpsertPresence(ctx context.Context, p *entity.Presence) (created bool, err error) {
	defer func(t time.Time) { d.observe(PresenceCollection, "upsert", t, err) }(time.Now())

	for attempt := 0; attempt < 2; attempt++ {
		created, err = d.upsertPresence(ctx, p)
		// две одновременные вставки: проигравший получает duplicate key, повтор станет обновлением
		if err == nil || !db.IsDuplicateKey(err) {
			break
		}
		d.logger.Debugf("[presence: %s %s %s] upsert race, retrying", p.UserID, p.Date, p.Period)
	}
	if err != nil {
		return false, fmt.Errorf("[presence: %s %s %s] upsert: %w", p.UserID, p.Date, p.Period, translate(err))
	}
	return created, nil
}

func (d *DocumentsImpl) upsertPresence(ctx context.Context, p *entity.Presence) (bool, error) {
	id := d.genID()
	now := d.now()

	filter, update := presenceUpsert(p, id, now)
	var saved entity.Presence
	err := d.docs.Collection(PresenceCollection).FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return false, err
	}

	*p = saved
	return saved.ID == id, nil
}

func presenceUpsert(p *entity.Presence, id string, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"userId": p.UserID, "date": p.Date, "period": p.Period}
	update := bson.M{
		"$set": bson.M{
			"status":     p.Status,
			"note":       p.Note,
			"recordedAt": p.RecordedAt,
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{
			"_id":       id,
			"createdAt": now,
		},
	}
	return filter, update
}

func (d *DocumentsImpl) ListPresenceByDate(ctx context.Context, date string) (res []entity.Presence, err error) {
	defer func(t time.Time) { d.observe(PresenceCollection, "find", t, err) }(time.Now())

	return d.findPresence(ctx, bson.M{"date": date},
		bson.D{{Key: "userId", Value: 1}, {Key: "period", Value: 1}})
}

// ListPresenceByUser отметки пользователя за [from, to], даты YYYY-MM-DD
func (d *DocumentsImpl) ListPresenceByUser(ctx context.Context, userID, from, to string) (res []entity.Presence, err error) {
	defer func(t time.Time) { d.observe(PresenceCollection, "find", t, err) }(time.Now())

	return d.findPresence(ctx, bson.M{"userId": userID, "date": bson.M{"$gte": from, "$lte": to}},
		bson.D{{Key: "date", Value: 1}, {Key: "period", Value: 1}})
}

func (d *DocumentsImpl) findPresence(ctx context.Context, filter bson.M, sort bson.D) ([]entity.Presence, error) {
	cur, err := d.docs.Collection(PresenceCollection).Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find presence: %w", err)
	}
	res := []entity.Presence{}
	if err = cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode presence: %w", err)
	}
	return res, nil
}

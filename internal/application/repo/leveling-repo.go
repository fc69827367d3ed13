package repo

import (
	"context"
	"fmt"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LevelingRepo interface {
	CreateBadge(ctx context.Context, b *entity.Badge) error
	ListBadges(ctx context.Context) ([]entity.Badge, error)
	GetBadge(ctx context.Context, id string) (entity.Badge, error)
	DeleteBadgeCascade(ctx context.Context, id string) (entity.BadgeCascade, error)
	PullBadge(ctx context.Context, id string) (entity.BadgeCascade, error)

	CreateQuest(ctx context.Context, q *entity.Quest) error
	ListQuests(ctx context.Context, status entity.QuestStatus) ([]entity.Quest, error)
	GetQuest(ctx context.Context, id string) (entity.Quest, error)
	UpdateQuestStatus(ctx context.Context, id string, status entity.QuestStatus) (entity.Quest, error)

	GetProfile(ctx context.Context, userID string) (entity.Profile, error)
	AwardBadge(ctx context.Context, userID, badgeID string) (entity.Profile, error)

	CreateLootbox(ctx context.Context, l *entity.Lootbox) error
	GetLootbox(ctx context.Context, id string) (entity.Lootbox, error)
	ListLootboxes(ctx context.Context, userID string) ([]entity.Lootbox, error)
}

// BADGES

func (d *DocumentsImpl) CreateBadge(ctx context.Context, b *entity.Badge) (err error) {
	defer func(t time.Time) { d.observe(BadgesCollection, "insert", t, err) }(time.Now())

	now := d.now()
	b.ID = d.genID()
	b.CreatedAt, b.UpdatedAt = now, now

	if _, err = d.docs.Collection(BadgesCollection).InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert badge: %w", translate(err))
	}
	return nil
}

func (d *DocumentsImpl) ListBadges(ctx context.Context) (res []entity.Badge, err error) {
	defer func(t time.Time) { d.observe(BadgesCollection, "find", t, err) }(time.Now())

	cur, err := d.docs.Collection(BadgesCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find badges: %w", err)
	}
	res = []entity.Badge{}
	if err = cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	return res, nil
}

func (d *DocumentsImpl) GetBadge(ctx context.Context, id string) (b entity.Badge, err error) {
	defer func(t time.Time) { d.observe(BadgesCollection, "find_one", t, err) }(time.Now())

	err = d.docs.Collection(BadgesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		return b, fmt.Errorf("[badge: %s] get: %w", id, translate(err))
	}
	return b, nil
}

// DeleteBadgeCascade убирает бейдж из квестов и профилей, затем удаляет сам бейдж.
// Несуществующий бейдж - ErrNotFound без изменений в квестах и профилях.
func (d *DocumentsImpl) DeleteBadgeCascade(ctx context.Context, id string) (res entity.BadgeCascade, err error) {
	defer func(t time.Time) { d.observe(BadgesCollection, "delete_cascade", t, err) }(time.Now())

	res.BadgeID = id
	err = d.docs.WithinTransaction(ctx, func(ctx context.Context) error {
		res.QuestsUpdated, res.ProfilesUpdated = 0, 0

		n, err := d.docs.Collection(BadgesCollection).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("count badge: %w", err)
		}
		if n == 0 {
			return appers.ErrNotFound
		}

		if res, err = d.pullBadge(ctx, id); err != nil {
			return err
		}

		dr, err := d.docs.Collection(BadgesCollection).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("delete badge: %w", err)
		}
		if dr.DeletedCount == 0 {
			// удален параллельным запросом
			return appers.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	d.logger.Infof("[badge: %s] deleted, quests updated: %d, profiles updated: %d", id, res.QuestsUpdated, res.ProfilesUpdated)
	return res, nil
}

// PullBadge убирает ссылки на уже удаленный бейдж, записанные параллельно с каскадом
func (d *DocumentsImpl) PullBadge(ctx context.Context, id string) (res entity.BadgeCascade, err error) {
	defer func(t time.Time) { d.observe(BadgesCollection, "pull", t, err) }(time.Now())

	if res, err = d.pullBadge(ctx, id); err != nil {
		return res, err
	}
	if res.QuestsUpdated+res.ProfilesUpdated > 0 {
		d.logger.Warnf("[badge: %s] dangling refs removed, quests: %d, profiles: %d", id, res.QuestsUpdated, res.ProfilesUpdated)
	}
	return res, nil
}

func (d *DocumentsImpl) pullBadge(ctx context.Context, id string) (entity.BadgeCascade, error) {
	res := entity.BadgeCascade{BadgeID: id}
	pull := bson.M{
		"$pull": bson.M{"badges": id},
		"$set":  bson.M{"updatedAt": d.now()},
	}

	qr, err := d.docs.Collection(QuestsCollection).UpdateMany(ctx, bson.M{"badges": id}, pull)
	if err != nil {
		return res, fmt.Errorf("pull badge from quests: %w", err)
	}
	res.QuestsUpdated = qr.ModifiedCount

	pr, err := d.docs.Collection(ProfilesCollection).UpdateMany(ctx, bson.M{"badges": id}, pull)
	if err != nil {
		return res, fmt.Errorf("pull badge from profiles: %w", err)
	}
	res.ProfilesUpdated = pr.ModifiedCount
	return res, nil
}

// QUESTS

func (d *DocumentsImpl) CreateQuest(ctx context.Context, q *entity.Quest) (err error) {
	defer func(t time.Time) { d.observe(QuestsCollection, "insert", t, err) }(time.Now())

	now := d.now()
	q.ID = d.genID()
	q.CreatedAt, q.UpdatedAt = now, now

	if _, err = d.docs.Collection(QuestsCollection).InsertOne(ctx, q); err != nil {
		return fmt.Errorf("insert quest: %w", translate(err))
	}
	return nil
}

func (d *DocumentsImpl) ListQuests(ctx context.Context, status entity.QuestStatus) (res []entity.Quest, err error) {
	defer func(t time.Time) { d.observe(QuestsCollection, "find", t, err) }(time.Now())

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cur, err := d.docs.Collection(QuestsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find quests: %w", err)
	}
	res = []entity.Quest{}
	if err = cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode quests: %w", err)
	}
	return res, nil
}

func (d *DocumentsImpl) GetQuest(ctx context.Context, id string) (q entity.Quest, err error) {
	defer func(t time.Time) { d.observe(QuestsCollection, "find_one", t, err) }(time.Now())

	err = d.docs.Collection(QuestsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err != nil {
		return q, fmt.Errorf("[quest: %s] get: %w", id, translate(err))
	}
	return q, nil
}

func (d *DocumentsImpl) UpdateQuestStatus(ctx context.Context, id string, status entity.QuestStatus) (q entity.Quest, err error) {
	defer func(t time.Time) { d.observe(QuestsCollection, "update", t, err) }(time.Now())

	err = d.docs.Collection(QuestsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": d.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&q)
	if err != nil {
		return q, fmt.Errorf("[quest: %s] update status: %w", id, translate(err))
	}
	return q, nil
}

// PROFILES

func (d *DocumentsImpl) GetProfile(ctx context.Context, userID string) (p entity.Profile, err error) {
	defer func(t time.Time) { d.observe(ProfilesCollection, "find_one", t, err) }(time.Now())

	err = d.docs.Collection(ProfilesCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&p)
	if err != nil {
		return p, fmt.Errorf("[user: %s] get profile: %w", userID, translate(err))
	}
	return p, nil
}

// AwardBadge добавляет бейдж в профиль ($addToSet), профиль создается при первом награждении
func (d *DocumentsImpl) AwardBadge(ctx context.Context, userID, badgeID string) (p entity.Profile, err error) {
	defer func(t time.Time) { d.observe(ProfilesCollection, "award", t, err) }(time.Now())

	update := bson.M{
		"$addToSet":    bson.M{"badges": badgeID},
		"$set":         bson.M{"updatedAt": d.now()},
		"$setOnInsert": bson.M{"xp": 0, "level": 1},
	}
	err = d.docs.Collection(ProfilesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": userID}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return p, fmt.Errorf("[user: %s] award badge %s: %w", userID, badgeID, translate(err))
	}
	return p, nil
}

// LOOTBOXES

func (d *DocumentsImpl) CreateLootbox(ctx context.Context, l *entity.Lootbox) (err error) {
	defer func(t time.Time) { d.observe(LootboxesCollection, "insert", t, err) }(time.Now())

	l.ID = d.genID()
	l.CreatedAt = d.now()

	if _, err = d.docs.Collection(LootboxesCollection).InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert lootbox: %w", translate(err))
	}
	return nil
}

func (d *DocumentsImpl) GetLootbox(ctx context.Context, id string) (l entity.Lootbox, err error) {
	defer func(t time.Time) { d.observe(LootboxesCollection, "find_one", t, err) }(time.Now())

	err = d.docs.Collection(LootboxesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		return l, fmt.Errorf("[lootbox: %s] get: %w", id, translate(err))
	}
	return l, nil
}

func (d *DocumentsImpl) ListLootboxes(ctx context.Context, userID string) (res []entity.Lootbox, err error) {
	defer func(t time.Time) { d.observe(LootboxesCollection, "find", t, err) }(time.Now())

	cur, err := d.docs.Collection(LootboxesCollection).Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find lootboxes: %w", err)
	}
	res = []entity.Lootbox{}
	if err = cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode lootboxes: %w", err)
	}
	return res, nil
}

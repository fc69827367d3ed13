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

type AssetRepo interface {
	CreateAsset(ctx context.Context, a *entity.Asset) error
	ListAssets(ctx context.Context, f entity.AssetFilter) ([]entity.Asset, error)
	GetAsset(ctx context.Context, id string) (entity.Asset, error)
	ReplaceAsset(ctx context.Context, a *entity.Asset) error
	DeleteAsset(ctx context.Context, id string) error
	AssignAsset(ctx context.Context, id, userID string) (entity.Asset, error)
	ReleaseAsset(ctx context.Context, id string) (a entity.Asset, prevUser string, err error)
}

func (d *DocumentsImpl) CreateAsset(ctx context.Context, a *entity.Asset) (err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "insert", t, err) }(time.Now())

	now := d.now()
	a.ID = d.genID()
	a.CreatedAt, a.UpdatedAt = now, now

	if _, err = d.docs.Collection(AssetsCollection).InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert asset: %w", translate(err))
	}
	return nil
}

func (d *DocumentsImpl) ListAssets(ctx context.Context, f entity.AssetFilter) (res []entity.Asset, err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "find", t, err) }(time.Now())

	cur, err := d.docs.Collection(AssetsCollection).Find(ctx, assetFilter(f),
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find assets: %w", err)
	}
	res = []entity.Asset{}
	if err = cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	return res, nil
}

func (d *DocumentsImpl) GetAsset(ctx context.Context, id string) (a entity.Asset, err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "find_one", t, err) }(time.Now())

	err = d.docs.Collection(AssetsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		return a, fmt.Errorf("[asset: %s] get: %w", id, translate(err))
	}
	return a, nil
}

// ReplaceAsset заменяет документ целиком, createdAt заполняет вызывающий
func (d *DocumentsImpl) ReplaceAsset(ctx context.Context, a *entity.Asset) (err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "replace", t, err) }(time.Now())

	a.UpdatedAt = d.now()
	res, err := d.docs.Collection(AssetsCollection).ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("[asset: %s] replace: %w", a.ID, translate(err))
	}
	if res.MatchedCount == 0 {
		err = appers.ErrNotFound
		return fmt.Errorf("[asset: %s] replace: %w", a.ID, err)
	}
	return nil
}

func (d *DocumentsImpl) DeleteAsset(ctx context.Context, id string) (err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "delete", t, err) }(time.Now())

	return d.deleteByID(ctx, AssetsCollection, id)
}

// AssignAsset выдает свободный актив. Занятый или списанный актив - ErrAssetNotAssignable.
func (d *DocumentsImpl) AssignAsset(ctx context.Context, id, userID string) (a entity.Asset, err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "assign", t, err) }(time.Now())

	err = d.docs.Collection(AssetsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": entity.AssetAvailable},
		bson.M{"$set": bson.M{"status": entity.AssetAssigned, "assignedTo": userID, "updatedAt": d.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err == nil {
		return a, nil
	}
	if err = translate(err); err != appers.ErrNotFound {
		return a, fmt.Errorf("[asset: %s] assign: %w", id, err)
	}

	// различаем "нет такого" и "уже выдан"
	if _, err = d.GetAsset(ctx, id); err != nil {
		return a, err
	}
	err = appers.ErrAssetNotAssignable
	return a, fmt.Errorf("[asset: %s] assign: %w", id, err)
}

// ReleaseAsset возвращает выданный актив на склад. Возвращает актив после обновления
// и пользователя, у которого он был. Не выданный актив - ErrAssetNotAssigned.
func (d *DocumentsImpl) ReleaseAsset(ctx context.Context, id string) (a entity.Asset, prevUser string, err error) {
	defer func(t time.Time) { d.observe(AssetsCollection, "release", t, err) }(time.Now())

	now := d.now()
	err = d.docs.Collection(AssetsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": entity.AssetAssigned},
		bson.M{
			"$set":   bson.M{"status": entity.AssetAvailable, "updatedAt": now},
			"$unset": bson.M{"assignedTo": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&a)
	if err == nil {
		prevUser = a.AssignedTo
		a.Status, a.AssignedTo, a.UpdatedAt = entity.AssetAvailable, "", now
		return a, prevUser, nil
	}
	if err = translate(err); err != appers.ErrNotFound {
		return a, "", fmt.Errorf("[asset: %s] release: %w", id, err)
	}

	if _, err = d.GetAsset(ctx, id); err != nil {
		return a, "", err
	}
	err = appers.ErrAssetNotAssigned
	return a, "", fmt.Errorf("[asset: %s] release: %w", id, err)
}

func assetFilter(f entity.AssetFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.AssignedTo != "" {
		filter["assignedTo"] = f.AssignedTo
	}
	return filter
}

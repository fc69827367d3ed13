package repo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContactRepo interface {
	CreateContact(ctx context.Context, c *entity.Contact) error
	ListContacts(ctx context.Context, f entity.ContactFilter) ([]entity.Contact, error)
	GetContact(ctx context.Context, id string) (entity.Contact, error)
	PatchContact(ctx context.Context, id string, p entity.ContactPatch) (entity.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

func (d *DocumentsImpl) CreateContact(ctx context.Context, c *entity.Contact) (err error) {
	defer func(t time.Time) { d.observe(ContactsCollection, "insert", t, err) }(time.Now())

	now := d.now()
	c.ID = d.genID()
	c.CreatedAt, c.UpdatedAt = now, now

	if _, err = d.docs.Collection(ContactsCollection).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert contact: %w", translate(err))
	}
	return nil
}

func (d *DocumentsImpl) ListContacts(ctx context.Context, f entity.ContactFilter) (res []entity.Contact, err error) {
	defer func(t time.Time) { d.observe(ContactsCollection, "find", t, err) }(time.Now())

	opts := options.Find().
		SetSort(bson.D{{Key: "lastname", Value: 1}, {Key: "firstname", Value: 1}}).
		SetLimit(pageLimit(f.Limit))
	if f.Offset > 0 {
		opts.SetSkip(f.Offset)
	}

	cur, err := d.docs.Collection(ContactsCollection).Find(ctx, contactFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	res = []entity.Contact{}
	if err = cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return res, nil
}

func (d *DocumentsImpl) GetContact(ctx context.Context, id string) (c entity.Contact, err error) {
	defer func(t time.Time) { d.observe(ContactsCollection, "find_one", t, err) }(time.Now())

	err = d.docs.Collection(ContactsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("[contact: %s] get: %w", id, translate(err))
	}
	return c, nil
}

func (d *DocumentsImpl) PatchContact(ctx context.Context, id string, p entity.ContactPatch) (c entity.Contact, err error) {
	defer func(t time.Time) { d.observe(ContactsCollection, "update", t, err) }(time.Now())

	err = d.docs.Collection(ContactsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": contactPatchSet(p, d.now())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("[contact: %s] patch: %w", id, translate(err))
	}
	return c, nil
}

func (d *DocumentsImpl) DeleteContact(ctx context.Context, id string) (err error) {
	defer func(t time.Time) { d.observe(ContactsCollection, "delete", t, err) }(time.Now())

	return d.deleteByID(ctx, ContactsCollection, id)
}

func (d *DocumentsImpl) deleteByID(ctx context.Context, collection, id string) error {
	res, err := d.docs.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("[%s: %s] delete: %w", collection, id, appers.ErrNotFound)
	}
	return nil
}

// contactFilter: tag - точное совпадение, q - подстрока имени, фамилии или email без учета регистра
func contactFilter(f entity.ContactFilter) bson.M {
	filter := bson.M{}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"firstname": re},
			bson.M{"lastname": re},
			bson.M{"email": re},
		}
	}
	return filter
}

// contactPatchSet только непустые поля патча
func contactPatchSet(p entity.ContactPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	fields := map[string]string{
		"firstname": p.Firstname,
		"lastname":  p.Lastname,
		"email":     p.Email,
		"phone":     p.Phone,
		"company":   p.Company,
		"position":  p.Position,
		"notes":     p.Notes,
	}
	for k, v := range fields {
		if v != "" {
			set[k] = v
		}
	}
	if len(p.Tags) > 0 {
		set["tags"] = p.Tags
	}
	return set
}

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Documents - хранилище документов модулей (leveling, contacts, assets, presence)
type Documents interface {
	Collection(name string) *mongo.Collection
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Ping(ctx context.Context) error
}

type Mongo struct {
	Client       *mongo.Client
	DB           *mongo.Database
	transactions bool
}

// Index описание индекса коллекции
type Index struct {
	Collection string
	Keys       bson.D
	Unique     bool
	Sparse     bool
}

func NewMongo(ctx context.Context, conf config.Mongo) (*Mongo, error) {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(conf.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if conf.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(conf.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Mongo{
		Client:       client,
		DB:           client.Database(conf.Database),
		transactions: conf.Transactions,
	}, nil
}

func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.DB.Collection(name)
}

// EnsureIndexes создает индексы, существующие индексы с тем же описанием пропускаются сервером
func (m *Mongo) EnsureIndexes(ctx context.Context, indexes []Index) error {
	for _, idx := range indexes {
		opts := options.Index().SetBackground(true)
		if idx.Unique {
			opts.SetUnique(true)
		}
		if idx.Sparse {
			opts.SetSparse(true)
		}
		_, err := m.DB.Collection(idx.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    idx.Keys,
			Options: opts,
		})
		if err != nil {
			return fmt.Errorf("create index on %s: %w", idx.Collection, err)
		}
	}
	return nil
}

// WithinTransaction выполняет fn в транзакции, если они включены (нужен replica set).
// Иначе fn выполняется последовательно без транзакции.
func (m *Mongo) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions {
		return fn(ctx)
	}

	sess, err := m.Client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// IsDuplicateKey проверяет ошибку нарушения уникального индекса (код 11000)
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound проверяет отсутствие документа
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

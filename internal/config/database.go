package config

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const pingInterval = 15 * time.Second

type MongoDBClient struct {
	Client   *mongo.Client
	Database *mongo.Database

	transactions bool
	log          *zap.Logger
	ready        atomic.Bool
	stop         chan struct{}
}

// NewMongoDBClient connects and pings once; startup fails if the database is
// unreachable. A background pinger keeps the readiness flag current while the
// app runs.
func NewMongoDBClient(lc fx.Lifecycle, cfg *Config, log *zap.Logger) (*MongoDBClient, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	m := &MongoDBClient{
		Client:       client,
		Database:     db,
		transactions: cfg.MongoTransactions,
		log:          log.Named("mongo"),
		stop:         make(chan struct{}),
	}
	m.ready.Store(true)
	m.log.Info("connected to MongoDB", zap.String("database", cfg.MongoDB), zap.Bool("transactions", cfg.MongoTransactions))

	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go m.watch()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(m.stop)
			m.log.Info("closing MongoDB connection")
			return client.Disconnect(ctx)
		},
	})
	return m, db, nil
}

func (m *MongoDBClient) watch() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = m.Ping(ctx)
			cancel()
		}
	}
}

// Ping checks the connection and records the outcome for Ready.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	err := m.Client.Ping(ctx, nil)
	was := m.ready.Swap(err == nil)
	switch {
	case err != nil && was:
		m.log.Warn("MongoDB became unreachable", zap.Error(err))
	case err == nil && !was:
		m.log.Info("MongoDB reachable again")
	}
	return err
}

// Ready reports the outcome of the most recent ping.
func (m *MongoDBClient) Ready() bool {
	return m.ready.Load()
}

func (m *MongoDBClient) TransactionsEnabled() bool {
	return m.transactions
}

// WithTransaction runs fn inside a Mongo transaction when transactions are
// enabled, otherwise it just calls fn. The context passed to fn must be used
// for every write that belongs to the unit of work.
func (m *MongoDBClient) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions {
		return fn(ctx)
	}
	session, err := m.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// EnsureIndexes creates the unique and lookup indexes every collection relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "student_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "room_allocation_status", Value: 1}}},
		},
		"rooms": {
			{Keys: bson.D{{Key: "room_number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "room_type", Value: 1}, {Key: "is_available", Value: 1}}},
		},
		"fees": {
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"mess_menus": {
			{Keys: bson.D{{Key: "day", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"complaints": {
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

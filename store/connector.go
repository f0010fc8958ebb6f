package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultTimeout = 10 * time.Second

// Initializer prepares a freshly connected database, e.g. by creating indexes
type Initializer func(ctx context.Context, db *mongo.Database) error

// Connector owns the process wide database connection. The connection is opened
// on first use and reused afterwards. Failed attempts are not cached.
type Connector struct {
	cfg    *Config
	logger *zap.SugaredLogger

	mu           sync.Mutex
	connecting   singleflight.Group
	client       *mongo.Client
	database     *mongo.Database
	initializers []Initializer
}

func NewConnector(cfg *Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) *Connector {
	c := &Connector{
		cfg:    cfg,
		logger: logger,
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Disconnect(ctx)
		},
	})

	return c
}

// NewConnectorWithDatabase returns a connector bound to an already connected database
func NewConnectorWithDatabase(database *mongo.Database, logger *zap.SugaredLogger) *Connector {
	return &Connector{
		cfg:      &Config{DatabaseName: database.Name()},
		logger:   logger,
		client:   database.Client(),
		database: database,
	}
}

// RegisterInitializer adds a function which is executed once the connection is established.
// When the connector is already connected the initializer runs on the next call to Initialize.
func (c *Connector) RegisterInitializer(initializer Initializer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.initializers = append(c.initializers, initializer)
}

// Initialize runs all registered initializers against the current database
func (c *Connector) Initialize(ctx context.Context) error {
	db, err := c.Database(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	initializers := append([]Initializer{}, c.initializers...)
	c.mu.Unlock()

	for _, initialize := range initializers {
		if err := initialize(ctx, db); err != nil {
			return NewConnectionError("unable to initialize database", err)
		}
	}
	return nil
}

// Database returns the shared database handle, connecting if needed. Concurrent callers
// share a single connection attempt, the mutex is never held while talking to the server.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	if db := c.current(); db != nil {
		return db, nil
	}

	result, err, _ := c.connecting.Do("connect", func() (interface{}, error) {
		if db := c.current(); db != nil {
			return db, nil
		}
		// The attempt is shared, a caller giving up must not fail the others
		return c.connect(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return result.(*mongo.Database), nil
}

func (c *Connector) current() *mongo.Database {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.database
}

func (c *Connector) connect(ctx context.Context) (*mongo.Database, error) {
	if c.cfg.DatabaseName == "" {
		return nil, NewConnectionError("database name is not configured", nil)
	}
	uri, err := c.cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := NewClient(connectCtx, uri)
	if err != nil {
		return nil, NewConnectionError("unable to connect to database", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, NewConnectionError("unable to reach database", err)
	}

	c.mu.Lock()
	initializers := append([]Initializer{}, c.initializers...)
	c.mu.Unlock()

	database := client.Database(c.cfg.DatabaseName)
	for _, initialize := range initializers {
		if err := initialize(connectCtx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, NewConnectionError("unable to initialize database", err)
		}
	}

	c.mu.Lock()
	c.client = client
	c.database = database
	c.mu.Unlock()

	c.logger.Infow("connected to database", "database", c.cfg.DatabaseName)
	return database, nil
}

func (c *Connector) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (c *Connector) Ping(ctx context.Context) error {
	db, err := c.Database(ctx)
	if err != nil {
		return err
	}
	if err := db.Client().Ping(ctx, nil); err != nil {
		return NewConnectionError("unable to reach database", err)
	}
	return nil
}

func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.database = nil
	return err
}

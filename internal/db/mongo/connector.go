package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entdoc/internal/db"
)

// Compile-time check: Connector implements db.Store.
var _ db.Store = (*Connector)(nil)

// Hook is called after a successful connect or disconnect.
type Hook func(ctx context.Context, dbName string)

// Option configures a Connector.
type Option func(*Connector)

// WithLogger sets the connector logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Connector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds connect and server selection.
func WithTimeout(d time.Duration) Option {
	return func(c *Connector) { c.timeout = d }
}

// WithAppName reports an application name to the server.
func WithAppName(name string) Option {
	return func(c *Connector) { c.appName = name }
}

// OnConnect registers a hook fired after Connect succeeds.
func OnConnect(h Hook) Option {
	return func(c *Connector) { c.onConnect = append(c.onConnect, h) }
}

// OnDisconnect registers a hook fired after Disconnect succeeds.
func OnDisconnect(h Hook) Option {
	return func(c *Connector) { c.onDisconnect = append(c.onDisconnect, h) }
}

// Connector owns the driver client for one database.
type Connector struct {
	params  Resolved
	logger  *zap.Logger
	timeout time.Duration
	appName string

	onConnect    []Hook
	onDisconnect []Hook

	mu     sync.RWMutex
	client *mongo.Client
}

// New resolves params and returns an unconnected Connector.
func New(p Params, opts ...Option) (*Connector, error) {
	resolved, err := p.Resolve()
	if err != nil {
		return nil, err
	}
	c := &Connector{
		params: resolved,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Params returns the resolved connection parameters.
func (c *Connector) Params() Resolved { return c.params }

// Database returns the database name.
func (c *Connector) Database() string { return c.params.DB }

// Connected reports whether Connect has succeeded and Disconnect has not been called since.
func (c *Connector) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil
}

// Connect opens the driver client. Calling it on a connected Connector is a no-op.
func (c *Connector) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.client != nil {
		c.mu.Unlock()
		return nil
	}

	clientOpts := options.Client().ApplyURI(c.params.URL)
	if c.timeout > 0 {
		clientOpts.SetConnectTimeout(c.timeout).SetServerSelectionTimeout(c.timeout)
	}
	if c.appName != "" {
		clientOpts.SetAppName(c.appName)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		c.mu.Unlock()
		return db.Wrap(db.OpConnect, "", err)
	}
	c.client = client
	c.mu.Unlock()

	c.logger.Info("mongo connected",
		zap.String("host", c.params.Host),
		zap.String("db", c.params.DB),
	)
	for _, h := range c.onConnect {
		h(ctx, c.params.DB)
	}
	return nil
}

// Disconnect closes the driver client. Calling it on a disconnected Connector is a no-op.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return db.Wrap(db.OpDisconnect, "", err)
	}

	c.logger.Info("mongo disconnected", zap.String("db", c.params.DB))
	for _, h := range c.onDisconnect {
		h(ctx, c.params.DB)
	}
	return nil
}

// Close implements db.Store.
func (c *Connector) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}

// Ping checks connectivity against the primary.
func (c *Connector) Ping(ctx context.Context) error {
	client, err := c.currentClient()
	if err != nil {
		return db.Wrap(db.OpPing, "", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return db.Wrap(db.OpPing, "", err)
	}
	return nil
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (c *Connector) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := c.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Collection returns a handle bound to the named collection.
// The handle resolves the client per call, so it may be obtained before Connect.
func (c *Connector) Collection(name string) db.Collection {
	return &collection{conn: c, name: name}
}

func (c *Connector) currentClient() (*mongo.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return nil, db.ErrNotConnected
	}
	return c.client, nil
}

package catalog

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"nationaldynamics/internal/dataset"
)

// Cache is a read-through catalog cache keyed on one data directory. A
// filesystem watcher invalidates the cached catalog whenever the directory
// contents change; when the watcher cannot be started the cache degrades to
// rebuilding on every read.
type Cache struct {
	mu      sync.Mutex
	builder *Builder
	dir     string
	extra   []*dataset.Table
	cat     *Catalog
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewCache wraps builder for dir. The extra tables are static (loaded once,
// e.g. from Postgres at startup) and contribute to every rebuild.
func NewCache(builder *Builder, dir string, extra []*dataset.Table, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{builder: builder, dir: dir, extra: extra, logger: logger}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		err = watcher.Add(dir)
	}
	if err != nil {
		if watcher != nil {
			watcher.Close()
		}
		logger.Warn("data directory watch unavailable, catalog caching disabled",
			zap.String("dir", dir), zap.Error(err))
		return c
	}

	c.watcher = watcher
	go c.watch()
	return c
}

func (c *Cache) watch() {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.logger.Debug("data directory changed", zap.String("op", event.Op.String()),
				zap.String("name", event.Name))
			c.Invalidate()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("data directory watch error", zap.Error(err))
			c.Invalidate()
		}
	}
}

// Catalog returns the cached catalog, rebuilding it when stale or when
// caching is unavailable.
func (c *Cache) Catalog() *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil || c.cat == nil {
		c.cat = c.builder.BuildDir(c.dir, c.extra...)
	}
	return c.cat
}

// Invalidate drops the cached catalog so the next read rebuilds it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cat = nil
	c.mu.Unlock()
}

// Close stops the directory watcher.
func (c *Cache) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

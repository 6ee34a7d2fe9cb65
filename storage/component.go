package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/compapol/component"
	"github.com/kbukum/compapol/logger"
)

// Component owns the spool Storage: it creates it on Start and removes
// files older than SweepAfter left behind by an earlier run.
type Component struct {
	cfg     Config
	log     *logger.Logger
	storage Storage
	now     func() time.Time
}

var _ component.Component = (*Component)(nil)

// NewComponent creates the component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("storage"), now: time.Now}
}

// Storage returns the backend, nil before Start.
func (c *Component) Storage() Storage { return c.storage }

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

func (c *Component) Name() string { return "storage" }

func (c *Component) Start(ctx context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	if c.cfg.SweepAfter > 0 {
		c.sweep(ctx)
	}
	return nil
}

func (c *Component) sweep(ctx context.Context) {
	files, err := c.storage.List(ctx, "")
	if err != nil {
		c.log.Warn("spool sweep failed", logger.Fields(logger.FieldError, err.Error()))
		return
	}
	cutoff := c.now().Add(-c.cfg.SweepAfter)
	removed := 0
	for _, f := range files {
		if f.LastModified.After(cutoff) {
			continue
		}
		if err := c.storage.Delete(ctx, f.Path); err != nil {
			c.log.Warn("could not remove stale upload", logger.Fields(logger.FieldFileName, f.Path, logger.FieldError, err.Error()))
			continue
		}
		removed++
	}
	if removed > 0 {
		c.log.Info("removed stale uploads", logger.Fields("count", removed))
	}
}

func (c *Component) Stop(context.Context) error {
	c.storage = nil
	return nil
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := c.storage.Exists(ctx, ".health"); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("health check failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Upload spool",
		Type:    "storage",
		Details: fmt.Sprintf("provider=%s path=%s", c.cfg.Provider, c.cfg.BasePath),
	}
}

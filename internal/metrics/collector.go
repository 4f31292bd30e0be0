package metrics

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-lostfound-api/internal/domain"
)

// BusinessMetricsCollector periodically refreshes the users/posts/comments
// gauges from the database.
type BusinessMetricsCollector struct {
	db      *gorm.DB
	metrics *Metrics
	logger  *zap.Logger
	ticker  *time.Ticker
	done    chan bool
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(db *gorm.DB, m *Metrics, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:      db,
		metrics: m,
		logger:  logger,
		ticker:  time.NewTicker(60 * time.Second),
		done:    make(chan bool),
	}
}

// Start begins collecting in the background
func (c *BusinessMetricsCollector) Start() {
	go func() {
		c.collect()

		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop halts collection
func (c *BusinessMetricsCollector) Stop() {
	c.ticker.Stop()
	c.done <- true
}

func (c *BusinessMetricsCollector) collect() {
	gauges := []struct {
		model interface{}
		set   func(int64)
	}{
		{&domain.User{}, c.metrics.SetUsersTotal},
		{&domain.Post{}, c.metrics.SetPostsTotal},
		{&domain.Comment{}, c.metrics.SetCommentsTotal},
	}

	for _, g := range gauges {
		var count int64
		if err := c.db.Model(g.model).Count(&count).Error; err != nil {
			c.logger.Warn("Failed to collect business metrics", zap.Error(err))
			continue
		}
		g.set(count)
	}
}

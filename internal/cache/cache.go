// Package cache keeps backend read results in Redis so that periodic syncs and board
// reloads do not hammer the CRM.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "hestia:"
	tasksPrefix   = keyPrefix + "tasks:"
	employeesKey  = keyPrefix + "employees"
	labelsKey     = keyPrefix + "labels"
	scanBatchSize = 100
)

// CRM wraps a backend client with Redis-backed caching for read operations. Every write
// that goes through it evicts the entries it could have made stale.
type CRM struct {
	client.CRMIface

	log     *slog.Logger
	redis   *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics

	// evictions counts task evictions; a collection fetched across one is not stored.
	evictions atomic.Uint64
}

// New creates a caching wrapper. A nil Redis client or a zero TTL turns caching off and
// every call goes straight to base.
func New(log *slog.Logger, base client.CRMIface, rdb *redis.Client, ttl time.Duration, metrics *metrics.Metrics) *CRM {
	if base == nil {
		panic("cache.New: base client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	return &CRM{
		CRMIface: base,
		log:      log.With(slog.String("division", "cache")),
		redis:    rdb,
		ttl:      ttl,
		metrics:  metrics,
	}
}

func (c *CRM) FetchTasks(ctx context.Context, filter models.Filter) ([]models.Task, error) {
	key := tasksKey(filter)

	var tasks []models.Task
	if c.load(ctx, key, &tasks) {
		return tasks, nil
	}

	generation := c.evictions.Load()
	tasks, err := c.CRMIface.FetchTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	if c.evictions.Load() != generation {
		c.log.DebugContext(ctx, "Task collection went stale during fetch, not caching it", "key", key)
		return tasks, nil
	}
	c.store(ctx, key, tasks)
	return tasks, nil
}

func (c *CRM) FetchEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if c.load(ctx, employeesKey, &employees) {
		return employees, nil
	}

	employees, err := c.CRMIface.FetchEmployees(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, employeesKey, employees)
	return employees, nil
}

func (c *CRM) FetchLabels(ctx context.Context) ([]models.Label, error) {
	var labels []models.Label
	if c.load(ctx, labelsKey, &labels) {
		return labels, nil
	}

	labels, err := c.CRMIface.FetchLabels(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, labelsKey, labels)
	return labels, nil
}

func (c *CRM) CreateTask(ctx context.Context, task models.NewTask) (models.Task, error) {
	created, err := c.CRMIface.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, err
	}

	c.EvictTasks(ctx)
	return created, nil
}

func (c *CRM) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
	updated, err := c.CRMIface.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return models.Task{}, err
	}

	c.EvictTasks(ctx)
	return updated, nil
}

func (c *CRM) DeleteTask(ctx context.Context, taskID string) error {
	if err := c.CRMIface.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	c.EvictTasks(ctx)
	return nil
}

func (c *CRM) UploadFile(ctx context.Context, taskID, fileName string, content io.Reader) (models.Attachment, error) {
	attachment, err := c.CRMIface.UploadFile(ctx, taskID, fileName, content)
	if err != nil {
		return models.Attachment{}, err
	}

	c.EvictTasks(ctx)
	return attachment, nil
}

func (c *CRM) CreateLabel(ctx context.Context, label models.Label) (models.Label, error) {
	created, err := c.CRMIface.CreateLabel(ctx, label)
	if err != nil {
		return models.Label{}, err
	}

	c.evict(ctx, labelsKey)
	return created, nil
}

func (c *CRM) DeleteLabel(ctx context.Context, labelID string) error {
	if err := c.CRMIface.DeleteLabel(ctx, labelID); err != nil {
		return err
	}

	// tasks carry label names as tags
	c.evict(ctx, labelsKey)
	c.EvictTasks(ctx)
	return nil
}

// EvictTasks drops every cached task collection, whatever filter produced it.
func (c *CRM) EvictTasks(ctx context.Context) {
	c.evictions.Add(1)
	if c.redis == nil {
		return
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, tasksPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WarnContext(ctx, "Failed to scan cached task collections", sl.Err(err))
		return
	}

	c.evict(ctx, keys...)
}

func (c *CRM) load(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.ttl == 0 {
		return false
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backend without failing.
			c.metrics.CacheLookups.WithLabelValues("error").Inc()
			c.log.WarnContext(ctx, "Cache lookup failed", "key", key, sl.Err(err))
			c.evict(ctx, key)
			return false
		}
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}

	if err = json.Unmarshal(data, out); err != nil {
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.WarnContext(ctx, "Dropping undecodable cache entry", "key", key, sl.Err(err))
		c.evict(ctx, key)
		return false
	}

	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (c *CRM) store(ctx context.Context, key string, value any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err = c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "Failed to store cache entry", "key", key, sl.Err(err))
	}
}

func (c *CRM) evict(ctx context.Context, keys ...string) {
	if c.redis == nil || len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.WarnContext(ctx, "Failed to evict cache entries", "keys", keys, sl.Err(err))
	}
}

// tasksKey derives a stable key from the filter the collection was fetched with.
func tasksKey(filter models.Filter) string {
	raw, _ := json.Marshal(filter)
	sum := sha256.Sum256(raw)
	return tasksPrefix + hex.EncodeToString(sum[:8])
}

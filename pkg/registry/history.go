package registry

import (
	"context"
	"encoding/json"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"github.com/pinkflow/pinkflow/pkg/models"
)

// DefaultHistoryLimit is the number of records returned when a caller does
// not specify a limit.
const DefaultHistoryLimit = 100

// DefaultHistoryCapacity bounds retained records. The ledger is append-only
// from the caller's perspective, but retention is capped: an unbounded
// in-process ledger is a slow leak, so the oldest records are evicted once
// the cap is reached.
const DefaultHistoryCapacity = 10000

// HistorySink stores execution records. Implementations must be safe for
// concurrent use: the registry appends from every Execute call.
type HistorySink interface {
	Append(ctx context.Context, record models.ExecutionRecord) error

	// Records returns retained records in chronological order, optionally
	// filtered by workflow ID. A positive limit returns at most the newest
	// limit records; limit <= 0 returns everything retained.
	Records(ctx context.Context, workflowID string, limit int) ([]models.ExecutionRecord, error)
}

// memoryHistory is the default ring-buffer sink.
type memoryHistory struct {
	mutex    sync.RWMutex
	records  []models.ExecutionRecord
	capacity int
}

// NewMemoryHistory creates an in-memory sink retaining up to capacity
// records (DefaultHistoryCapacity when capacity <= 0).
func NewMemoryHistory(capacity int) HistorySink {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &memoryHistory{
		records:  make([]models.ExecutionRecord, 0),
		capacity: capacity,
	}
}

func (m *memoryHistory) Append(_ context.Context, record models.ExecutionRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.records = append(m.records, record)
	if len(m.records) > m.capacity {
		m.records = m.records[len(m.records)-m.capacity:]
	}

	return nil
}

func (m *memoryHistory) Records(_ context.Context, workflowID string, limit int) ([]models.ExecutionRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	matched := make([]models.ExecutionRecord, 0, len(m.records))

	for _, record := range m.records {
		if workflowID == "" || record.WorkflowID == workflowID {
			matched = append(matched, record)
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	return matched, nil
}

// redisHistory stores records in a capped Redis list, newest first. It is
// the external-sink answer to the retention question: history survives the
// process and eviction happens in Redis via LTRIM.
type redisHistory struct {
	client   redis.UniversalClient
	key      string
	capacity int64
}

// NewRedisHistory creates a Redis-backed sink under the given key
// ("pinkflow:history" when empty), retaining up to capacity records.
func NewRedisHistory(client redis.UniversalClient, key string, capacity int64) HistorySink {
	if key == "" {
		key = "pinkflow:history"
	}

	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &redisHistory{
		client:   client,
		key:      key,
		capacity: capacity,
	}
}

func (r *redisHistory) Append(ctx context.Context, record models.ExecutionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, payload)
	pipe.LTrim(ctx, r.key, 0, r.capacity-1)

	_, err = pipe.Exec(ctx)

	return err
}

func (r *redisHistory) Records(ctx context.Context, workflowID string, limit int) ([]models.ExecutionRecord, error) {
	// Fetch newest-first; the filter can match anywhere in the list, so
	// read everything retained and trim after filtering.
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	matched := make([]models.ExecutionRecord, 0, len(raw))

	// Reverse into chronological order while filtering.
	for i := len(raw) - 1; i >= 0; i-- {
		var record models.ExecutionRecord
		if err := json.Unmarshal([]byte(raw[i]), &record); err != nil {
			return nil, err
		}

		if workflowID == "" || record.WorkflowID == workflowID {
			matched = append(matched, record)
		}
	}

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	return matched, nil
}

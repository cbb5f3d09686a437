// Package store persists generation records: one row per submission with
// its mode, prompt, outcome and the location of the stored result.
package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// RecordTTL is the default time-to-live for DynamoDB records.
const RecordTTL = 7 * 24 * time.Hour

// Record statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// GenerationRecord describes one finished submission.
type GenerationRecord struct {
	ID           string `json:"id" dynamodbav:"-"`
	Mode         string `json:"mode" dynamodbav:"mode"`
	Prompt       string `json:"prompt,omitempty" dynamodbav:"prompt,omitempty"`
	Status       string `json:"status" dynamodbav:"status"`
	ErrorKind    string `json:"errorKind,omitempty" dynamodbav:"errorKind,omitempty"`
	ErrorMessage string `json:"error,omitempty" dynamodbav:"errorMessage,omitempty"`
	MIMEType     string `json:"mimeType,omitempty" dynamodbav:"mimeType,omitempty"`
	ObjectKey    string `json:"objectKey,omitempty" dynamodbav:"objectKey,omitempty"`
	Bytes        int    `json:"bytes,omitempty" dynamodbav:"bytes,omitempty"`
	DurationMs   int64  `json:"durationMs" dynamodbav:"durationMs"`
	Polls        int    `json:"polls,omitempty" dynamodbav:"polls,omitempty"`
	CreatedAt    int64  `json:"createdAt" dynamodbav:"createdAt"`
}

// Day returns the UTC date the record was created on, as yyyy-mm-dd.
func (r *GenerationRecord) Day() string {
	return time.Unix(r.CreatedAt, 0).UTC().Format(dayLayout)
}

const dayLayout = "2006-01-02"

// GenerationStore is implemented by DynamoStore and MemoryStore.
type GenerationStore interface {
	PutGeneration(ctx context.Context, rec *GenerationRecord) error
	// GetGeneration returns nil, nil when the record does not exist.
	GetGeneration(ctx context.Context, id string) (*GenerationRecord, error)
	// ListGenerations returns the records created on day (yyyy-mm-dd),
	// newest first.
	ListGenerations(ctx context.Context, day string) ([]*GenerationRecord, error)
}

// MemoryStore keeps records in process memory. The web server uses it when
// no DynamoDB table is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*GenerationRecord
}

var _ GenerationStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*GenerationRecord)}
}

func (m *MemoryStore) PutGeneration(_ context.Context, rec *GenerationRecord) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	cp := *rec
	m.mu.Lock()
	m.records[rec.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetGeneration(_ context.Context, id string) (*GenerationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) ListGenerations(_ context.Context, day string) ([]*GenerationRecord, error) {
	m.mu.RLock()
	var out []*GenerationRecord
	for _, rec := range m.records {
		if day == "" || rec.Day() == day {
			cp := *rec
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(recs []*GenerationRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt != recs[j].CreatedAt {
			return recs[i].CreatedAt > recs[j].CreatedAt
		}
		return recs[i].ID > recs[j].ID
	})
}

package metrics

import (
	"sort"
	"time"
)

type DispatchRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Keys      string    `json:"keys"`
	Kind      string    `json:"kind"`
	Command   string    `json:"command"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

type DailyMetrics struct {
	Date          string           `json:"date"`
	Dispatches    []DispatchRecord `json:"dispatches"`
	DispatchCount int              `json:"dispatch_count"`
	FailureCount  int              `json:"failure_count"`
}

type SequenceCount struct {
	Keys  string
	Count int
}

type TotalMetrics struct {
	TotalDispatches int             `json:"total_dispatches"`
	TotalFailures   int             `json:"total_failures"`
	ActiveDays      int             `json:"active_days"`
	LastDispatch    time.Time       `json:"last_dispatch"`
	TopSequences    []SequenceCount `json:"top_sequences"`
}

type MetricsManager struct {
	storage *Storage
	now     func() time.Time
}

func NewMetricsManager(storagePath string) (*MetricsManager, error) {
	storage, err := NewStorage(storagePath)
	if err != nil {
		return nil, err
	}

	return &MetricsManager{
		storage: storage,
		now:     time.Now,
	}, nil
}

// RecordDispatch appends one dispatch outcome to today's file.
func (mm *MetricsManager) RecordDispatch(keys, kind, command string, at time.Time, launchErr error) (*DispatchRecord, error) {
	if at.IsZero() {
		at = mm.now()
	}
	record := &DispatchRecord{
		Timestamp: at,
		Keys:      keys,
		Kind:      kind,
		Command:   command,
		OK:        launchErr == nil,
	}
	if launchErr != nil {
		record.Error = launchErr.Error()
	}

	if err := mm.storage.SaveDispatch(record); err != nil {
		return record, err
	}

	return record, nil
}

func (mm *MetricsManager) GetTodayMetrics() (*DailyMetrics, error) {
	today := mm.now().Format(dateLayout)
	return mm.storage.GetDailyMetrics(today)
}

func (mm *MetricsManager) GetTotalMetrics() (*TotalMetrics, error) {
	return mm.storage.GetTotalMetrics()
}

func (mm *MetricsManager) GetRecentDays(days int) ([]*DailyMetrics, error) {
	return mm.storage.GetRecentDays(mm.now(), days)
}

func (mm *MetricsManager) ClearAllMetrics() error {
	return mm.storage.ClearAllMetrics()
}

// topSequences orders sequence counts by count, then keys, keeping at most n.
func topSequences(counts map[string]int, n int) []SequenceCount {
	top := make([]SequenceCount, 0, len(counts))
	for k, c := range counts {
		top = append(top, SequenceCount{Keys: k, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Keys < top[j].Keys
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

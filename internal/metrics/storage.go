package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type Storage struct {
	mu      sync.Mutex
	baseDir string
}

const (
	dailyMetricsDir = "daily"
	dateLayout      = "2006-01-02"
	topSequenceN    = 5
)

func NewStorage(baseDir string) (*Storage, error) {
	dailyDir := filepath.Join(baseDir, dailyMetricsDir)
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create daily metrics directory: %w", err)
	}

	return &Storage{
		baseDir: baseDir,
	}, nil
}

func (s *Storage) SaveDispatch(record *DispatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := record.Timestamp.Format(dateLayout)

	dailyMetrics, err := s.GetDailyMetrics(date)
	if err != nil {
		// a corrupt day file is replaced rather than blocking new records
		dailyMetrics = &DailyMetrics{Date: date}
	}

	dailyMetrics.Dispatches = append(dailyMetrics.Dispatches, *record)
	dailyMetrics.DispatchCount = len(dailyMetrics.Dispatches)
	if !record.OK {
		dailyMetrics.FailureCount++
	}

	return s.saveDailyMetrics(dailyMetrics)
}

func (s *Storage) GetDailyMetrics(date string) (*DailyMetrics, error) {
	filePath := s.dailyPath(date)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return &DailyMetrics{
			Date:       date,
			Dispatches: []DispatchRecord{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var dailyMetrics DailyMetrics
	if err := json.Unmarshal(data, &dailyMetrics); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}

	return &dailyMetrics, nil
}

func (s *Storage) dailyPath(date string) string {
	return filepath.Join(s.baseDir, dailyMetricsDir, fmt.Sprintf("%s.json", date))
}

func (s *Storage) saveDailyMetrics(metrics *DailyMetrics) error {
	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.dailyPath(metrics.Date), data, 0644)
}

func (s *Storage) GetTotalMetrics() (*TotalMetrics, error) {
	all, err := s.GetAllDailyMetrics()
	if err != nil {
		return nil, err
	}

	totalMetrics := &TotalMetrics{}
	counts := make(map[string]int)

	for _, day := range all {
		if day.DispatchCount > 0 {
			totalMetrics.ActiveDays++
		}
		totalMetrics.TotalDispatches += day.DispatchCount
		totalMetrics.TotalFailures += day.FailureCount
		for _, d := range day.Dispatches {
			counts[d.Keys]++
			if d.Timestamp.After(totalMetrics.LastDispatch) {
				totalMetrics.LastDispatch = d.Timestamp
			}
		}
	}

	totalMetrics.TopSequences = topSequences(counts, topSequenceN)
	return totalMetrics, nil
}

// GetRecentDays returns the given number of days ending at now, oldest first.
func (s *Storage) GetRecentDays(now time.Time, days int) ([]*DailyMetrics, error) {
	var recentMetrics []*DailyMetrics

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)
		dailyMetrics, err := s.GetDailyMetrics(date)
		if err != nil {
			continue // Skip problematic days
		}
		recentMetrics = append(recentMetrics, dailyMetrics)
	}

	return recentMetrics, nil
}

func (s *Storage) ClearAllMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dailyDir := filepath.Join(s.baseDir, dailyMetricsDir)

	files, err := os.ReadDir(dailyDir)
	if err != nil {
		return nil // Directory doesn't exist, nothing to clear
	}

	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".json" {
			filePath := filepath.Join(dailyDir, file.Name())
			if err := os.Remove(filePath); err != nil {
				return fmt.Errorf("failed to remove %s: %w", file.Name(), err)
			}
		}
	}

	return nil
}

func (s *Storage) GetAllDailyMetrics() ([]*DailyMetrics, error) {
	dailyDir := filepath.Join(s.baseDir, dailyMetricsDir)

	files, err := os.ReadDir(dailyDir)
	if err != nil {
		return []*DailyMetrics{}, nil
	}

	var fileNames []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".json" {
			fileNames = append(fileNames, file.Name())
		}
	}

	// Sort file names to get chronological order
	sort.Strings(fileNames)

	var allMetrics []*DailyMetrics
	for _, fileName := range fileNames {
		data, err := os.ReadFile(filepath.Join(dailyDir, fileName))
		if err != nil {
			continue
		}

		var dailyMetrics DailyMetrics
		if err := json.Unmarshal(data, &dailyMetrics); err != nil {
			continue
		}

		allMetrics = append(allMetrics, &dailyMetrics)
	}

	return allMetrics, nil
}

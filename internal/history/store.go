package history

import (
	"sync"

	"github.com/spacesedan/reviewradar/internal/models"
)

// Store is the in-memory ledger of past analyses. It exclusively owns
// the record collection and the id counter; all access is serialized
// behind a mutex so concurrent requests stay correct.
type Store struct {
	mu      sync.Mutex
	nextID  int
	records []models.HistoryRecord
	results map[int]models.AnalysisResult
}

func NewStore() *Store {
	return &Store{
		nextID:  1,
		results: make(map[int]models.AnalysisResult),
	}
}

// Append assigns the next monotonic id, stores the record together with
// the full result it summarizes, and returns the assigned id. IDs are
// never reused, even after Clear.
func (s *Store) Append(record models.HistoryRecord, result models.AnalysisResult) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = s.nextID
	s.nextID++

	s.records = append(s.records, record)
	s.results[record.ID] = result
	return record.ID
}

func (s *Store) Get(id int) (models.HistoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.ID == id {
			return record, true
		}
	}
	return models.HistoryRecord{}, false
}

// GetResult returns the full analysis result exactly as it was produced.
// Results are stable: a lookup never re-runs the analysis.
func (s *Store) GetResult(id int) (models.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.results[id]
	return result, ok
}

// List returns the records in insertion order.
func (s *Store) List() []models.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Clear drops all records and cached results. The id counter is kept so
// ids handed to clients are never reassigned.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.results = make(map[int]models.AnalysisResult)
}

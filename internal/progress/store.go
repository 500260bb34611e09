package progress

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/streaklit/internal/logger"
	"github.com/julianstephens/streaklit/internal/models"
	"github.com/julianstephens/streaklit/internal/storage"
)

// Store reads and writes per-goal progress values. It applies no business
// rules: absent or corrupt values load as their zero value.
type Store struct {
	kv  storage.Provider
	loc *time.Location
}

// NewStore returns a Store over kv. Loaded days are normalized to the start of
// their calendar day in loc.
func NewStore(kv storage.Provider, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{kv: kv, loc: loc}
}

// Location is the calendar location days are normalized in.
func (s *Store) Location() *time.Location { return s.loc }

// read returns nil, nil when the key is absent.
func (s *Store) read(key string) ([]byte, error) {
	data, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) SaveDateSet(key string, set models.DaySet) error {
	data, err := json.Marshal(set.Sorted())
	if err != nil {
		return err
	}
	return s.kv.Set(key, data)
}

func (s *Store) LoadDateSet(key string) models.DaySet {
	set := models.NewDaySet()
	data, err := s.read(key)
	if err != nil {
		logger.Warn("Failed to read date set", "key", key, "error", err)
		return set
	}
	if data == nil {
		return set
	}

	var days []time.Time
	if err := json.Unmarshal(data, &days); err != nil {
		logger.Warn("Discarding corrupt date set", "key", key, "error", err)
		return set
	}
	for _, d := range days {
		set.Add(d.In(s.loc))
	}
	return set
}

func (s *Store) SaveCounter(key string, n int) error {
	return s.kv.Set(key, []byte(strconv.Itoa(n)))
}

func (s *Store) LoadCounter(key string) int {
	data, err := s.read(key)
	if err != nil {
		logger.Warn("Failed to read counter", "key", key, "error", err)
		return 0
	}
	if data == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		logger.Warn("Discarding corrupt counter", "key", key, "value", string(data))
		return 0
	}
	return n
}

func (s *Store) SaveTimestamp(key string, t time.Time) error {
	return s.kv.Set(key, []byte(t.Format(time.RFC3339Nano)))
}

func (s *Store) LoadTimestamp(key string) *time.Time {
	data, err := s.read(key)
	if err != nil {
		logger.Warn("Failed to read timestamp", "key", key, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		logger.Warn("Discarding corrupt timestamp", "key", key, "value", string(data))
		return nil
	}
	t = t.In(s.loc)
	return &t
}

// LoadSnapshot reads every progress value for keys.
func (s *Store) LoadSnapshot(keys Keys) models.ProgressSnapshot {
	return models.ProgressSnapshot{
		LearnedDates: s.LoadDateSet(keys.Learned),
		FreezedDates: s.LoadDateSet(keys.Freezed),
		StreakDays:   s.LoadCounter(keys.Streak),
		FreezesUsed:  s.LoadCounter(keys.Used),
		LastLoggedAt: s.LoadTimestamp(keys.Last),
	}
}

// SaveSnapshot writes every progress value for keys. An unset LastLoggedAt
// leaves the stored timestamp untouched.
func (s *Store) SaveSnapshot(keys Keys, p models.ProgressSnapshot) error {
	var errs []error
	errs = append(errs,
		s.SaveDateSet(keys.Learned, p.LearnedDates),
		s.SaveDateSet(keys.Freezed, p.FreezedDates),
		s.SaveCounter(keys.Streak, p.StreakDays),
		s.SaveCounter(keys.Used, p.FreezesUsed),
	)
	if p.LastLoggedAt != nil {
		errs = append(errs, s.SaveTimestamp(keys.Last, *p.LastLoggedAt))
	}
	return errors.Join(errs...)
}

// Clear deletes every progress value for keys.
func (s *Store) Clear(keys Keys) error {
	return s.kv.Delete(keys.All()...)
}

package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/daniil11ru/geotracker/cli/receiver/model"
	log "github.com/sirupsen/logrus"
)

// Source is an append-only CSV location store. Appends are serialized
// by a mutex so concurrent writers never interleave inside a record;
// reads are full scans and may run concurrently with appends.
type Source struct {
	path string
	mu   sync.Mutex
}

// New opens the store at path, writing the schema header on first use.
func New(path string) (*Source, error) {
	s := &Source{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store %s: %v", path, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(model.Columns); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write store header: %v", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write store header: %v", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to initialize store %s: %v", path, err)
		}
		log.Infof("Initialized location store %s", path)
	}

	return s, nil
}

// Append writes one record to the end of the store.
func (s *Source) Append(record *model.LocationRecord) error {
	if record == nil {
		return fmt.Errorf("nil record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open store for append: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record.Row()); err != nil {
		return fmt.Errorf("failed to append record: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append record: %v", err)
	}

	return nil
}

// ReadAll scans the store front to back. Rows that do not align with
// the schema are skipped rather than failing the whole read.
func (s *Source) ReadAll() []model.LocationRecord {
	f, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Header row.
	if _, err := r.Read(); err != nil {
		return nil
	}

	var records []model.LocationRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warnf("Skipping malformed store row: %v", err)
			continue
		}
		record, ok := model.FromRow(row)
		if !ok {
			log.Warnf("Skipping misaligned store row with %d fields", len(row))
			continue
		}
		records = append(records, record)
	}

	return records
}

// Last returns the final record in arrival order.
func (s *Source) Last() (model.LocationRecord, bool) {
	records := s.ReadAll()
	if len(records) == 0 {
		return model.LocationRecord{}, false
	}
	return records[len(records)-1], true
}

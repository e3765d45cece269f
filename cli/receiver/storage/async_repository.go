package storage

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
)

// AsyncRepository decouples ingestion from the export sinks: records
// are queued and published by a worker pool, so a slow sink never
// blocks the request path.
type AsyncRepository struct {
	repo   *Repository
	ch     chan interface{ ToBytes() ([]byte, error) }
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAsyncRepository(repo *Repository, buffer, workers int) *AsyncRepository {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ar := &AsyncRepository{
		repo:   repo,
		ch:     make(chan interface{ ToBytes() ([]byte, error) }, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		ar.wg.Add(1)
		go ar.worker()
	}
	return ar
}

func (a *AsyncRepository) worker() {
	defer a.wg.Done()
	for msg := range a.ch {
		if err := a.repo.Save(msg); err != nil {
			log.WithField("err", err).Error("Failed to export location record")
		}
	}
}

func (a *AsyncRepository) Save(m interface{ ToBytes() ([]byte, error) }) error {
	select {
	case <-a.ctx.Done():
		return fmt.Errorf("async repository is closed")
	default:
	}

	select {
	case a.ch <- m:
		return nil
	case <-a.ctx.Done():
		return fmt.Errorf("async repository is closed")
	}
}

// Close drains the queue and stops the workers.
func (a *AsyncRepository) Close() {
	a.cancel()
	close(a.ch)
	a.wg.Wait()
}

// internal/service/enrollment.go
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/repository"
)

const (
	defaultBatchSize   = 100
	defaultParallelism = 4
)

// BatchError records one failed chunk. Chunks are independent, so one
// failure never aborts the rest of the run.
type BatchError struct {
	Batch int
	Err   error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("batch %d: %v", e.Batch, e.Err)
}

// EnrollmentResult is what one enrollment run produced. Written counts rows
// handed to the store in successful chunks; Skipped counts candidates that
// were already enrolled.
type EnrollmentResult struct {
	Written     int
	Skipped     int
	BatchErrors []BatchError
}

// BatchEnroller persists schedule entries in bounded chunks. Re-running it
// over the same candidates is safe: pairs already persisted are subtracted
// before any write begins.
type BatchEnroller struct {
	ScheduleRepo repository.ScheduleRepositoryInterface
	BatchSize    int
	Parallelism  int
}

// Enroll filters out already-enrolled (lead, step) pairs, then writes the
// remainder in fixed-size chunks through a bounded worker pool. The
// existing-pairs snapshot completes before the first write; interleaving the
// read with writes would defeat the duplicate filter.
func (b *BatchEnroller) Enroll(ctx context.Context, campaignID int, candidates []model.LeadScheduleEntry) (*EnrollmentResult, error) {
	existing, err := b.ScheduleRepo.ExistingPairs(campaignID)
	if err != nil {
		// Fail closed: without the snapshot we cannot tell new pairs from
		// enrolled ones, so nothing gets written.
		return nil, fmt.Errorf("existing-pairs lookup failed: %w", err)
	}

	fresh := make([]model.LeadScheduleEntry, 0, len(candidates))
	for _, e := range candidates {
		key := repository.EntryKey{LeadID: e.LeadID, StepNumber: e.StepNumber}
		if _, ok := existing[key]; ok {
			continue
		}
		fresh = append(fresh, e)
	}

	result := &EnrollmentResult{Skipped: len(candidates) - len(fresh)}
	if len(fresh) == 0 {
		return result, nil
	}

	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	parallelism := b.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	type chunk struct {
		index   int
		entries []model.LeadScheduleEntry
	}
	chunks := []chunk{}
	for start := 0; start < len(fresh); start += batchSize {
		end := start + batchSize
		if end > len(fresh) {
			end = len(fresh)
		}
		chunks = append(chunks, chunk{index: len(chunks), entries: fresh[start:end]})
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, c := range chunks {
		c := c
		g.Go(func() error {
			// A cancelled context stops dispatching new chunks; chunks
			// already written stay durable and the next publish retries the
			// rest.
			if err := ctx.Err(); err != nil {
				mu.Lock()
				result.BatchErrors = append(result.BatchErrors, BatchError{Batch: c.index, Err: err})
				mu.Unlock()
				return nil
			}
			if err := b.ScheduleRepo.InsertBatch(c.entries); err != nil {
				mu.Lock()
				result.BatchErrors = append(result.BatchErrors, BatchError{Batch: c.index, Err: err})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Written += len(c.entries)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failures are collected per batch.
	_ = g.Wait()

	sort.Slice(result.BatchErrors, func(i, j int) bool {
		return result.BatchErrors[i].Batch < result.BatchErrors[j].Batch
	})
	return result, nil
}

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/leadflow-backend/internal/model"
	"github.com/unclebandit/leadflow-backend/internal/repository"
	"github.com/unclebandit/leadflow-backend/internal/service"
)

// fakeScheduleStore records inserted entries in memory and can be told to
// fail specific batches.
type fakeScheduleStore struct {
	mu        sync.Mutex
	existing  map[repository.EntryKey]struct{}
	inserted  []model.LeadScheduleEntry
	failCalls map[int]error // fail the nth InsertBatch call (0-based)
	calls     int
	pairsErr  error
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{
		existing:  map[repository.EntryKey]struct{}{},
		failCalls: map[int]error{},
	}
}

func (f *fakeScheduleStore) ExistingPairs(campaignID int) (map[repository.EntryKey]struct{}, error) {
	if f.pairsErr != nil {
		return nil, f.pairsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := map[repository.EntryKey]struct{}{}
	for k := range f.existing {
		snapshot[k] = struct{}{}
	}
	return snapshot, nil
}

func (f *fakeScheduleStore) InsertBatch(entries []model.LeadScheduleEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.calls
	f.calls++
	if err, ok := f.failCalls[call]; ok {
		return err
	}
	for _, e := range entries {
		f.existing[repository.EntryKey{LeadID: e.LeadID, StepNumber: e.StepNumber}] = struct{}{}
	}
	f.inserted = append(f.inserted, entries...)
	return nil
}

func (f *fakeScheduleStore) ListReadyIDs(campaignID int) ([]int, error) { return nil, nil }
func (f *fakeScheduleStore) GetByID(id int) (*model.LeadScheduleEntry, error) {
	return nil, nil
}
func (f *fakeScheduleStore) Update(entry *model.LeadScheduleEntry) error { return nil }
func (f *fakeScheduleStore) StatsByCampaign(campaignID int) (map[string]int, error) {
	return map[string]int{}, nil
}

func candidateEntries(n int) []model.LeadScheduleEntry {
	now := time.Now()
	out := make([]model.LeadScheduleEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.LeadScheduleEntry{
			CampaignID:  1,
			LeadID:      i + 1,
			StepNumber:  1,
			Status:      model.EntryStatusReady,
			NextAt:      now,
			ScheduledAt: now,
		})
	}
	return out
}

func TestEnrollWritesAllFresh(t *testing.T) {
	store := newFakeScheduleStore()
	enroller := &service.BatchEnroller{ScheduleRepo: store, BatchSize: 10}

	res, err := enroller.Enroll(context.Background(), 1, candidateEntries(25))
	require.NoError(t, err)
	assert.Equal(t, 25, res.Written)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.BatchErrors)
	assert.Len(t, store.inserted, 25)
}

func TestEnrollIsIdempotent(t *testing.T) {
	store := newFakeScheduleStore()
	enroller := &service.BatchEnroller{ScheduleRepo: store, BatchSize: 10}

	_, err := enroller.Enroll(context.Background(), 1, candidateEntries(25))
	require.NoError(t, err)

	// second run over identical candidates writes zero rows, no errors
	res, err := enroller.Enroll(context.Background(), 1, candidateEntries(25))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 25, res.Skipped)
	assert.Empty(t, res.BatchErrors)
}

func TestEnrollPartialFailure(t *testing.T) {
	store := newFakeScheduleStore()
	store.failCalls[1] = errors.New("disk full")

	// serial so batch order is deterministic
	enroller := &service.BatchEnroller{ScheduleRepo: store, BatchSize: 10, Parallelism: 1}

	res, err := enroller.Enroll(context.Background(), 1, candidateEntries(25))
	require.NoError(t, err)

	// chunk 1 and chunk 3 are durable, chunk 2 is reported
	assert.Equal(t, 15, res.Written)
	require.Len(t, res.BatchErrors, 1)
	assert.Equal(t, 1, res.BatchErrors[0].Batch)
	assert.Contains(t, res.BatchErrors[0].Err.Error(), "disk full")

	// a retry publishes only the failed chunk's rows
	retry, err := enroller.Enroll(context.Background(), 1, candidateEntries(25))
	require.NoError(t, err)
	assert.Equal(t, 10, retry.Written)
	assert.Equal(t, 15, retry.Skipped)
	assert.Empty(t, retry.BatchErrors)
}

func TestEnrollFailsClosedOnSnapshotError(t *testing.T) {
	store := newFakeScheduleStore()
	store.pairsErr = errors.New("connection refused")
	enroller := &service.BatchEnroller{ScheduleRepo: store, BatchSize: 10}

	res, err := enroller.Enroll(context.Background(), 1, candidateEntries(5))
	assert.Error(t, err)
	assert.Nil(t, res)
	assert.Empty(t, store.inserted)
}

func TestEnrollHonorsCancellation(t *testing.T) {
	store := newFakeScheduleStore()
	enroller := &service.BatchEnroller{ScheduleRepo: store, BatchSize: 10, Parallelism: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := enroller.Enroll(ctx, 1, candidateEntries(25))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.NotEmpty(t, res.BatchErrors)
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	cutoffs    []time.Time
	refreshes  int
	closed     int64
	corrected  int64
	closeErr   error
	refreshErr error
}

func (f *fakeStore) CloseStaleJobPostings(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.closed, f.closeErr
}

func (f *fakeStore) RefreshCompanyRatings(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.corrected, f.refreshErr
}

func (f *fakeStore) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs), f.refreshes
}

func TestNew_Defaults(t *testing.T) {
	s := New(&fakeStore{}, Config{})
	assert.Equal(t, DefaultExpireSpec, s.cfg.ExpireSpec)
	assert.Equal(t, DefaultRatingsSpec, s.cfg.RatingsSpec)
}

func TestExpirePostings_Cutoff(t *testing.T) {
	store := &fakeStore{closed: 3}
	s := New(store, Config{PostingTTL: 30 * 24 * time.Hour})
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n := s.ExpirePostings(context.Background())
	assert.Equal(t, int64(3), n)
	require.Len(t, store.cutoffs, 1)
	assert.Equal(t, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), store.cutoffs[0])
}

func TestExpirePostings_ErrorIsSwallowed(t *testing.T) {
	s := New(&fakeStore{closeErr: errors.New("db down")}, Config{PostingTTL: time.Hour})
	assert.Equal(t, int64(0), s.ExpirePostings(context.Background()))
}

func TestRefreshRatings(t *testing.T) {
	store := &fakeStore{corrected: 2}
	s := New(store, Config{})
	assert.Equal(t, int64(2), s.RefreshRatings(context.Background()))

	store.refreshErr = errors.New("db down")
	assert.Equal(t, int64(0), s.RefreshRatings(context.Background()))
}

func TestRunOnce_SkipsExpiryWithoutTTL(t *testing.T) {
	store := &fakeStore{}
	New(store, Config{}).RunOnce(context.Background())

	expires, refreshes := store.calls()
	assert.Equal(t, 0, expires)
	assert.Equal(t, 1, refreshes)
}

func TestStart_RunsImmediately(t *testing.T) {
	store := &fakeStore{}
	s := New(store, Config{PostingTTL: time.Hour})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		expires, refreshes := store.calls()
		return expires == 1 && refreshes == 1
	}, time.Second, 10*time.Millisecond)
}

// gatedStore blocks RefreshCompanyRatings until release is closed
type gatedStore struct {
	fakeStore
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) RefreshCompanyRatings(ctx context.Context) (int64, error) {
	close(g.entered)
	<-g.release
	return g.fakeStore.RefreshCompanyRatings(ctx)
}

func TestStop_WaitsForStartupRun(t *testing.T) {
	store := &gatedStore{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(store, Config{})
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-store.entered:
	case <-time.After(time.Second):
		t.Fatal("startup run never began")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the startup run was still in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the startup run finished")
	}
	_, refreshes := store.calls()
	assert.Equal(t, 1, refreshes)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New(&fakeStore{}, Config{PostingTTL: time.Hour, ExpireSpec: "not a spec"})
	assert.Error(t, s.Start(context.Background()))
}

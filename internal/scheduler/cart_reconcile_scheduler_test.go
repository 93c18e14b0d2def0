package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mykitchen/kitchen/internal/app/service"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (r *countingReconciler) Reconcile(ctx context.Context) (*service.ReconcileReport, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("reconcile called without deadline")
	}
	if r.err != nil {
		return nil, r.err
	}
	return &service.ReconcileReport{Checked: 1, Removed: []string{}, Repriced: []string{"r1"}}, nil
}

func TestCartReconcileScheduler_RunOnce(t *testing.T) {
	r := &countingReconciler{}
	s := NewCartReconcileScheduler(r, "")

	s.RunOnce()
	assert.EqualValues(t, 1, r.calls.Load())
	assert.Equal(t, DefaultReconcileSpec, s.spec)

	r.err = errors.New("catalog down")
	s.RunOnce()
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestCartReconcileScheduler_Runs(t *testing.T) {
	r := &countingReconciler{}
	s := NewCartReconcileScheduler(r, "@every 1s")
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestCartReconcileScheduler_InvalidSpec(t *testing.T) {
	s := NewCartReconcileScheduler(&countingReconciler{}, "every now and then")
	assert.Error(t, s.Start())
}

func TestKVFields(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"entry": 3}, kvFields([]interface{}{"entry", 3, "dangling"}))
}

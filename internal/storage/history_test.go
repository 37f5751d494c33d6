package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wct/internal/domain"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_RecordAndRun(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, h.Record(ctx, sampleReport("run-1", started)))

	run, err := h.Run(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "/opt/wacc/compile", run.Compiler)
	assert.Equal(t, 2, run.Workers)
	assert.Equal(t, int64(1500), run.DurationMs)
	assert.Equal(t, 1, run.Passed)
	assert.Equal(t, 2, run.Failed)
	assert.Equal(t, 3, run.Total)
	assert.False(t, run.Success)
	assert.True(t, run.StartedAt.Equal(started))

	require.Len(t, run.Fixtures, 3)
	names := []string{run.Fixtures[0].Fixture, run.Fixtures[1].Fixture, run.Fixtures[2].Fixture}
	assert.Equal(t, []string{"basic/exit/exitBasic.wacc", "while/loop.wacc", "while/whileNodo.wacc"}, names)

	timeout := run.Fixtures[1]
	assert.Equal(t, "FAIL", timeout.Verdict)
	assert.Nil(t, timeout.ExitCode)
	assert.Equal(t, "timeout after 1s", timeout.Reason)

	syntax := run.Fixtures[2]
	assert.Equal(t, string(domain.CategoryInvalidSyntax), syntax.Category)
	require.NotNil(t, syntax.ExitCode)
	assert.Equal(t, 0, *syntax.ExitCode)
	assert.Equal(t, 100, syntax.Expected)
}

func TestHistory_RecordDuplicateID(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, sampleReport("run-1", time.Now())))
	assert.Error(t, h.Record(ctx, sampleReport("run-1", time.Now())))
}

func TestHistory_Recent(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, h.Record(ctx, sampleReport(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Empty(t, runs[0].Fixtures)

	all, err := h.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHistory_FixtureTrend(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := sampleReport("first", base)
	second := sampleReport("second", base.Add(time.Hour))
	second.Categories[1].Outcomes[0].Verdict = domain.Pass
	second.Categories[1].Outcomes[0].Result = domain.ExitedWith(100)

	require.NoError(t, h.Record(ctx, first))
	require.NoError(t, h.Record(ctx, second))

	trend, err := h.FixtureTrend(ctx, domain.CategoryInvalidSyntax, "while/whileNodo.wacc", 10)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "second", trend[0].RunID)
	assert.Equal(t, "PASS", trend[0].Verdict)
	assert.Equal(t, "first", trend[1].RunID)
	assert.Equal(t, "FAIL", trend[1].Verdict)

	none, err := h.FixtureTrend(ctx, domain.CategoryValid, "while/whileNodo.wacc", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistory_RunNotFound(t *testing.T) {
	h := openTestHistory(t)
	require.NoError(t, h.Record(context.Background(), sampleReport("0b6c1f7e-aaaa", time.Now())))

	_, err := h.Run(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = h.Run(context.Background(), "")
	assert.ErrorIs(t, err, ErrRunNotFound)
	// LIKE wildcards in the id are matched literally
	_, err = h.Run(context.Background(), "%")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = h.Run(context.Background(), "0b6c1f7e_")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestHistory_RunByPrefix(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	require.NoError(t, h.Record(ctx, sampleReport("0b6c1f7e-9d8a-4a53-8f0e-2f1d6c3b5a71", time.Now())))
	require.NoError(t, h.Record(ctx, sampleReport("0b6c1f7e-1111-4a53-8f0e-2f1d6c3b5a71", time.Now())))
	require.NoError(t, h.Record(ctx, sampleReport("7d2e4c10-9d8a-4a53-8f0e-2f1d6c3b5a71", time.Now())))

	run, err := h.Run(ctx, "7d2e4c10")
	require.NoError(t, err)
	assert.Equal(t, "7d2e4c10-9d8a-4a53-8f0e-2f1d6c3b5a71", run.ID)
	assert.Len(t, run.Fixtures, 3)

	run, err = h.Run(ctx, "0b6c1f7e-9d8a-4a53-8f0e-2f1d6c3b5a71")
	require.NoError(t, err)
	assert.Equal(t, "0b6c1f7e-9d8a-4a53-8f0e-2f1d6c3b5a71", run.ID)

	_, err = h.Run(ctx, "0b6c1f7e")
	assert.ErrorIs(t, err, ErrAmbiguousRun)
}

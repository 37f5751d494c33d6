package execution

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"wct/internal/domain"
)

// writeScript writes an executable /bin/sh script into a temp dir and returns its path
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// fakeCompiler exits with a code chosen from the fixture file name
const fakeCompiler = `case "$1" in
  *exitBasic*) exit 0 ;;
  *whileNodo*) exit 100 ;;
  *undeclaredVar*) exit 1 ;;
  *semanticOk*) exit 200 ;;
  *hang*) exec sleep 5 ;;
  *) exit 3 ;;
esac`

// stubRunner is an in-memory FixtureRunner
type stubRunner struct {
	mu       sync.Mutex
	verdicts map[domain.FixtureID]domain.Verdict
	delay    func(domain.FixtureID) time.Duration
	calls    []domain.FixtureID
	inFlight int
	maxSeen  int
}

func (s *stubRunner) RunFixture(ctx context.Context, workerID int, cat domain.Category, f domain.Fixture) domain.FixtureOutcome {
	s.mu.Lock()
	s.calls = append(s.calls, f.ID)
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	s.mu.Unlock()

	if s.delay != nil {
		time.Sleep(s.delay(f.ID))
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	v, ok := s.verdicts[f.ID]
	if !ok {
		v = domain.Pass
	}
	result := domain.ExitedWith(cat.ExpectedExitCode)
	if v == domain.Fail {
		result = domain.ExitedWith(cat.ExpectedExitCode + 1)
	}
	return domain.FixtureOutcome{ID: f.ID, Verdict: v, Result: result, Expected: cat.ExpectedExitCode}
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type recordingProgress struct {
	mu       sync.Mutex
	updates  int
	success  int
	fail     int
	finished bool
}

func (p *recordingProgress) Update(successCount, failCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
	p.success, p.fail = successCount, failCount
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}

func fixtures(ids ...domain.FixtureID) []domain.Fixture {
	out := make([]domain.Fixture, len(ids))
	for i, id := range ids {
		out[i] = domain.Fixture{ID: id}
	}
	return out
}

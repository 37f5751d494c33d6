package execution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wct/internal/config"
	"wct/internal/domain"
	"wct/internal/logging"
)

// Pipeline compiles a fixture and, for runnable categories with the backend
// enabled, assembles and emulates the generated program.
type Pipeline struct {
	config  *config.Config
	runner  *Runner
	backend bool
}

// NewPipeline creates a Pipeline. The backend stage runs only when cfg.Flags.Execute is set.
func NewPipeline(cfg *config.Config, runner *Runner) *Pipeline {
	return &Pipeline{
		config:  cfg,
		runner:  runner,
		backend: cfg.Flags.Execute,
	}
}

// WithBackend returns a copy of the pipeline with the backend stage switched on or off
func (p *Pipeline) WithBackend(on bool) *Pipeline {
	c := *p
	c.backend = on
	return &c
}

// RunFixture implements FixtureRunner
func (p *Pipeline) RunFixture(ctx context.Context, workerID int, cat domain.Category, f domain.Fixture) domain.FixtureOutcome {
	start := time.Now()
	outcome := domain.FixtureOutcome{
		ID:       f.ID,
		Path:     filepath.Join(cat.Root, string(f.ID)),
		Expected: cat.ExpectedExitCode,
	}

	if p.backend && cat.Runnable {
		p.runBackend(ctx, workerID, cat, f, &outcome)
	} else {
		outcome.Result = p.runner.Invoke(ctx, p.config.GetCompilerPath(), outcome.Path, cat.Flags)
		outcome.Verdict = Classify(outcome.Expected, outcome.Result)
	}
	outcome.Duration = time.Since(start)

	logOutcome(cat.Name, outcome)
	return outcome
}

// runBackend compiles into the worker's scratch directory, then assembles and
// emulates the output. The first stage that does not meet its expectation decides the verdict.
func (p *Pipeline) runBackend(ctx context.Context, workerID int, cat domain.Category, f domain.Fixture, outcome *domain.FixtureOutcome) {
	dir := p.config.GetScratchDir(workerID)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		outcome.Result = domain.ExecutionFailure(fmt.Sprintf("scratch dir: %v", err))
		outcome.Verdict = domain.Fail
		return
	}

	source := cat.FixturePath(p.config.ProjectPath, f.ID)
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}

	// The compiler writes <name>.s into its working directory
	asm := filepath.Join(dir, strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))+".s")
	exe := filepath.Join(dir, "execTest")
	defer os.Remove(asm)
	defer os.Remove(exe)

	outcome.Result = p.runner.Exec(ctx, dir, p.config.GetCompilerPath(), append([]string{source}, withoutFlag(cat.Flags, config.DefaultCheckOnlyFlag)...)...)
	outcome.Verdict = Classify(outcome.Expected, outcome.Result)
	if outcome.Verdict != domain.Pass {
		return
	}

	assemble := expand(p.config.Assembler, asm, exe)
	if len(assemble) == 0 {
		outcome.Result = domain.ExecutionFailure("no assembler configured").At(domain.StageAssemble)
		outcome.Verdict = domain.Fail
		return
	}
	outcome.Result = p.runner.Exec(ctx, dir, assemble[0], assemble[1:]...).At(domain.StageAssemble)
	outcome.Expected = 0
	outcome.Verdict = Classify(outcome.Expected, outcome.Result)
	if outcome.Verdict != domain.Pass {
		return
	}

	emulate := expand(p.config.Emulator, asm, exe)
	if len(emulate) == 0 {
		outcome.Result = domain.ExecutionFailure("no emulator configured").At(domain.StageEmulate)
		outcome.Verdict = domain.Fail
		return
	}
	outcome.Result = p.runner.Exec(ctx, dir, emulate[0], emulate[1:]...).At(domain.StageEmulate)
	outcome.Expected = f.ExpectedRunExitCode()
	outcome.Verdict = Classify(outcome.Expected, outcome.Result)
}

func logOutcome(category domain.CategoryName, o domain.FixtureOutcome) {
	switch {
	case o.Verdict == domain.Pass:
		logging.Logger.Debug("fixture passed", "category", category, "fixture", o.ID, "duration", o.Duration)
	case o.Result.IsExecFailure():
		logging.Logger.Warn("execution failure",
			"category", category,
			"fixture", o.ID,
			"stage", o.Result.Stage,
			"reason", o.Result.Reason,
		)
	default:
		logging.Logger.Debug("exit code mismatch",
			"category", category,
			"fixture", o.ID,
			"stage", o.Result.Stage,
			"got", o.Result.ExitCode,
			"want", o.Expected,
		)
	}
}

// expand substitutes {asm} and {exe} in a command template
func expand(template []string, asm, exe string) []string {
	r := strings.NewReplacer("{asm}", asm, "{exe}", exe)
	out := make([]string, len(template))
	for i, arg := range template {
		out[i] = r.Replace(arg)
	}
	return out
}

func withoutFlag(flags []string, drop string) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wct/internal/domain"
	"wct/internal/logging"
)

var (
	// ErrRunNotFound means no recorded run matches the requested id
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun means an id prefix matches more than one recorded run
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// RunRecord is one harness run in the history database
type RunRecord struct {
	ID         string    `gorm:"primaryKey"`
	StartedAt  time.Time `gorm:"not null;index:idx_started_at"`
	Compiler   string    `gorm:"not null;default:''"`
	Workers    int       `gorm:"not null;default:0"`
	DurationMs int64     `gorm:"not null;default:0"`
	Passed     int       `gorm:"not null;default:0"`
	Failed     int       `gorm:"not null;default:0"`
	Total      int       `gorm:"not null;default:0"`
	Success    bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time

	Fixtures []FixtureRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// FixtureRecord is the outcome of one fixture within a run
type FixtureRecord struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"not null;index:idx_run_fixture"`
	Position   int    `gorm:"not null;default:0"`
	Category   string `gorm:"not null;index:idx_category_fixture"`
	Fixture    string `gorm:"not null;index:idx_category_fixture"`
	Verdict    string `gorm:"not null;check:verdict IN ('PASS','FAIL')"`
	Stage      string `gorm:"not null;default:'compile'"`
	ExitCode   *int   `gorm:"default:null"` // NULL for execution failures
	Expected   int    `gorm:"not null"`
	Reason     string `gorm:"not null;default:''"`
	DurationMs int64  `gorm:"not null;default:0"`
}

// gormLogger routes GORM messages through the shared logger
type gormLogger struct {
	level logger.LogLevel
}

// LogMode sets the log level
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

// Info logs info messages
func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

// Warn logs warn messages
func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

// Error logs error messages
func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs SQL queries at debug level
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}
	sql, rows := fc()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error", "error", err, "duration", time.Since(begin), "sql", sql, "rows", rows)
		return
	}
	logging.Logger.Debug("gorm query", "duration", time.Since(begin), "sql", sql, "rows", rows)
}

// History stores every run in a SQLite database
type History struct {
	db *gorm.DB
}

// OpenHistory opens (creating if needed) the history database at dbPath
func OpenHistory(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  (&gormLogger{}).LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA foreign_keys=ON")

	if err := db.AutoMigrate(&RunRecord{}, &FixtureRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the database handle
func (h *History) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores a run and all of its fixture outcomes in one transaction
func (h *History) Record(ctx context.Context, report domain.RunReport) error {
	passed, failed, total := report.Totals()
	run := RunRecord{
		ID:         report.ID,
		StartedAt:  report.StartedAt.UTC(),
		Compiler:   report.Compiler,
		Workers:    report.Workers,
		DurationMs: report.Duration.Milliseconds(),
		Passed:     passed,
		Failed:     failed,
		Total:      total,
		Success:    report.Success(),
	}

	position := 0
	for _, c := range report.Categories {
		for _, o := range c.Outcomes {
			rec := FixtureRecord{
				Position:   position,
				Category:   string(c.Category),
				Fixture:    string(o.ID),
				Verdict:    string(o.Verdict),
				Stage:      string(o.Result.Stage),
				Expected:   o.Expected,
				Reason:     o.Result.Reason,
				DurationMs: o.Duration.Milliseconds(),
			}
			if !o.Result.IsExecFailure() {
				code := o.Result.ExitCode
				rec.ExitCode = &code
			}
			run.Fixtures = append(run.Fixtures, rec)
			position++
		}
	}

	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("record run %s: %w", report.ID, err)
		}
		return nil
	})
}

// Recent returns up to limit runs, newest first, without fixture detail
func (h *History) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	var runs []RunRecord
	q := h.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Run returns a single run with its fixtures in report order. id may be any
// unique prefix of a run id, such as the short form the history listing prints.
func (h *History) Run(ctx context.Context, id string) (*RunRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	var matches []RunRecord
	err := h.db.WithContext(ctx).
		Select("id").
		Where(`id LIKE ? ESCAPE '\'`, likePrefix(id)).
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	}

	var run RunRecord
	err = h.db.WithContext(ctx).
		Preload("Fixtures", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&run, "id = ?", matches[0].ID).Error
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &run, nil
}

// likePrefix escapes LIKE wildcards in prefix and appends the match-anything suffix
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(prefix) + "%"
}

// FixtureTrend returns the most recent verdicts of one fixture, newest first
func (h *History) FixtureTrend(ctx context.Context, category domain.CategoryName, id domain.FixtureID, limit int) ([]FixtureRecord, error) {
	var recs []FixtureRecord
	q := h.db.WithContext(ctx).
		Joins("JOIN run_records ON run_records.id = fixture_records.run_id").
		Where("fixture_records.category = ? AND fixture_records.fixture = ?", string(category), string(id)).
		Order("run_records.started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("fixture trend: %w", err)
	}
	return recs, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// DefaultPattern matches every supported index file below the root
const DefaultPattern = "**/*.{json,yaml,yml,toml,gz,zst}"

// ErrNoRoot is returned when the seeder has no catalog directory configured
var ErrNoRoot = errors.New("catalog root not configured")

// Report summarizes one seeding run
type Report struct {
	Files   int      `json:"files"`
	Records int      `json:"records"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
}

// Seeder loads catalog index files from disk into a Store
type Seeder struct {
	store   *Store
	root    string
	pattern string
	logger  *zap.Logger
}

// NewSeeder creates a seeder for the index files under root
func NewSeeder(store *Store, root, pattern string, logger *zap.Logger) (*Seeder, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid catalog pattern %q", pattern)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, root: root, pattern: pattern, logger: logger}, nil
}

// Root returns the catalog directory
func (s *Seeder) Root() string {
	return s.root
}

// Discover returns the matching index files in lexical order
func (s *Seeder) Discover(ctx context.Context) ([]string, error) {
	if s.root == "" {
		return nil, ErrNoRoot
	}
	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("catalog root: %w", err)
	}

	var mu sync.Mutex
	var paths []string
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, s.root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(s.pattern, filepath.ToSlash(rel)); !ok {
			return nil
		}
		if _, _, err := DetectFormat(p); err != nil {
			return nil
		}

		mu.Lock()
		paths = append(paths, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk catalog: %w", err)
	}

	// fastwalk visits concurrently
	sort.Strings(paths)
	return paths, nil
}

// Load reads every index file and returns the valid records in file order.
// Unreadable files and invalid records are skipped and reported.
func (s *Seeder) Load(ctx context.Context) ([]types.Record, Report, error) {
	var report Report

	paths, err := s.Discover(ctx)
	if err != nil {
		return nil, report, err
	}

	var records []types.Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		batch, err := ReadIndex(path)
		if err != nil {
			s.logger.Warn("Failed to read catalog index", zap.String("path", path), zap.Error(err))
			report.Failed = append(report.Failed, path)
			continue
		}
		report.Files++

		for i := range batch {
			if err := batch[i].Validate(); err != nil {
				s.logger.Warn("Skipping invalid record", zap.String("path", path), zap.Int("index", i), zap.Error(err))
				report.Skipped++
				continue
			}
			records = append(records, batch[i])
		}
	}

	report.Records = len(records)
	return records, report, nil
}

// Seed loads the catalog from disk and replaces the store contents
func (s *Seeder) Seed(ctx context.Context) (Report, error) {
	s.logger.Info("Seeding catalog", zap.String("root", s.root), zap.String("pattern", s.pattern))

	records, report, err := s.Load(ctx)
	if err != nil {
		return report, err
	}
	if err := s.store.Replace(records); err != nil {
		return report, err
	}

	s.logger.Info("Seeding complete",
		zap.Int("files", report.Files),
		zap.Int("records", report.Records),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

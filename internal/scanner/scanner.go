// Package scanner enumerates a keystore directory, pairs each ".json"
// keystore with its password file, and decodes pairs concurrently on a
// bounded worker pool (spec component E).
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/decred/dcrd/lru"
	"github.com/panjf2000/ants/v2"

	"github.com/blocoeth/eth2-keyvault/internal/erc2335"
	"github.com/blocoeth/eth2-keyvault/pkg/logging"
)

// Record pairs a decoded keystore with the file it came from.
type Record struct {
	Name   string
	Record *erc2335.KeystoreRecord
}

// Failure describes one file that could not be decoded. A scan never
// fails as a whole because of a Failure (spec §4.E, §7).
type Failure struct {
	Name string
	Err  error
}

// Result is the outcome of a full directory scan.
type Result struct {
	Records  []Record
	Failures []Failure
}

// ProgressFunc is invoked once per file processed (success or failure),
// grounded on the teacher's ProgressLogger callback shape. It feeds
// internal/tui's scan progress bar.
type ProgressFunc func(done, total int, name string)

const defaultRecentFailureCacheSize = 256

// Scanner scans keystore directories and decodes file pairs concurrently.
// It keeps a small bounded "recently failed" set across calls to Scan so
// that a file which fails on every pass (e.g. a permanently corrupted
// keystore left in the directory) is only logged once instead of on
// every repeated scan.
type Scanner struct {
	pool           *ants.Pool
	logger         logging.SecureLogger
	recentFailures *lru.Cache[string]
}

// Config controls Scanner construction.
type Config struct {
	// Concurrency bounds the number of keystore/password pairs decoded
	// in parallel. Zero selects a small default.
	Concurrency int
	// RecentFailureCacheSize bounds the "already logged" failure set.
	// Zero selects defaultRecentFailureCacheSize.
	RecentFailureCacheSize int
}

// New constructs a Scanner backed by a bounded ants goroutine pool.
func New(cfg Config, logger logging.SecureLogger) (*Scanner, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	cacheSize := cfg.RecentFailureCacheSize
	if cacheSize <= 0 {
		cacheSize = defaultRecentFailureCacheSize
	}

	pool, err := ants.NewPool(concurrency, ants.WithOptions(ants.Options{
		PreAlloc:    true,
		Nonblocking: false,
	}))
	if err != nil {
		return nil, err
	}

	return &Scanner{
		pool:           pool,
		logger:         logger,
		recentFailures: lru.NewCache[string](uint64(cacheSize)),
	}, nil
}

// Close releases the underlying worker pool.
func (s *Scanner) Close() {
	s.pool.Release()
}

type pairTask struct {
	name         string
	keystorePath string
	passwordPath string
}

// Scan lists keystoreDir, pairs every "<name>.json" entry with
// "<name>.txt" in passwordDir, and decodes each pair on the worker pool.
// A non-".json" entry is skipped silently (not an error). A decode
// failure is recorded in Result.Failures and the scan continues — the
// batch operation itself only fails on a directory-listing error.
func (s *Scanner) Scan(ctx context.Context, keystoreDir, passwordDir string, progress ProgressFunc) (*Result, error) {
	entries, err := os.ReadDir(keystoreDir)
	if err != nil {
		return nil, err
	}

	var tasks []pairTask
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".json")
		tasks = append(tasks, pairTask{
			name:         base,
			keystorePath: filepath.Join(keystoreDir, entry.Name()),
			passwordPath: filepath.Join(passwordDir, base+".txt"),
		})
	}

	result := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	done := 0
	total := len(tasks)

	for _, task := range tasks {
		task := task
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				mu.Lock()
				result.Failures = append(result.Failures, Failure{Name: task.name, Err: ctx.Err()})
				done++
				if progress != nil {
					progress(done, total, task.name)
				}
				mu.Unlock()
				return
			default:
			}

			rec, err := s.decodeOne(task)

			mu.Lock()
			if err != nil {
				result.Failures = append(result.Failures, Failure{Name: task.name, Err: err})
				s.logFailure(task.name, err)
			} else {
				result.Records = append(result.Records, Record{Name: task.name, Record: rec})
			}
			done++
			if progress != nil {
				progress(done, total, task.name)
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failures = append(result.Failures, Failure{Name: task.name, Err: submitErr})
			mu.Unlock()
		}
	}

	wg.Wait()
	return result, nil
}

func (s *Scanner) decodeOne(task pairTask) (*erc2335.KeystoreRecord, error) {
	jsonBytes, err := os.ReadFile(task.keystorePath)
	if err != nil {
		return nil, err
	}
	password, err := os.ReadFile(task.passwordPath)
	if err != nil {
		return nil, err
	}
	return erc2335.Decode(jsonBytes, password)
}

// logFailure logs a decode failure unless this file name has already
// been logged as failing in a recent scan.
func (s *Scanner) logFailure(name string, err error) {
	if s.recentFailures.Contains(name) {
		return
	}
	s.recentFailures.Add(name)
	if s.logger != nil {
		s.logger.Warn("keystore decode failed",
			logging.NewLogField("file", name),
			logging.NewLogField("error", err.Error()),
		)
	}
}

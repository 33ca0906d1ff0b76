// Package statecache binds the generic cache coordinator (internal/cache)
// to the beacon-state domain: a block root maps to a pre-computed state
// blob, backed by a persistent state database (spec component H).
package statecache

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/blocoeth/eth2-keyvault/internal/cache"
	"github.com/blocoeth/eth2-keyvault/pkg/logging"
)

// Root identifies a beacon block, and transitively the post-state
// computed from it. It is an alias of go-ethereum's common.Hash so block
// roots flowing in from the gossip layer need no conversion.
type Root = common.Hash

const (
	// DefaultMaxEntries is the bound spec §4.H fixes for the block-states
	// cache (distinct from the generic cache's default of 512).
	DefaultMaxEntries = 128
	// DefaultBatchPruneSize is the prune hysteresis spec §4.H fixes for
	// the block-states cache.
	DefaultBatchPruneSize = 16
)

// StateNotFoundError is raised by GetStateInfoOrFail when neither the
// cache nor the backing store has the requested root.
type StateNotFoundError struct {
	Root Root
}

func (e *StateNotFoundError) Error() string {
	return fmt.Sprintf("statecache: no state for block root %s", e.Root)
}

// StoreFaultError wraps a non-recoverable error returned by the backing
// state database. Spec §7: fatal StoreFault aborts the caller's
// operation rather than being treated as a miss.
type StoreFaultError struct {
	Root  Root
	Cause error
}

func (e *StoreFaultError) Error() string {
	return fmt.Sprintf("statecache: store fault reading root %s: %v", e.Root, e.Cause)
}

func (e *StoreFaultError) Unwrap() error {
	return e.Cause
}

// Store is the persistent state database this facade sits in front of.
// Its three-way Get result (found, not-found, error) is translated at
// the facade boundary into the cache's (value, hit, error) contract.
type Store interface {
	// GetState returns (state, true, nil) on a hit, (nil, false, nil) on
	// a confirmed miss, and (nil, false, err) on a database error.
	GetState(root Root) ([]byte, bool, error)
	// PutState durably persists state under root.
	PutState(root Root, state []byte) error
}

// Facade is the block-states cache facade (spec component H): a
// Cache[Root, []byte] with fixed bounds, a store-backed write-through and
// miss-fetch, and a correlation ID for log output.
type Facade struct {
	id     uuid.UUID
	cache  *cache.Cache[Root, []byte]
	store  Store
	logger logging.SecureLogger
}

// Option configures a Facade at construction.
type Option func(*facadeOptions)

type facadeOptions struct {
	maxEntries     int
	batchPruneSize int
	logger         logging.SecureLogger
}

// WithBounds overrides the default 128/16 bound, primarily for tests.
func WithBounds(maxEntries, batchPruneSize int) Option {
	return func(o *facadeOptions) {
		o.maxEntries = maxEntries
		o.batchPruneSize = batchPruneSize
	}
}

// WithLogger attaches a logger used for the construction message and for
// write-through failures.
func WithLogger(logger logging.SecureLogger) Option {
	return func(o *facadeOptions) {
		o.logger = logger
	}
}

// New binds a Facade to store, ready to serve gossip/fork-choice lookups.
func New(store Store, opts ...Option) *Facade {
	o := facadeOptions{
		maxEntries:     DefaultMaxEntries,
		batchPruneSize: DefaultBatchPruneSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	f := &Facade{
		id:     uuid.New(),
		store:  store,
		logger: o.logger,
	}
	f.cache = cache.New[Root, []byte](o.maxEntries, o.batchPruneSize, f.storeFunc)

	if f.logger != nil {
		f.logger.Info("state cache facade created",
			logging.NewLogField("cache_id", f.id.String()),
			logging.NewLogField("max_entries", o.maxEntries),
			logging.NewLogField("batch_prune_size", o.batchPruneSize),
		)
	}
	return f
}

// ID returns the facade's correlation ID, used to disambiguate multiple
// independent cache instances (e.g. states vs. blocks) in log output.
func (f *Facade) ID() uuid.UUID {
	return f.id
}

// StoreStateInfo writes state through to the database and installs it as
// the most recently used entry for root.
func (f *Facade) StoreStateInfo(root Root, state []byte) error {
	if err := f.cache.Put(root, state); err != nil {
		if f.logger != nil {
			f.logger.Error("state store write-through failed",
				logging.NewLogField("cache_id", f.id.String()),
				logging.NewLogField("root", root.Hex()),
				logging.NewLogField("error", err.Error()),
			)
		}
		return err
	}
	return nil
}

// GetStateInfo resolves root against the cache, falling back to the
// database on a miss. A StoreFaultError from the database is fatal and
// propagated to the caller unchanged.
func (f *Facade) GetStateInfo(root Root) ([]byte, bool, error) {
	return f.cache.Get(root, f.fetchFunc)
}

// GetStateInfoOrFail is GetStateInfo, raising StateNotFoundError when the
// root is absent from both the cache and the database.
func (f *Facade) GetStateInfoOrFail(root Root) ([]byte, error) {
	state, found, err := f.GetStateInfo(root)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &StateNotFoundError{Root: root}
	}
	return state, nil
}

// Stats returns a point-in-time snapshot of cache size and counters.
func (f *Facade) Stats() cache.Stats {
	return f.cache.Stats()
}

func (f *Facade) storeFunc(root Root, state []byte) error {
	if err := f.store.PutState(root, state); err != nil {
		return &StoreFaultError{Root: root, Cause: err}
	}
	return nil
}

func (f *Facade) fetchFunc(root Root) ([]byte, bool, error) {
	state, found, err := f.store.GetState(root)
	if err != nil {
		return nil, false, &StoreFaultError{Root: root, Cause: err}
	}
	return state, found, nil
}

package repository

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/crgg/internal/domain/dedupe"
	"github.com/okian/crgg/internal/domain/model"
	"github.com/okian/crgg/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: loss DESC, then target key ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the board from
// the biggest opportunity to the smallest.

const defaultMaxReports = 1000

// cents is a revenue amount in fixed-point hundredths.
type cents int64

func toCents(x float64) cents {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64/100:
		return math.MaxInt64
	case x <= math.MinInt64/100:
		return math.MinInt64
	}
	return cents(math.Round(x * 100))
}

// treap node
type node struct {
	key   string
	loss  cents
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aLoss, aKey) should appear before (bLoss, bKey).
func less(aLoss cents, aKey string, bLoss cents, bKey string) bool {
	if aLoss != bLoss {
		return aLoss > bLoss
	}
	return aKey < bKey
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, key string, loss cents, prio uint64) *node {
	if n == nil {
		return &node{key: key, loss: loss, prio: prio, size: 1}
	}
	if less(loss, key, n.loss, n.key) {
		n.left = insert(n.left, key, loss, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key, loss, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key string, loss cents) *node {
	if n == nil {
		return nil
	}
	if loss == n.loss && key == n.key {
		// Rotate the higher-priority child up until n is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key, loss)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key, loss)
		}
	} else if less(loss, key, n.loss, n.key) {
		n.left = deleteNode(n.left, key, loss)
	} else {
		n.right = deleteNode(n.right, key, loss)
	}
	fix(n)
	return n
}

// position returns the 1-based rank of (loss, key), or 0 when absent.
func position(n *node, key string, loss cents) int {
	before := 0
	for n != nil {
		switch {
		case loss == n.loss && key == n.key:
			return before + nsize(n.left) + 1
		case less(loss, key, n.loss, n.key):
			n = n.left
		default:
			before += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

func last(n *node) *node {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

// collectTopN appends up to limit keys in rank order.
func collectTopN(n *node, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.key)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// record is the latest report held for a target key.
type record struct {
	loss   cents
	report *model.Report
}

// TreapStore is an in-memory prospect board.
type TreapStore struct {
	mu         sync.RWMutex
	root       *node
	byKey      map[string]record
	keyByID    map[string]string
	maxReports int
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byKey:      make(map[string]record),
		keyByID:    make(map[string]string),
		maxReports: defaultMaxReports,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateStoredReports(0)
	return s
}

// Save implements Store.Save in O(log n) expected time.
func (s *TreapStore) Save(_ context.Context, r *model.Report) error {
	if r == nil {
		return ErrNilReport
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("save", float64(time.Since(start).Microseconds())/1000)
	}()

	stored := *r
	stored.Entities = append([]model.Entity(nil), r.Entities...)
	key := dedupe.Key(r.TargetName, r.Location)
	loss := toCents(r.EstimatedRevenueLoss)

	s.mu.Lock()
	if old, ok := s.byKey[key]; ok {
		s.root = deleteNode(s.root, key, old.loss)
		delete(s.keyByID, old.report.ID)
	}
	s.byKey[key] = record{loss: loss, report: &stored}
	s.keyByID[stored.ID] = key
	s.root = insert(s.root, key, loss, rand.Uint64())

	evicted := 0
	for len(s.byKey) > s.maxReports {
		tail := last(s.root)
		rec := s.byKey[tail.key]
		s.root = deleteNode(s.root, tail.key, tail.loss)
		delete(s.byKey, tail.key)
		delete(s.keyByID, rec.report.ID)
		evicted++
	}
	count := len(s.byKey)
	s.mu.Unlock()

	for i := 0; i < evicted; i++ {
		metrics.RecordStoreEviction()
	}
	metrics.UpdateStoredReports(count)
	return nil
}

// Get implements Store.Get in O(log n) expected time.
func (s *TreapStore) Get(_ context.Context, id string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("get", float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keyByID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	rec := s.byKey[key]
	return Entry{Rank: position(s.root, key, rec.loss), Report: rec.report}, nil
}

// TopN returns the top N entries ordered by loss desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("top", float64(time.Since(start).Microseconds())/1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, min(n, len(s.byKey)))
	collectTopN(s.root, n, &keys)

	out := make([]Entry, len(keys))
	for i, key := range keys {
		out[i] = Entry{Rank: i + 1, Report: s.byKey[key].report}
	}
	return out, nil
}

// Count returns the number of targets on the board.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/okian/crgg/internal/domain/model"
)

func report(id, target string, loss float64) *model.Report {
	return &model.Report{
		ID:                   id,
		TargetName:           target,
		Location:             "Chicago, IL",
		EstimatedRevenueLoss: loss,
		Entities:             []model.Entity{{Name: target, IsTarget: true}},
	}
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if err := store.Save(ctx, report("r1", "Dr. Smith's Dental Office", 6850)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.Report.EstimatedRevenueLoss != 6850 {
		t.Errorf("expected loss 6850, got %f", entry.Report.EstimatedRevenueLoss)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Report.ID != "r1" {
		t.Errorf("unexpected top entries: %+v", entries)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	saves := []*model.Report{
		report("a", "Alpha Dental", 1200),
		report("b", "Bravo Dental", 6850),
		report("c", "Charlie Dental", 0),
		report("d", "Delta Dental", 1200),
	}
	for _, r := range saves {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"b", "a", "d", "c"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, id := range want {
		if entries[i].Report.ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, entries[i].Report.ID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}

	top, _ := store.TopN(ctx, 2)
	if len(top) != 2 || top[1].Report.ID != "a" {
		t.Errorf("unexpected top 2: %+v", top)
	}

	entry, _ := store.Get(ctx, "d")
	if entry.Rank != 3 {
		t.Errorf("expected rank 3 for tie broken by target, got %d", entry.Rank)
	}
}

func TestTreapStore_ReplacesLatestReportPerTarget(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	_ = store.Save(ctx, report("old", "Dr. Smith's Dental Office", 9000))
	_ = store.Save(ctx, report("other", "Other Dental", 5000))

	// Same target, different casing and padding.
	newer := report("new", "  dr. smith's dental office ", 100)
	newer.Location = "CHICAGO, IL"
	_ = store.Save(ctx, newer)

	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if _, err := store.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected replaced report to be gone, got %v", err)
	}
	entry, err := store.Get(ctx, "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 2 {
		t.Errorf("expected the smaller loss to drop to rank 2, got %d", entry.Rank)
	}
}

func TestTreapStore_Eviction(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithMaxReports(2))

	_ = store.Save(ctx, report("a", "A", 300))
	_ = store.Save(ctx, report("b", "B", 100))
	_ = store.Save(ctx, report("c", "C", 200))

	if count := store.Count(ctx); count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if _, err := store.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected smallest loss to be evicted, got %v", err)
	}

	// A report below the board's floor is evicted straight away.
	_ = store.Save(ctx, report("d", "D", 50))
	if _, err := store.Get(ctx, "d"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected report below the floor to be evicted, got %v", err)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilReport) {
		t.Errorf("expected ErrNilReport, got %v", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestTreapStore_CopiesOnSave(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	r := report("r1", "Target", 10)
	_ = store.Save(ctx, r)
	r.EstimatedRevenueLoss = 99999
	r.Entities[0].Name = "mutated"

	entry, _ := store.Get(ctx, "r1")
	if entry.Report.EstimatedRevenueLoss != 10 {
		t.Errorf("expected stored loss 10, got %f", entry.Report.EstimatedRevenueLoss)
	}
	if entry.Report.Entities[0].Name != "Target" {
		t.Errorf("expected stored entities to be copied, got %q", entry.Report.Entities[0].Name)
	}
}

func TestTreapStore_RandomizedAgainstSort(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	rng := rand.New(rand.NewSource(42))

	latest := make(map[string]float64)
	for i := 0; i < 2000; i++ {
		target := fmt.Sprintf("target-%03d", rng.Intn(300))
		loss := float64(rng.Intn(50)) * 250
		_ = store.Save(ctx, report(fmt.Sprintf("r%d", i), target, loss))
		latest[target] = loss
	}

	type row struct {
		target string
		loss   float64
	}
	want := make([]row, 0, len(latest))
	for target, loss := range latest {
		want = append(want, row{target, loss})
	}
	sort.Slice(want, func(i, j int) bool {
		if want[i].loss != want[j].loss {
			return want[i].loss > want[j].loss
		}
		return want[i].target < want[j].target
	})

	got, err := store.TopN(ctx, len(want)+10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Report.TargetName != want[i].target || got[i].Report.EstimatedRevenueLoss != want[i].loss {
			t.Fatalf("position %d: expected %+v, got %s/%f", i, want[i],
				got[i].Report.TargetName, got[i].Report.EstimatedRevenueLoss)
		}
		entry, err := store.Get(ctx, got[i].Report.ID)
		if err != nil || entry.Rank != i+1 {
			t.Fatalf("position %d: Get rank %d, err %v", i, entry.Rank, err)
		}
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithMaxReports(50))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = store.Save(ctx, report(fmt.Sprintf("g%d-%d", g, i), fmt.Sprintf("t-%d", i%80), float64(i)))
				_, _ = store.TopN(ctx, 5)
				_ = store.Count(ctx)
			}
		}(g)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 50 {
		t.Errorf("expected board capped at 50, got %d", count)
	}
}

func BenchmarkTreapStore_Save(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(WithMaxReports(10000))
	reports := make([]*model.Report, 1024)
	for i := range reports {
		reports[i] = report(fmt.Sprintf("r%d", i), fmt.Sprintf("t%d", i), float64(i*37%5000))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(ctx, reports[i%len(reports)])
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore()
	for i := 0; i < 1000; i++ {
		_ = store.Save(ctx, report(fmt.Sprintf("r%d", i), fmt.Sprintf("t%d", i), float64(i)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.TopN(ctx, 10)
	}
}

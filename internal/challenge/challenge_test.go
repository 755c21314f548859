package challenge

import (
	"testing"
	"time"

	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/storage"
)

// seq returns the given indexes in order, repeating the last one.
type seq struct {
	picks []int
	i     int
}

func (s *seq) IntN(n int) int {
	v := s.picks[min(s.i, len(s.picks)-1)]
	s.i++
	return v % n
}

func setupGenerator(t *testing.T, picks ...int) (*Generator, *storage.Store) {
	t.Helper()
	p := storage.NewMemoryStore()
	if err := p.Init(); err != nil {
		t.Fatal(err)
	}
	store := storage.New(p, nil)
	return NewGenerator(store, &seq{picks: picks}), store
}

var monday = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

func TestCurrentIsStableWithinADay(t *testing.T) {
	g, store := setupGenerator(t, 2, 4)

	first, err := g.Current(monday)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if first.ID != "challenge-2024-06-03" || first.Date != "2024-06-03" || first.Completed {
		t.Errorf("unexpected challenge %+v", first)
	}
	if first.Title != "Mood Check" || first.XPReward != 30 {
		t.Errorf("expected pool entry 2, got %+v", first)
	}

	second, err := g.Current(monday.Add(10 * time.Hour))
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if second != first {
		t.Errorf("challenge changed within a day: %+v vs %+v", second, first)
	}
	if stored := store.Challenge(); stored == nil || *stored != first {
		t.Errorf("stored challenge = %+v", stored)
	}
}

func TestCurrentRotatesNextDay(t *testing.T) {
	g, _ := setupGenerator(t, 0, 4)

	if _, err := g.Complete(monday); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	next, err := g.Current(monday.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if next.Date != "2024-06-04" || next.ID != "challenge-2024-06-04" || next.Completed {
		t.Errorf("unexpected rotated challenge %+v", next)
	}
	if next.Title != "Kind Gesture" {
		t.Errorf("expected pool entry 4, got %s", next.Title)
	}
}

func TestCompleteGrantsRewardOnce(t *testing.T) {
	g, store := setupGenerator(t, 4)
	if err := store.SaveStats(models.UserStats{XP: 60, TotalMessages: 5}); err != nil {
		t.Fatal(err)
	}

	done, err := g.Complete(monday)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if done == nil || !done.Challenge.Completed {
		t.Fatalf("expected completion, got %+v", done)
	}
	if done.After.XP != 120 || done.After.Level != 2 || done.Before.Level != 1 {
		t.Errorf("unexpected stats before %+v after %+v", done.Before, done.After)
	}
	if done.After.TotalMessages != 6 {
		t.Errorf("TotalMessages = %d, want 6", done.After.TotalMessages)
	}

	again, err := g.Complete(monday.Add(time.Hour))
	if err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if again != nil {
		t.Errorf("second completion should be a no-op, got %+v", again)
	}
	if xp := store.Stats().XP; xp != 120 {
		t.Errorf("XP after second completion = %d, want 120", xp)
	}
	if c := store.Challenge(); c == nil || !c.Completed {
		t.Errorf("challenge should stay completed: %+v", c)
	}
}

func TestPoolRewards(t *testing.T) {
	want := map[string]int{
		"Share Gratitude":      50,
		"Positive Affirmation": 40,
		"Mood Check":           30,
		"Future Vision":        45,
		"Kind Gesture":         60,
	}
	p := Pool()
	if len(p) != len(want) {
		t.Fatalf("pool size = %d", len(p))
	}
	for _, tpl := range p {
		if want[tpl.Title] != tpl.XPReward {
			t.Errorf("%s reward = %d", tpl.Title, tpl.XPReward)
		}
	}
}

// Package challenge rotates the daily challenge and grants its reward.
package challenge

import (
	"math/rand/v2"
	"time"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/stats"
	"github.com/julianstephens/companion/internal/storage"
	"github.com/julianstephens/companion/internal/utils"
)

// Template is a challenge before it is stamped with a day.
type Template struct {
	Title       string
	Description string
	XPReward    int
}

var pool = []Template{
	{"Share Gratitude", "Tell me one thing you're grateful for today", 50},
	{"Positive Affirmation", "Give yourself a genuine compliment", 40},
	{"Mood Check", "Describe how you're feeling in 3 words", 30},
	{"Future Vision", "Share one thing you're looking forward to", 45},
	{"Kind Gesture", "Tell me about something nice you did for someone", 60},
}

// Pool returns the challenge templates.
func Pool() []Template {
	out := make([]Template, len(pool))
	copy(out, pool)
	return out
}

// Rand is the source used to pick from the pool.
type Rand interface {
	IntN(n int) int
}

// Generator hands out one challenge per calendar day.
type Generator struct {
	store *storage.Store
	rand  Rand
}

// NewGenerator uses r to pick challenges, or a randomly seeded source when r is nil.
func NewGenerator(store *storage.Store, r Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{store: store, rand: r}
}

// ID returns the challenge id for a calendar day.
func ID(day string) string {
	return "challenge-" + day
}

func (g *Generator) generate(day string) models.DailyChallenge {
	t := pool[g.rand.IntN(len(pool))]
	return models.DailyChallenge{
		ID:          ID(day),
		Title:       t.Title,
		Description: t.Description,
		XPReward:    t.XPReward,
		Completed:   false,
		Date:        day,
	}
}

// current returns today's challenge inside b, generating it when the stored one is stale.
func (g *Generator) current(b *storage.Batch, now time.Time) (models.DailyChallenge, error) {
	today := utils.DayString(now)
	if c := b.Challenge(); c != nil && c.Date == today {
		return *c, nil
	}
	c := g.generate(today)
	return c, b.SetChallenge(c)
}

// Current returns the challenge for now's calendar day, rotating it lazily.
func (g *Generator) Current(now time.Time) (models.DailyChallenge, error) {
	var c models.DailyChallenge
	err := g.store.Batch(func(b *storage.Batch) error {
		var err error
		c, err = g.current(b, now)
		return err
	})
	return c, err
}

// Completion is the outcome of completing a challenge.
type Completion struct {
	Challenge models.DailyChallenge
	Before    models.UserStats
	After     models.UserStats
	Unlocked  []models.Achievement
}

// Complete marks today's challenge completed and grants its reward, all in one
// write. It returns nil when the challenge was already completed.
func (g *Generator) Complete(now time.Time) (*Completion, error) {
	var done *Completion
	err := g.store.Batch(func(b *storage.Batch) error {
		c, err := g.current(b, now)
		if err != nil {
			return err
		}
		if c.Completed {
			return nil
		}

		c.Completed = true
		if err := b.SetChallenge(c); err != nil {
			return err
		}

		before := b.Stats()
		after := stats.AddExperience(before, c.XPReward)
		after, unlocked := achievements.Apply(after, now)
		if err := b.SetStats(after); err != nil {
			return err
		}

		done = &Completion{Challenge: c, Before: before, After: after, Unlocked: unlocked}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

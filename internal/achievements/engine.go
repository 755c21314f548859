package achievements

import (
	"time"

	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/storage"
)

// Engine evaluates the rule table against the stored stats.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// Check unlocks every satisfied badge in a single stats write and returns the new ones.
func (e *Engine) Check(now time.Time) ([]models.Achievement, error) {
	var unlocked []models.Achievement
	_, _, err := e.store.UpdateStats(func(s models.UserStats) (models.UserStats, error) {
		var next models.UserStats
		next, unlocked = Apply(s, now)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

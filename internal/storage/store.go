package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
)

// ErrMessageNotFound is returned when a message id is not in the history
var ErrMessageNotFound = errors.New("message not found")

// Vault holds the credential override outside the key/value store.
type Vault interface {
	GetAPIKey() (string, error)
	SetAPIKey(key string) error
	DeleteAPIKey() error
}

// Store is the typed view of a Provider. Reads never fail: a missing or
// unreadable value yields its default and a logged warning.
type Store struct {
	provider Provider
	vault    Vault
	hub      *hub

	// lastWrite is the unix-nano time of this process's most recent write.
	lastWrite atomic.Int64
}

// New wraps provider. vault may be nil, in which case the credential lives in the store.
func New(provider Provider, vault Vault) *Store {
	return &Store{
		provider: provider,
		vault:    vault,
		hub:      newHub(),
	}
}

// Open builds the provider for path, loads it (initializing it when missing) and wraps it.
func Open(path string, vault Vault) (*Store, error) {
	p := NewProvider(path)
	if err := p.Load(); err != nil {
		if err := p.Init(); err != nil {
			return nil, err
		}
	}
	return New(p, vault), nil
}

func (s *Store) Provider() Provider {
	return s.provider
}

func (s *Store) Close() error {
	return s.provider.Close()
}

// Subscribe returns a channel of change events and a function that ends the subscription.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.hub.subscribe()
}

func (s *Store) wrote(kinds ...EventKind) {
	s.lastWrite.Store(time.Now().UnixNano())
	s.hub.publish(kinds...)
}

// LastWrite reports when this process last wrote to the store.
func (s *Store) LastWrite() time.Time {
	n := s.lastWrite.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

type getter interface {
	Get(key string) ([]byte, bool, error)
}

// read decodes key into out. It reports false when the value is missing or unreadable.
func read(g getter, key string, out any) bool {
	raw, ok, err := g.Get(key)
	if err != nil {
		logger.Warn("failed to read store value", "key", key, "err", err)
		return false
	}
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warn("discarding unreadable store value", "key", key, "err", err)
		return false
	}
	return true
}

func write(tx Tx, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return tx.Set(key, data)
}

func readMessages(g getter) []models.Message {
	var msgs []models.Message
	if !read(g, constants.KeyMessages, &msgs) || msgs == nil {
		return []models.Message{}
	}
	return msgs
}

func readStats(g getter) models.UserStats {
	stats := models.DefaultUserStats()
	if !read(g, constants.KeyUserStats, &stats) {
		return models.DefaultUserStats()
	}
	return normalizeStats(stats)
}

func normalizeStats(stats models.UserStats) models.UserStats {
	if stats.Achievements == nil {
		stats.Achievements = []models.Achievement{}
	}
	if stats.XP < 0 {
		stats.XP = 0
	}
	stats.Level = stats.XP/constants.XPPerLevel + 1
	return stats
}

func readChallenge(g getter) *models.DailyChallenge {
	var c models.DailyChallenge
	if !read(g, constants.KeyDailyChallenge, &c) || c.ID == "" {
		return nil
	}
	return &c
}

// Batch is a typed transaction. Changes become visible, and events are
// published, only when the enclosing Store.Batch call returns nil.
type Batch struct {
	tx      Tx
	touched map[EventKind]bool
}

func (b *Batch) Messages() []models.Message {
	return readMessages(b.tx)
}

func (b *Batch) SetMessages(msgs []models.Message) error {
	b.touched[EventMessagesUpdated] = true
	return write(b.tx, constants.KeyMessages, msgs)
}

func (b *Batch) Stats() models.UserStats {
	return readStats(b.tx)
}

func (b *Batch) SetStats(stats models.UserStats) error {
	b.touched[EventStatsUpdated] = true
	return write(b.tx, constants.KeyUserStats, normalizeStats(stats))
}

func (b *Batch) Challenge() *models.DailyChallenge {
	return readChallenge(b.tx)
}

func (b *Batch) SetChallenge(c models.DailyChallenge) error {
	b.touched[EventChallengeUpdated] = true
	return write(b.tx, constants.KeyDailyChallenge, c)
}

// Batch runs fn in a single provider transaction.
func (s *Store) Batch(fn func(b *Batch) error) error {
	b := &Batch{touched: make(map[EventKind]bool)}
	err := s.provider.Update(func(tx Tx) error {
		b.tx = tx
		return fn(b)
	})
	if err != nil {
		return err
	}

	var kinds []EventKind
	for _, k := range []EventKind{EventMessagesUpdated, EventChallengeUpdated, EventStatsUpdated} {
		if b.touched[k] {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) > 0 {
		s.wrote(kinds...)
	}
	return nil
}

// Messages returns the chat history, oldest first.
func (s *Store) Messages() []models.Message {
	return readMessages(s.provider)
}

func (s *Store) SaveMessages(msgs []models.Message) error {
	return s.Batch(func(b *Batch) error { return b.SetMessages(msgs) })
}

// AddMessage appends a new message with a fresh id and returns it.
func (s *Store) AddMessage(role models.Role, content string, now time.Time) (models.Message, error) {
	msg := models.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Timestamp: now,
	}
	err := s.Batch(func(b *Batch) error {
		return b.SetMessages(append(b.Messages(), msg))
	})
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ToggleReaction flips emoji on the message with the given id and returns the updated message.
func (s *Store) ToggleReaction(id, emoji string) (models.Message, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return models.Message{}, errors.New("reaction cannot be empty")
	}

	var updated models.Message
	err := s.Batch(func(b *Batch) error {
		msgs := b.Messages()
		for i := range msgs {
			if msgs[i].ID == id {
				msgs[i].ToggleReaction(emoji)
				updated = msgs[i]
				return b.SetMessages(msgs)
			}
		}
		return fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	})
	return updated, err
}

func (s *Store) ClearMessages() error {
	if err := s.provider.Delete(constants.KeyMessages); err != nil {
		return err
	}
	s.wrote(EventMessagesUpdated)
	return nil
}

func (s *Store) Stats() models.UserStats {
	return readStats(s.provider)
}

func (s *Store) SaveStats(stats models.UserStats) error {
	return s.Batch(func(b *Batch) error { return b.SetStats(stats) })
}

// UpdateStats applies fn to the current stats and saves the result in one
// transaction. It returns the stats before and after the update.
func (s *Store) UpdateStats(fn func(models.UserStats) (models.UserStats, error)) (before, after models.UserStats, err error) {
	err = s.Batch(func(b *Batch) error {
		before = b.Stats()
		next, err := fn(before.Clone())
		if err != nil {
			return err
		}
		after = normalizeStats(next)
		return b.SetStats(after)
	})
	if err != nil {
		return models.UserStats{}, models.UserStats{}, err
	}
	return before, after, nil
}

// ResetStats discards all progress, returning the profile to a fresh state.
func (s *Store) ResetStats() error {
	err := s.provider.Update(func(tx Tx) error {
		if err := tx.Delete(constants.KeyUserStats); err != nil {
			return err
		}
		return tx.Delete(constants.KeyDailyChallenge)
	})
	if err != nil {
		return err
	}
	s.wrote(EventStatsUpdated, EventChallengeUpdated)
	return nil
}

// Challenge returns the stored challenge, or nil if none has been generated.
func (s *Store) Challenge() *models.DailyChallenge {
	return readChallenge(s.provider)
}

func (s *Store) SaveChallenge(c models.DailyChallenge) error {
	return s.Batch(func(b *Batch) error { return b.SetChallenge(c) })
}

// APIKey returns the credential override, or "" if none is set. The keyring
// is consulted first; the store copy is used when the keyring has nothing.
func (s *Store) APIKey() string {
	if s.vault != nil {
		key, err := s.vault.GetAPIKey()
		if err == nil && key != "" {
			return key
		}
	}
	var key string
	read(s.provider, constants.KeyAPIKey, &key)
	return key
}

// SaveAPIKey stores the credential override, preferring the OS keyring.
func (s *Store) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key cannot be empty")
	}

	if s.vault != nil {
		err := s.vault.SetAPIKey(key)
		if err == nil {
			// Drop any plaintext copy left from when the keyring was unavailable.
			if err := s.provider.Delete(constants.KeyAPIKey); err != nil {
				logger.Warn("failed to remove stored api key", "err", err)
			}
			s.wrote(EventCredentialUpdated)
			return nil
		}
		logger.Warn("keyring unavailable, storing api key in store", "err", err)
	}

	if err := s.provider.Update(func(tx Tx) error { return write(tx, constants.KeyAPIKey, key) }); err != nil {
		return err
	}
	s.wrote(EventCredentialUpdated)
	return nil
}

// ClearAPIKey removes the credential override from both the keyring and the store.
func (s *Store) ClearAPIKey() error {
	if s.vault != nil {
		if err := s.vault.DeleteAPIKey(); err != nil {
			logger.Debug("keyring delete", "err", err)
		}
	}
	if err := s.provider.Delete(constants.KeyAPIKey); err != nil {
		return err
	}
	s.wrote(EventCredentialUpdated)
	return nil
}

// Prompted reports whether the user has already been asked for a credential.
func (s *Store) Prompted() bool {
	var prompted bool
	read(s.provider, constants.KeyAPIKeyPrompted, &prompted)
	return prompted
}

func (s *Store) SetPrompted() error {
	if err := s.provider.Update(func(tx Tx) error { return write(tx, constants.KeyAPIKeyPrompted, true) }); err != nil {
		return err
	}
	s.wrote(EventCredentialUpdated)
	return nil
}

func (s *Store) ClearPrompted() error {
	if err := s.provider.Delete(constants.KeyAPIKeyPrompted); err != nil {
		return err
	}
	s.wrote(EventCredentialUpdated)
	return nil
}

func (s *Store) Settings() models.Settings {
	var settings models.Settings
	if !read(s.provider, constants.KeySettings, &settings) {
		return models.DefaultSettings()
	}
	return settings.WithDefaults()
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.provider.Update(func(tx Tx) error { return write(tx, constants.KeySettings, settings) }); err != nil {
		return err
	}
	s.wrote(EventSettingsUpdated)
	return nil
}

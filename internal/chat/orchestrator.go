// Package chat sequences a user turn: persist the message, update streak and
// XP, unlock achievements, ask the collaborator for a reply and persist it.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/challenge"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/notifier"
	"github.com/julianstephens/companion/internal/stats"
	"github.com/julianstephens/companion/internal/storage"
)

var (
	// ErrEmptyInput is returned for blank submissions.
	ErrEmptyInput = errors.New("message cannot be empty")
	// ErrBusy is returned when a turn is already in flight. The submission is dropped.
	ErrBusy = errors.New("a reply is already in progress")
)

// State is the phase of the current turn.
type State int32

const (
	Idle State = iota
	Sending
	AwaitingReply
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case AwaitingReply:
		return "awaiting-reply"
	default:
		return "unknown"
	}
}

// Notifier receives celebratory notifications outside the app.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// Options tune an Orchestrator. Zero values select the defaults.
type Options struct {
	Timeout  time.Duration
	Clock    func() time.Time
	Local    *ai.LocalResponder
	Notifier Notifier
}

// Orchestrator runs at most one turn at a time.
type Orchestrator struct {
	store *storage.Store

	mu           sync.RWMutex
	collaborator ai.Collaborator

	local      *ai.LocalResponder
	challenges *challenge.Generator
	clock      func() time.Time
	timeout    time.Duration
	notifier   Notifier

	state atomic.Int32
}

func New(store *storage.Store, collaborator ai.Collaborator, challenges *challenge.Generator, opts Options) *Orchestrator {
	o := &Orchestrator{
		store:        store,
		collaborator: collaborator,
		local:        opts.Local,
		challenges:   challenges,
		clock:        opts.Clock,
		timeout:      opts.Timeout,
		notifier:     opts.Notifier,
	}
	if o.local == nil {
		o.local = ai.NewLocalResponder(nil)
	}
	if o.collaborator == nil {
		o.collaborator = o.local
	}
	if o.challenges == nil {
		o.challenges = challenge.NewGenerator(store, nil)
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	if o.timeout <= 0 {
		o.timeout = constants.DefaultReplyTimeout
	}
	return o
}

// SetCollaborator swaps the reply source, e.g. after the credential changes.
// A turn already in flight keeps the collaborator it started with.
func (o *Orchestrator) SetCollaborator(c ai.Collaborator) {
	if c == nil {
		c = o.local
	}
	o.mu.Lock()
	o.collaborator = c
	o.mu.Unlock()
}

// Collaborator returns the current reply source.
func (o *Orchestrator) Collaborator() ai.Collaborator {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.collaborator
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) setState(s State) {
	o.state.Store(int32(s))
}

// TurnResult is everything a view needs to render after a turn.
type TurnResult struct {
	User          models.Message        `json:"user"`
	Assistant     models.Message        `json:"assistant"`
	// Apology is the fixed message saved ahead of the local reply when the
	// collaborator failed.
	Apology       *models.Message       `json:"apology,omitempty"`
	QuickReplies  []models.QuickReply   `json:"quickReplies"`
	Notifications []models.Notification `json:"notifications"`
	Unlocked      []models.Achievement  `json:"unlocked"`
	Before        models.UserStats      `json:"before"`
	After         models.UserStats      `json:"after"`
	Source        string                `json:"source"`
	// Failure is the category of a failed reply, KindNone on success.
	Failure      ai.Kind `json:"-"`
	PromptForKey bool    `json:"promptForKey"`
}

// Submit runs one turn for input. It returns ErrEmptyInput for blank input and
// ErrBusy while another turn is in flight. A collaborator failure is not an
// error: the apology is persisted and reported through TurnResult.Failure.
// Cancelling ctx aborts the reply and returns ctx.Err().
func (o *Orchestrator) Submit(ctx context.Context, input string) (TurnResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return TurnResult{}, ErrEmptyInput
	}
	if !o.state.CompareAndSwap(int32(Idle), int32(Sending)) {
		return TurnResult{}, ErrBusy
	}
	defer o.setState(Idle)

	var res TurnResult
	now := o.clock()

	user, err := o.store.AddMessage(models.RoleUser, input, now)
	if err != nil {
		return res, err
	}
	res.User = user

	res.Before, res.After, err = o.store.UpdateStats(func(s models.UserStats) (models.UserStats, error) {
		s = stats.RecordActivityForToday(s, now)
		s = stats.AddExperience(s, constants.XPPerMessage)
		s, res.Unlocked = achievements.Apply(s, now)
		return s, nil
	})
	if err != nil {
		return res, err
	}
	res.Notifications = progressNotifications(res.Before, res.After, res.Unlocked)

	o.setState(AwaitingReply)
	collaborator := o.Collaborator()
	if ai.IsSlashCommand(input) {
		collaborator = o.local
	}

	replyCtx, cancel := context.WithTimeout(ctx, o.timeout)
	resp, replyErr := collaborator.Reply(replyCtx, ai.TurnsFrom(o.store.Messages()))
	cancel()

	if replyErr != nil && ctx.Err() != nil {
		return res, ctx.Err()
	}

	if replyErr != nil {
		res.Failure = ai.Classify(replyErr)
		logger.Warn("assistant reply failed", "collaborator", collaborator.Name(), "kind", res.Failure, "err", replyErr)
		if res.Failure == ai.KindAuth {
			res.PromptForKey = o.promptOnce()
			if res.PromptForKey {
				res.Notifications = append(res.Notifications, apiKeyNotification())
			}
		}

		apology, err := o.store.AddMessage(models.RoleAssistant, constants.ApologyMessage, o.clock())
		if err != nil {
			return res, err
		}
		res.Apology = &apology

		// The local responder keeps the conversation going offline.
		resp, replyErr = o.local.Reply(ctx, ai.TurnsFrom(o.store.Messages()))
		if replyErr != nil {
			res.Assistant = apology
			res.Source = collaborator.Name()
			res.QuickReplies = ai.DefaultQuickReplies()
			o.dispatch(ctx, res.Notifications)
			return res, nil
		}
	}

	texts := resp.QuickReplies
	if len(texts) == 0 {
		texts = ai.FallbackQuickReplies(resp.Content)
	}
	res.QuickReplies = ai.ToQuickReplies(texts)
	res.Source = resp.Source

	res.Assistant, err = o.store.AddMessage(models.RoleAssistant, resp.Content, o.clock())
	if err != nil {
		return res, err
	}

	o.dispatch(ctx, res.Notifications)
	return res, nil
}

// promptOnce reports whether the credential prompt should be shown, marking it shown.
func (o *Orchestrator) promptOnce() bool {
	if o.store.Prompted() {
		return false
	}
	if err := o.store.SetPrompted(); err != nil {
		logger.Warn("failed to persist prompt flag", "err", err)
	}
	return true
}

func progressNotifications(before, after models.UserStats, unlocked []models.Achievement) []models.Notification {
	var out []models.Notification
	if stats.StreakChanged(before, after) && (after.CurrentStreak > before.CurrentStreak || after.CurrentStreak == 1) {
		if n, ok := streakNotification(after.CurrentStreak); ok {
			out = append(out, n)
		}
	}
	if stats.LeveledUp(before, after) {
		out = append(out, levelUpNotification(after.Level, after.XP-before.XP))
	} else if gained := after.XP - before.XP; gained > 0 {
		out = append(out, xpNotification(gained))
	}
	for _, a := range unlocked {
		out = append(out, achievementNotification(a))
	}
	return out
}

// dispatch forwards celebrations to the notifier. Failures are only logged.
func (o *Orchestrator) dispatch(ctx context.Context, notes []models.Notification) {
	if o.notifier == nil {
		return
	}
	for _, n := range notes {
		if !n.Celebratory() {
			continue
		}
		err := o.notifier.Notify(ctx, n)
		switch {
		case err == nil:
		case errors.Is(err, notifier.ErrTrayNotRunning):
			logger.Debug("tray not running, skipping notification", "kind", n.Kind)
		default:
			logger.Warn("failed to send notification", "kind", n.Kind, "err", err)
		}
	}
}

// Greeting is the opening state of a conversation.
type Greeting struct {
	Messages      []models.Message      `json:"messages"`
	QuickReplies  []models.QuickReply   `json:"quickReplies"`
	Notifications []models.Notification `json:"notifications"`
}

// Bootstrap loads the history, seeding the welcome message when it is empty.
func (o *Orchestrator) Bootstrap() (Greeting, error) {
	g := Greeting{QuickReplies: ai.DefaultQuickReplies()}
	msgs := o.store.Messages()
	if len(msgs) == 0 {
		welcome, err := o.store.AddMessage(models.RoleAssistant, constants.WelcomeMessage, o.clock())
		if err != nil {
			return g, err
		}
		msgs = []models.Message{welcome}
		g.Notifications = append(g.Notifications, welcomeNotification())
	}
	g.Messages = msgs
	return g, nil
}

// React toggles emoji on the message with the given id.
func (o *Orchestrator) React(id, emoji string) (models.Message, error) {
	return o.store.ToggleReaction(id, emoji)
}

// ChallengeResult reports a challenge completion. Completed is false when
// today's challenge had already been completed.
type ChallengeResult struct {
	Challenge     models.DailyChallenge `json:"challenge"`
	Completed     bool                  `json:"completed"`
	Before        models.UserStats      `json:"before"`
	After         models.UserStats      `json:"after"`
	Notifications []models.Notification `json:"notifications"`
}

// Challenge returns today's challenge.
func (o *Orchestrator) Challenge() (models.DailyChallenge, error) {
	return o.challenges.Current(o.clock())
}

// CompleteChallenge completes today's challenge and grants its reward.
func (o *Orchestrator) CompleteChallenge(ctx context.Context) (ChallengeResult, error) {
	now := o.clock()
	done, err := o.challenges.Complete(now)
	if err != nil {
		return ChallengeResult{}, err
	}
	if done == nil {
		c, err := o.challenges.Current(now)
		if err != nil {
			return ChallengeResult{}, err
		}
		s := o.store.Stats()
		return ChallengeResult{Challenge: c, Before: s, After: s}, nil
	}

	res := ChallengeResult{
		Challenge:     done.Challenge,
		Completed:     true,
		Before:        done.Before,
		After:         done.After,
		Notifications: []models.Notification{challengeNotification(done.Challenge.XPReward)},
	}
	if stats.LeveledUp(done.Before, done.After) {
		res.Notifications = append(res.Notifications, levelUpNotification(done.After.Level, done.Challenge.XPReward))
	}
	for _, a := range done.Unlocked {
		res.Notifications = append(res.Notifications, achievementNotification(a))
	}
	o.dispatch(ctx, res.Notifications)
	return res, nil
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/models"
)

// fixed always picks the same index.
type fixed int

func (f fixed) IntN(n int) int { return int(f) % n }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"typed auth", &Error{Kind: KindAuth}, KindAuth},
		{"wrapped typed", fmt.Errorf("reply: %w", &Error{Kind: KindMalformed}), KindMalformed},
		{"deadline", context.DeadlineExceeded, KindTransient},
		{"api key text", errors.New("Invalid API key provided"), KindAuth},
		{"plain", errors.New("connection reset by peer"), KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorIsSentinels(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", statusError(401, "nope"))
	assert.ErrorIs(t, err, ErrAuth)
	assert.NotErrorIs(t, err, ErrTransient)
	assert.True(t, IsAuth(err))
	assert.Contains(t, err.Error(), "status 401")
}

func TestLocalResponderCategories(t *testing.T) {
	l := NewLocalResponder(fixed(0))
	tests := []struct {
		input string
		want  string
	}{
		{"Hello there", cannedReplies["greetings"][0]},
		{"I feel AMAZING", cannedReplies["positivity"][0]},
		{"so tired today", cannedReplies["encouragement"][0]},
		{"is this real?", cannedReplies["reflection"][0]},
		{"I wonder", cannedReplies["reflection"][0]},
		{"my streak", cannedReplies["streaks"][0]},
		{"give me a task", cannedReplies["challenges"][0]},
		{"pizza", cannedReplies["default"][0]},
		{"this", cannedReplies["default"][0]},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Respond(tt.input))
		})
	}
}

func TestLocalResponderIsDeterministic(t *testing.T) {
	a := NewLocalResponder(fixed(3))
	b := NewLocalResponder(fixed(3))
	for _, in := range []string{"hi", "/fortune", "what now", "random"} {
		assert.Equal(t, a.Respond(in), b.Respond(in))
	}
}

func TestSlashCommands(t *testing.T) {
	l := NewLocalResponder(fixed(1))

	assert.True(t, strings.HasPrefix(l.Respond("/mood"), "🌈"))
	assert.True(t, strings.HasPrefix(l.Respond("/JOURNAL please"), "📝"))
	assert.Equal(t, fortunes[1], l.Respond("/fortune"))
	assert.Equal(t, unknownCommandReply, l.Respond("/nope"))

	help := l.Respond("/help")
	for _, c := range SlashCommands() {
		assert.Contains(t, help, c.Name)
	}
	assert.NotContains(t, help, "/help -")
	assert.Len(t, SlashCommands(), 9)
	assert.True(t, IsSlashCommand("  /zen"))
	assert.False(t, IsSlashCommand("zen /"))
}

func TestLocalReplyUsesLastUserTurn(t *testing.T) {
	l := NewLocalResponder(fixed(0))
	resp, err := l.Reply(context.Background(), []Turn{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi!"},
		{Role: models.RoleUser, Content: "/zen"},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "zen mode")
	assert.Equal(t, constants.ProviderLocal, resp.Source)
	assert.Len(t, resp.QuickReplies, 4)
}

func TestFallbackQuickReplies(t *testing.T) {
	assert.Equal(t, "Yes, definitely", FallbackQuickReplies("How was your day?")[0])
	assert.Equal(t, "Thank you!", FallbackQuickReplies("Congratulations on the streak")[0])
	assert.Equal(t, "Sounds good!", FallbackQuickReplies("You could try a walk")[0])
	assert.Equal(t, "That's helpful", FallbackQuickReplies("Nice.")[0])
}

func TestReplyIcon(t *testing.T) {
	tests := map[string]string{
		"Thank you!":      "🙏",
		"Tell me more":    "💭",
		"Yes, definitely": "✅",
		"Not really":      "❌",
		"How do I start?": "🤔",
		"I'll try that":   "🚀",
		"I agree":         "👍",
		"What else?":      "💬",
	}
	for text, want := range tests {
		assert.Equal(t, want, ReplyIcon(text), text)
	}

	qr := ToQuickReplies([]string{"Tell me more", "I agree"})
	require.Len(t, qr, 2)
	assert.NotEqual(t, qr[0].ID, qr[1].ID)
	assert.Equal(t, "💭", qr[0].Icon)
}

func TestModels(t *testing.T) {
	ms := Models()
	require.Len(t, ms, 8)
	m, ok := FindModel(constants.DefaultModel)
	require.True(t, ok)
	assert.Equal(t, "Anthropic", m.Provider)
	_, ok = FindModel("nope")
	assert.False(t, ok)
	assert.Contains(t, SystemPrompt(constants.DefaultModel), "Claude 3 Haiku")
}

func TestNewSelectsCollaborator(t *testing.T) {
	ctx := context.Background()

	f, err := New(ctx, Config{Provider: constants.ProviderOpenRouter}, nil)
	require.NoError(t, err)
	assert.Nil(t, f.Primary, "no credential means local replies")
	assert.Equal(t, constants.ProviderLocal, f.Name())

	f, err = New(ctx, Config{Provider: constants.ProviderLocal, Creds: CredentialSource{Default: "sk"}}, nil)
	require.NoError(t, err)
	assert.Nil(t, f.Primary)

	override := "sk-user"
	f, err = New(ctx, Config{
		Provider: constants.ProviderOpenRouter,
		Creds:    CredentialSource{Override: func() string { return override }, Default: "sk-default"},
	}, nil)
	require.NoError(t, err)
	require.IsType(t, &OpenRouterClient{}, f.Primary)
	assert.Equal(t, "sk-user", f.Primary.(*OpenRouterClient).cfg.APIKey)

	assert.Equal(t, "sk-default", CredentialSource{Override: func() string { return "" }, Default: "sk-default"}.Key())
}

func TestToContents(t *testing.T) {
	contents := toContents([]Turn{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
	})
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "hello", contents[1].Parts[0].Text)
}

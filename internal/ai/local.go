package ai

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"github.com/julianstephens/companion/internal/constants"
)

var (
	greetingPattern      = regexp.MustCompile(`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`)
	positivityPattern    = regexp.MustCompile(`\b(great|awesome|amazing|wonderful|fantastic|happy|excited|love|good)\b`)
	encouragementPattern = regexp.MustCompile(`\b(tired|sad|difficult|hard|struggle|worried|anxious|stressed)\b`)
	reflectionPattern    = regexp.MustCompile(`\b(think|feel|wonder|question|why|how|what)\b`)
	streakPattern        = regexp.MustCompile(`\b(streak|daily|consistent|habit)\b`)
	challengePattern     = regexp.MustCompile(`\b(challenge|task|activity|do)\b`)
)

var cannedReplies = map[string][]string{
	"greetings": {
		"Hey there! 👋 Ready to start your day with some positive vibes?",
		"Hello! 🌟 I'm excited to chat with you today!",
		"Hi! ✨ What's on your mind today?",
		"Good to see you! 🎉 How can I brighten your day?",
		"Welcome back! 🌈 Let's make today amazing!",
	},
	"positivity": {
		"That's such a wonderful perspective! 🌟 Keep that positive energy flowing!",
		"I love your optimism! ✨ You're radiating good vibes today!",
		"What an inspiring way to look at things! 🌈 You're amazing!",
		"Your positivity is contagious! 🎉 Thank you for sharing that!",
		"That's the spirit! 💫 Keep shining bright!",
	},
	"encouragement": {
		"You've got this! 💪 Every step forward is progress!",
		"Believe in yourself - you're capable of amazing things! ⭐",
		"Progress is progress, no matter how small! 🌱 Keep going!",
		"You're stronger than you think! 🔥 Don't give up!",
		"Every challenge is an opportunity to grow! 🚀 You're doing great!",
	},
	"reflection": {
		"That's a really thoughtful question. What do you think about it? 🤔",
		"Interesting perspective! How does that make you feel? 💭",
		"That's worth pondering. What insights come to mind? ✨",
		"Good reflection! What would you like to explore about that? 🌟",
		"I appreciate you sharing that. What's your take on it? 💫",
	},
	"streaks": {
		"🔥 Amazing streak! You're building an incredible habit!",
		"🎯 Consistency is key, and you're nailing it!",
		"⚡ Your dedication is paying off! Keep it up!",
		"🌟 Every day you show up makes a difference!",
		"🎉 You're on fire with this streak! So proud of you!",
	},
	"challenges": {
		"Here's a fun challenge: Share one thing you're grateful for today! 🙏",
		"Today's challenge: Give yourself a compliment! You deserve it! 💖",
		"Challenge time: Name one small win from this week! 🏆",
		"Here's your challenge: Describe your perfect day in 3 words! ☀️",
		"Challenge: What's one thing you're looking forward to? 🌈",
	},
	"default": {
		"That's interesting! Tell me more about what you're thinking 🤔",
		"I hear you! How can I help make your day better? ✨",
		"Thanks for sharing that with me! What would you like to explore? 💫",
		"That sounds meaningful. What's your perspective on it? 🌟",
		"I'm here to listen and chat! What's on your heart today? 💖",
	},
}

var fortunes = []string{
	"🔮 Today's fortune: Your positive energy will create ripple effects of joy around you!",
	"✨ Fortune says: A small act of kindness today will lead to unexpected happiness!",
	"🌟 Your fortune: Trust your intuition - it's guiding you toward something wonderful!",
	"🎯 Fortune cookie wisdom: The best conversations happen when you're genuinely curious!",
	"💫 Today's fortune: Your smile is someone else's sunshine today!",
}

// SlashCommand is a command answered locally without a network call.
type SlashCommand struct {
	Name        string
	Description string
	reply       string
}

var slashCommands = []SlashCommand{
	{"/mood", "Check in on your feelings", "🌈 Let's check in on your mood! On a scale of 1-10, how are you feeling today? Share what's influencing your mood!"},
	{"/journal", "Guided reflection", "📝 Time for some reflection! What's one highlight from your day so far? What's one thing you're grateful for?"},
	{"/dance", "Let's party! 💃", "💃🕺 *AI starts dancing* 🎵 Let's boogie! Here's a fun fact: Dancing for just 10 minutes can boost your mood! Want to join me?"},
	{"/fortune", "Daily wisdom", ""},
	{"/magic", "Cast a spell! ✨", "✨🎩 *waves virtual wand* ✨ Abracadabra! You now have +50 bonus XP and unlimited motivation for today! 🌟 (The real magic was the confidence you had all along!)"},
	{"/rocket", "Blast off mode! 🚀", "🚀 *AI transforms into rocket mode* 🚀 BLAST OFF! You're ready to tackle anything today! Remember: every expert was once a beginner! 💫⭐🌟"},
	{"/party", "Celebration time! 🎉", "🎉🎊 PARTY TIME! 🎊🎉 *throws virtual confetti everywhere* You deserve to celebrate! What's one thing you're proud of today? Let's party! 🥳🎈🎂"},
	{"/zen", "Find your peace 🧘‍♀️", "🧘‍♀️ *enters zen mode* 🧘‍♂️ Take a deep breath with me... inhale peace, exhale stress. You are exactly where you need to be right now. 🌸☮️🕯️"},
	{"/superhero", "Unlock your powers! 🦸‍♀️", "🦸‍♀️ *AI dons cape* 🦸‍♂️ Your superpower today is PERSISTENCE! Every small step you take is saving the day. What challenge will you conquer next, hero? 💥⚡🔥"},
	{"/help", "", ""},
}

const unknownCommandReply = "🤔 Hmm, I don't recognize that command! Try /help to see what I can do, or just chat with me normally! ✨"

// SlashCommands lists the locally answered commands for help output.
func SlashCommands() []SlashCommand {
	out := make([]SlashCommand, 0, len(slashCommands)-1)
	for _, c := range slashCommands {
		if c.Name != "/help" {
			out = append(out, c)
		}
	}
	return out
}

// IsSlashCommand reports whether input should be answered locally.
func IsSlashCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

func helpText() string {
	var b strings.Builder
	b.WriteString("🎮 Available commands:\n")
	for _, c := range SlashCommands() {
		b.WriteString(c.Name + " - " + c.Description + "\n")
	}
	b.WriteString("\nJust type normally and I'll respond naturally! ✨")
	return b.String()
}

// Rand is the random source behind canned reply selection.
type Rand interface {
	IntN(n int) int
}

// LocalResponder answers from canned replies. Given the same random source
// it always produces the same sequence of replies.
type LocalResponder struct {
	mu   sync.Mutex
	rand Rand
}

// NewLocalResponder uses r, or a randomly seeded source when r is nil.
func NewLocalResponder(r Rand) *LocalResponder {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &LocalResponder{rand: r}
}

func (l *LocalResponder) Name() string {
	return constants.ProviderLocal
}

func (l *LocalResponder) Reply(ctx context.Context, turns []Turn) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, &Error{Kind: KindTransient, Err: err}
	}
	content := l.Respond(lastUserContent(turns))
	return Response{
		Content:      content,
		QuickReplies: FallbackQuickReplies(content),
		Source:       l.Name(),
	}, nil
}

func (l *LocalResponder) pick(options []string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return options[l.rand.IntN(len(options))]
}

// Respond returns the canned reply for message.
func (l *LocalResponder) Respond(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))

	if strings.HasPrefix(msg, "/") {
		return l.command(msg)
	}

	switch {
	case greetingPattern.MatchString(msg):
		return l.pick(cannedReplies["greetings"])
	case positivityPattern.MatchString(msg):
		return l.pick(cannedReplies["positivity"])
	case encouragementPattern.MatchString(msg):
		return l.pick(cannedReplies["encouragement"])
	case strings.Contains(msg, "?") || reflectionPattern.MatchString(msg):
		return l.pick(cannedReplies["reflection"])
	case streakPattern.MatchString(msg):
		return l.pick(cannedReplies["streaks"])
	case challengePattern.MatchString(msg):
		return l.pick(cannedReplies["challenges"])
	default:
		return l.pick(cannedReplies["default"])
	}
}

func (l *LocalResponder) command(msg string) string {
	name := strings.Fields(msg)[0]
	switch name {
	case "/fortune":
		return l.pick(fortunes)
	case "/help":
		return helpText()
	}
	for _, c := range slashCommands {
		if c.Name == name {
			return c.reply
		}
	}
	return unknownCommandReply
}

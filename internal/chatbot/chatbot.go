package chatbot

import (
	"strings"
	"time"
)

// Response is one chatbot reply
type Response struct {
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions"`
}

// Context carries user history into the conversation for personalization
type Context struct {
	RecentMoodLevel *string
	RecentRiskScore *float64
	TotalEntries    int
	AverageMood     *float64
}

// Bot produces supportive canned responses. Crisis keywords always take
// precedence over everything else.
type Bot struct {
	now func() time.Time
}

// NewBot creates a chatbot
func NewBot() *Bot {
	return &Bot{now: time.Now}
}

var (
	crisisKeywords = []string{"suicide", "kill myself", "end it all", "die", "hurt myself"}
	moodKeywords   = []string{"sad", "depressed", "down", "anxious", "worried", "stressed"}
	sleepKeywords  = []string{"sleep", "insomnia", "tired", "exhausted"}
)

// Reply answers a user message. ctx may be nil when no history is available.
func (b *Bot) Reply(message string, ctx *Context) Response {
	lower := strings.ToLower(message)

	if containsAny(lower, crisisKeywords) {
		return Response{
			Message: "I'm very concerned about what you're sharing. Your safety is the top priority. " +
				"Please reach out for immediate help:\n\n" +
				"National Suicide Prevention Lifeline: 988\n" +
				"Crisis Text Line: Text 'HELLO' to 741741\n" +
				"Go to your nearest emergency room\n\n" +
				"You don't have to face this alone. Help is available 24/7.",
			Timestamp:   b.now().UTC(),
			Suggestions: []string{"Find local crisis resources", "Talk to someone now"},
		}
	}

	if containsAny(lower, moodKeywords) {
		return Response{
			Message: "I hear that you're going through a difficult time. It's important that you acknowledged these feelings. " +
				"Here are some things that might help:\n\n" +
				"- Take deep breaths - try the 4-7-8 technique\n" +
				"- Go for a short walk or do gentle movement\n" +
				"- Reach out to someone you trust\n" +
				"- Practice self-compassion\n\n" +
				"Remember, it's okay to not be okay. Consider talking to a mental health professional if these feelings persist.",
			Timestamp:   b.now().UTC(),
			Suggestions: b.suggestions(lower, ctx),
		}
	}

	if containsAny(lower, sleepKeywords) {
		return Response{
			Message: "Sleep is crucial for mental health. Here are some tips for better sleep:\n\n" +
				"- Maintain a consistent sleep schedule\n" +
				"- Create a relaxing bedtime routine\n" +
				"- Limit screen time before bed\n" +
				"- Keep your bedroom cool and dark\n" +
				"- Avoid caffeine in the afternoon\n\n" +
				"If sleep problems persist, consider consulting a healthcare provider.",
			Timestamp:   b.now().UTC(),
			Suggestions: []string{"Sleep hygiene tips", "Track my sleep"},
		}
	}

	return Response{
		Message: "Thank you for sharing. I'm here to support you. While I can provide general guidance, " +
			"please remember that I'm not a substitute for professional mental health care. " +
			"How are you feeling today? Is there something specific you'd like to talk about?",
		Timestamp:   b.now().UTC(),
		Suggestions: []string{"Check my mood", "View my progress", "Find resources"},
	}
}

// suggestions builds contextual follow-ups, topped up with general ones.
func (b *Bot) suggestions(lowerMessage string, ctx *Context) []string {
	var out []string

	if strings.Contains(lowerMessage, "mood") || strings.Contains(lowerMessage, "feeling") {
		out = append(out, "Log today's mood", "View mood trends")
	}
	if strings.Contains(lowerMessage, "sleep") || strings.Contains(lowerMessage, "tired") {
		out = append(out, "Track sleep quality")
	}
	if strings.Contains(lowerMessage, "stress") || strings.Contains(lowerMessage, "anxious") {
		out = append(out, "Try breathing exercise", "Stress management tips")
	}
	if strings.Contains(lowerMessage, "help") || strings.Contains(lowerMessage, "support") {
		out = append(out, "Find a therapist", "Crisis resources")
	}
	if ctx != nil && ctx.RecentRiskScore != nil && *ctx.RecentRiskScore >= 0.7 {
		out = append(out, "Talk to a professional")
	}

	if len(out) < 3 {
		out = append(out, "View my progress", "Get daily tips", "Learn about mental health")
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

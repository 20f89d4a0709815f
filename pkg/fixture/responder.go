package fixture

import (
	"fmt"
	"strings"
)

// Responder produces the assistant reply for a user message.
type Responder interface {
	Reply(message string) string
}

// CannedResponder answers from a fixed keyword table, so streamed replies are reproducible.
type CannedResponder struct{}

type cannedReply struct {
	keywords []string
	reply    string
}

// checked in order, first match wins
var cannedReplies = []cannedReply{
	{
		keywords: []string{"how are you"},
		reply:    "I am doing well, thanks for asking. How can I help you today?",
	},
	{
		keywords: []string{"artificial intelligence", " ai ", "what is ai"},
		reply: "Artificial intelligence is the field of building systems that perform tasks " +
			"which normally require human intelligence, such as understanding language, " +
			"recognizing images and making decisions.",
	},
	{
		keywords: []string{"machine learning"},
		reply: "Machine learning is a branch of artificial intelligence where models learn " +
			"patterns from data instead of following hand written rules. Common approaches " +
			"include supervised, unsupervised and reinforcement learning.",
	},
	{
		keywords: []string{"hello", " hi ", " hey"},
		reply:    "Hello! I am the demo assistant. Ask me about artificial intelligence or machine learning.",
	},
}

// Reply returns the canned answer for message.
func (CannedResponder) Reply(message string) string {
	norm := " " + strings.ToLower(strings.TrimSpace(message)) + " "
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(norm, kw) {
				return c.reply
			}
		}
	}
	return fmt.Sprintf("You said %q. This is a demo assistant, so replies are canned, "+
		"but they still stream word by word like a real model.", strings.TrimSpace(message))
}

// Tokens splits reply into streamable chunks. Each chunk but the last keeps its trailing space,
// so concatenating the chunks restores the reply.
func Tokens(reply string) []string {
	words := strings.Fields(reply)
	if len(words) == 0 {
		return nil
	}
	res := make([]string, len(words))
	for i, w := range words {
		if i < len(words)-1 {
			w += " "
		}
		res[i] = w
	}
	return res
}

package assessment

import (
	"strings"

	transcript "github.com/rehearsehq/rehearse/internal/model/transcript"
)

// Summary holds simple conversational metrics for one finished rehearsal.
// It is heuristic by design; the numbers feed the post-session debrief, not
// any scoring.
type Summary struct {
	TotalEntries          int     `json:"totalEntries"`
	UserWords             int     `json:"userWords"`
	AgentWords            int     `json:"agentWords"`
	UserTalkRatio         float64 `json:"userTalkRatio"`
	QuestionsAsked        int     `json:"questionsAsked"`
	FillerWords           int     `json:"fillerWords"`
	LongestAgentMonologue int     `json:"longestAgentMonologue"`
}

var fillerTerms = []string{
	"um", "uh", "like", "you know", "sort of", "kind of", "basically",
	"actually", "literally", "i mean", "right?",
}

// Summarize computes conversational metrics from a committed transcript.
func Summarize(entries []transcript.Entry) Summary {
	summary := Summary{TotalEntries: len(entries)}

	agentRun := 0
	for _, entry := range entries {
		words := countWords(entry.Text)
		switch entry.Role {
		case transcript.RoleUser:
			summary.UserWords += words
			summary.QuestionsAsked += strings.Count(entry.Text, "?")
			summary.FillerWords += countFillers(entry.Text)
			agentRun = 0
		case transcript.RoleAgent:
			summary.AgentWords += words
			agentRun += words
			if agentRun > summary.LongestAgentMonologue {
				summary.LongestAgentMonologue = agentRun
			}
		}
	}

	total := summary.UserWords + summary.AgentWords
	if total > 0 {
		summary.UserTalkRatio = float64(summary.UserWords) / float64(total)
	}
	return summary
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// countFillers matches filler terms on word boundaries by padding both the
// text and the term with spaces.
func countFillers(text string) int {
	padded := " " + strings.ToLower(strings.Join(strings.Fields(text), " ")) + " "
	padded = strings.NewReplacer(",", " ", ".", " ", "!", " ").Replace(padded)

	count := 0
	for _, term := range fillerTerms {
		count += strings.Count(padded, " "+term+" ")
	}
	return count
}

// internal/service/prompt.go
package service

import "strings"

const (
	goalPromptTemplate  = "You are making an outreach call. The goal of this campaign: {goal}. Open with a short intro, then work toward the goal."
	offerPromptTemplate = "You are making an outreach call about the following offer: {offer}. Ask if they are open to a quick chat."
)

func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// DefaultPrompt picks the prompt for a synthesized sequence step: existing
// training content first, then the campaign goal interpolated into a
// template, then a generic fallback naming the offer.
func DefaultPrompt(training, goal, offer string) string {
	if strings.TrimSpace(training) != "" {
		return training
	}
	if strings.TrimSpace(goal) != "" {
		return RenderTemplate(goalPromptTemplate, map[string]string{"goal": goal})
	}
	return RenderTemplate(offerPromptTemplate, map[string]string{"offer": offer})
}

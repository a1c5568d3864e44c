package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

var apiKey = os.Getenv("API_KEY")

// LLMSummarize asks the model for a short Markdown summary of a note.
func LLMSummarize(ctx context.Context, title, content string) (string, error) {
	if apiKey == "" {
		return "", errors.New("missing api key")
	}

	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel("gemini-2.5-flash"))
	if err != nil {
		return "", fmt.Errorf("failed to create Google AI LLM: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are a note summarizer. Generate a concise summary in Markdown format. "+
			"Use headings and bullets when helpful. Return only Markdown.\n\nTitle: %s\n\n%s",
		title,
		content,
	)

	summary, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary from LLM: %w", err)
	}

	return summary, nil
}

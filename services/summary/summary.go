// Package summary generates the end-of-call summary text.
package summary

import (
	"context"
	"fmt"
	"strings"

	"bookline/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces a short professional summary of a call transcript.
type Generator interface {
	Generate(ctx context.Context, transcript, contactNumber string, appointments []models.Appointment) (string, error)
}

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	model *genai.GenerativeModel
}

// NewGeminiGenerator creates a Gemini-backed summary generator.
func NewGeminiGenerator(apiKey string) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiGenerator{model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, transcript, contactNumber string, appointments []models.Appointment) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(transcript, appointments)))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "**", ""))
	if text == "" {
		return "", fmt.Errorf("gemini returned empty summary")
	}
	return text, nil
}

func buildPrompt(transcript string, appointments []models.Appointment) string {
	var apptContext string
	var scheduled []string
	for _, apt := range appointments {
		if apt.Status != models.AppointmentScheduled {
			continue
		}
		scheduled = append(scheduled, fmt.Sprintf("%s at %s", apt.Date, apt.Time))
		if len(scheduled) == 5 {
			break
		}
	}
	if len(scheduled) > 0 {
		apptContext = fmt.Sprintf("\n\nUser's current scheduled appointments: %s.", strings.Join(scheduled, ", "))
	}

	return fmt.Sprintf(`You are a professional call summary generator. Analyze the following conversation transcript and create a concise, professional summary.

CONVERSATION TRANSCRIPT:
%s%s

INSTRUCTIONS:
- Create a 2-4 sentence summary of the conversation
- Include: user identification, main actions taken (booking/modifying/cancelling appointments), key details
- Mention specific appointment dates and times if any were booked/modified/cancelled
- Use professional, clear language
- Focus on what happened in THIS conversation, not general user information

SUMMARY:`, transcript, apptContext)
}

// Fallback returns the static summary used when generation fails.
func Fallback(contactNumber string) string {
	if contactNumber == "" {
		contactNumber = "Unknown"
	}
	return fmt.Sprintf("Call with user %s. Conversation completed successfully.", contactNumber)
}

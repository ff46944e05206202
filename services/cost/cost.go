// Package cost estimates speech-pipeline spend for a completed call
// from the session's usage accumulator.
package cost

import (
	"math"

	"bookline/services/session"
)

// Pricing rates (January 2026 - update as providers change rates).
const (
	STTPerMinute    = 0.0043  // per minute of audio transcribed
	LLMInputPer1K   = 0.0015  // per 1K prompt tokens
	LLMOutputPer1K  = 0.002   // per 1K completion tokens
	TTSPerCharacter = 0.00001 // per character synthesized
	AvatarPerMinute = 0.006   // per minute of session
)

// Breakdown applies the pricing table to the call's usage metrics.
// Keys mirror the summary event contract.
func Breakdown(usage *session.Usage, durationSeconds int) map[string]float64 {
	if usage == nil {
		usage = &session.Usage{}
	}

	sttCost := usage.STTSeconds / 60 * STTPerMinute
	llmInputCost := float64(usage.PromptTokens) / 1000 * LLMInputPer1K
	llmOutputCost := float64(usage.CompletionTokens) / 1000 * LLMOutputPer1K
	ttsCost := float64(usage.TTSCharacters) * TTSPerCharacter

	avatarCost := 0.0
	if durationSeconds > 0 {
		avatarCost = float64(durationSeconds) / 60 * AvatarPerMinute
	}

	total := sttCost + llmInputCost + llmOutputCost + ttsCost + avatarCost

	return map[string]float64{
		"total":                round4(total),
		"speech_recognition":   round4(sttCost),
		"ai_processing_input":  round4(llmInputCost),
		"ai_processing_output": round4(llmOutputCost),
		"voice_synthesis":      round4(ttsCost),
		"avatar":               round4(avatarCost),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

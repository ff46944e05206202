package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookline/services/call"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallHandler exposes the call lifecycle over HTTP. The voice pipeline
// starts a call, pushes tool invocations while it runs and tears the
// call down when the line drops.
type CallHandler struct {
	Manager *call.Manager
}

// NewCallHandler constructs a CallHandler.
func NewCallHandler(manager *call.Manager) *CallHandler {
	return &CallHandler{Manager: manager}
}

type toolCallRequest struct {
	Tool      string          `json:"tool" binding:"required"`
	Arguments json.RawMessage `json:"arguments"`
}

type usageReport struct {
	STTSeconds       float64 `json:"sttSeconds"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TTSCharacters    int     `json:"ttsCharacters"`
}

// StartCallHandler registers a new call session.
func (h *CallHandler) StartCallHandler(c *gin.Context) {
	sess := h.Manager.StartCall()
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": sess.ID,
		"startedAt": sess.StartedAt,
	})
}

// GetCallHandler reports the state of an active call.
func (h *CallHandler) GetCallHandler(c *gin.Context) {
	sess, err := h.Manager.Get(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId":       sess.ID,
		"identified":      sess.Identified(),
		"startedAt":       sess.StartedAt,
		"durationSeconds": sess.Duration(),
		"toolCalls":       len(sess.ToolCalls()),
	})
}

// ToolCallHandler routes one tool invocation into the call. The reply
// body always carries a speakable response; taxonomy failures are
// folded into it rather than surfaced as HTTP errors.
func (h *CallHandler) ToolCallHandler(c *gin.Context) {
	var req toolCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	response, err := h.Manager.HandleTool(c.Request.Context(), c.Param("sessionID"), req.Tool, req.Arguments)
	if err != nil {
		if errors.Is(err, call.ErrCallNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
			return
		}
		utils.GetLogger().Error("tool dispatch failed",
			zap.String("tool", req.Tool), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}

// ReportUsageHandler accumulates speech-pipeline usage metrics for the
// call's cost estimate.
func (h *CallHandler) ReportUsageHandler(c *gin.Context) {
	sess, err := h.Manager.Get(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}

	var report usageReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	sess.Usage.STTSeconds += report.STTSeconds
	sess.Usage.PromptTokens += report.PromptTokens
	sess.Usage.CompletionTokens += report.CompletionTokens
	sess.Usage.TTSCharacters += report.TTSCharacters

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// EndCallHandler drops an active call immediately. The graceful path is
// the end_conversation tool; this endpoint covers abrupt hangups.
func (h *CallHandler) EndCallHandler(c *gin.Context) {
	h.Manager.EndCall(c.Param("sessionID"))
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

package handlers

import (
	"net/http"
	"strconv"

	conversationRepo "bookline/database/repository/conversation"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 10

// ConversationHandler serves the persisted records of finished calls.
type ConversationHandler struct {
	Records conversationRepo.ConversationRepository
}

// NewConversationHandler constructs a ConversationHandler.
func NewConversationHandler(records conversationRepo.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{Records: records}
}

// GetCallRecordHandler returns the record written when a call ended.
// Active calls have no record yet and report not found.
func (h *ConversationHandler) GetCallRecordHandler(c *gin.Context) {
	record, err := h.Records.GetBySessionID(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		utils.GetLogger().Error("failed to fetch call record",
			zap.String("sessionId", c.Param("sessionID")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch call record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// CallHistoryHandler lists a caller's most recent call records,
// newest first.
func (h *ConversationHandler) CallHistoryHandler(c *gin.Context) {
	limit := int64(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	contactNumber := utils.NormalizeContactNumber(c.Param("contactNumber"))
	records, err := h.Records.GetByContactNumber(c.Request.Context(), contactNumber, limit)
	if err != nil {
		utils.GetLogger().Error("failed to fetch call history",
			zap.String("contactNumber", contactNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch call history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Call lifecycle endpoints.
	StartCallHandler   gin.HandlerFunc
	GetCallHandler     gin.HandlerFunc
	EndCallHandler     gin.HandlerFunc
	ToolCallHandler    gin.HandlerFunc
	CallEventsHandler  gin.HandlerFunc
	ReportUsageHandler gin.HandlerFunc

	// Call record endpoints.
	GetCallRecordHandler gin.HandlerFunc
	CallHistoryHandler   gin.HandlerFunc

	// Speech endpoints.
	AISTTHandler gin.HandlerFunc

	// Admin endpoints.
	CreateSlotsHandler gin.HandlerFunc
}

package handlers

import (
	"net/http"

	"bookline/config"
	slotRepo "bookline/database/repository/slot"
	"bookline/models"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SlotHandler exposes the admin side of the slot catalog.
type SlotHandler struct {
	Slots slotRepo.SlotRepository
}

// NewSlotHandler constructs a SlotHandler.
func NewSlotHandler(slots slotRepo.SlotRepository) *SlotHandler {
	return &SlotHandler{Slots: slots}
}

type createSlotRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"durationMinutes"`
}

// CreateSlotsHandler seeds bookable slots into the catalog.
func (h *SlotHandler) CreateSlotsHandler(c *gin.Context) {
	var req []createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no slots provided"})
		return
	}

	slots := make([]models.Slot, 0, len(req))
	for _, r := range req {
		if _, err := utils.ParseDate(r.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "details": err.Error()})
			return
		}
		if _, err := utils.ParseTime(r.Time); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time", "details": err.Error()})
			return
		}
		duration := r.DurationMinutes
		if duration <= 0 {
			duration = config.AppConfig.AppointmentDuration
		}
		slots = append(slots, models.Slot{
			ID:              uuid.New().String(),
			Date:            r.Date,
			Time:            r.Time,
			DurationMinutes: duration,
			Available:       true,
		})
	}

	ids, err := h.Slots.CreateMany(c.Request.Context(), slots)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create slots", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(ids), "ids": ids})
}

package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookline/models"
	"bookline/services/session"
	"bookline/utils"

	"go.uber.org/zap"
)

const nearestSlotCount = 3

// FetchSlots reports open slots. With a specific date it returns every
// free slot on that date grouped by time of day; without one it returns
// the three nearest future slots inside the discovery window. Either
// way the slot catalog's availability flag is only a pre-filter; the
// appointments collection is re-checked before anything is offered.
func (s *DefaultToolService) FetchSlots(ctx context.Context, sess *session.Session, specificDate string) (string, error) {
	startedParam := specificDate
	if startedParam == "" {
		startedParam = "nearest_3"
	}
	sess.Emitter.EmitToolCall(ctx, ToolFetchSlots, models.ToolStatusStarted,
		map[string]any{"specific_date": startedParam})

	now := s.now()
	today := now.Format(utils.DateLayout)

	var (
		slots []models.Slot
		err   error
	)
	if specificDate != "" {
		slots, err = s.slots.GetAvailableByDate(ctx, specificDate)
	} else {
		endDate := now.AddDate(0, 0, s.discoveryWindowDays()).Format(utils.DateLayout)
		slots, err = s.slots.GetAvailableInRange(ctx, today, endDate)
	}
	if err != nil {
		utils.GetLogger().Error("failed to fetch slots", zap.Error(err))
		te := errStorage(err, "I'm sorry, I had trouble checking availability. Could you try again?")
		sess.Emitter.EmitToolCall(ctx, ToolFetchSlots, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	if len(slots) == 0 {
		sess.Emitter.EmitToolCall(ctx, ToolFetchSlots, models.ToolStatusSuccess,
			map[string]any{"available_slots": []models.SlotView{}})
		if specificDate != "" {
			return "", errNoSlotsOnDate(specificDate)
		}
		return "", errNoSlotsAtAll()
	}

	// The catalog flag can be stale; only slots with no appointment row
	// are actually free.
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}
	booked, err := s.appointments.BookedSlotIDs(ctx, ids)
	if err != nil {
		utils.GetLogger().Error("failed to check booked slots", zap.Error(err))
		te := errStorage(err, "I'm sorry, I had trouble checking availability. Could you try again?")
		sess.Emitter.EmitToolCall(ctx, ToolFetchSlots, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	var free []models.Slot
	for _, slot := range slots {
		// For the nearest-slot search, times already past today are gone.
		if specificDate == "" && slot.Date == today && !isAfterNow(slot.Time, now) {
			continue
		}
		if booked[slot.ID] {
			continue
		}
		free = append(free, slot)
		if specificDate == "" && len(free) >= nearestSlotCount {
			break
		}
	}

	if len(free) == 0 {
		sess.Emitter.EmitToolCall(ctx, ToolFetchSlots, models.ToolStatusSuccess,
			map[string]any{"available_slots": []models.SlotView{}})
		if specificDate != "" {
			return "", errNoSlotsOnDate(specificDate)
		}
		return "", errAllSlotsBooked()
	}

	var (
		response string
		views    []models.SlotView
	)
	if specificDate != "" {
		response, views = formatDateSlots(specificDate, free, now)
	} else {
		response, views = formatNearestSlots(free, now)
	}

	sess.RecordToolCall(ToolFetchSlots, map[string]string{"specific_date": startedParam},
		fmt.Sprintf("%d slots fetched", len(views)))
	sess.Emitter.EmitToolCall(ctx, ToolFetchSlots, models.ToolStatusSuccess,
		map[string]any{"available_slots": views, "count": len(views)})

	return response, nil
}

// isAfterNow reports whether a time-of-day value is still ahead of the
// clock today.
func isAfterNow(timeOfDay string, now time.Time) bool {
	t, err := utils.ParseTime(timeOfDay)
	if err != nil {
		return true
	}
	return t.Hour()*60+t.Minute() > now.Hour()*60+now.Minute()
}

// formatDateSlots renders every free slot on one date, bucketed into
// morning, afternoon and evening.
func formatDateSlots(date string, free []models.Slot, now time.Time) (string, []models.SlotView) {
	buckets := map[string][]string{}
	views := make([]models.SlotView, 0, len(free))

	for _, slot := range free {
		display := utils.FormatTimeForDisplay(slot.Time)
		bucket := "evening"
		if t, err := utils.ParseTime(slot.Time); err == nil {
			bucket = utils.TimeOfDay(t.Hour())
		}
		buckets[bucket] = append(buckets[bucket], display)

		label := slot.Date
		if d, err := utils.ParseDate(slot.Date); err == nil {
			label = utils.DateLabel(d, now)
		}
		views = append(views, models.SlotView{
			Date:        slot.Date,
			Time:        slot.Time,
			TimeDisplay: display,
			DateLabel:   label,
			TimeOfDay:   bucket,
		})
	}

	dateLabel := date
	if d, err := utils.ParseDate(date); err == nil {
		dateLabel = utils.DateLabel(d, now)
	}

	parts := []string{fmt.Sprintf("%s SLOTS:", strings.ToUpper(dateLabel))}
	for _, bucket := range []string{"morning", "afternoon", "evening"} {
		if len(buckets[bucket]) == 0 {
			continue
		}
		title := strings.ToUpper(bucket[:1]) + bucket[1:]
		parts = append(parts, fmt.Sprintf("%s: %s", title, strings.Join(buckets[bucket], ", ")))
	}
	return strings.Join(parts, " | ") + ".", views
}

// formatNearestSlots renders up to three upcoming slots as "today at
// 2 PM" style descriptions.
func formatNearestSlots(free []models.Slot, now time.Time) (string, []models.SlotView) {
	if len(free) > nearestSlotCount {
		free = free[:nearestSlotCount]
	}

	descriptions := make([]string, 0, len(free))
	views := make([]models.SlotView, 0, len(free))
	for _, slot := range free {
		display := utils.FormatTimeForDisplay(slot.Time)
		label := slot.Date
		if d, err := utils.ParseDate(slot.Date); err == nil {
			label = utils.DateLabel(d, now)
		}
		descriptions = append(descriptions, fmt.Sprintf("%s at %s", label, display))
		views = append(views, models.SlotView{
			Date:        slot.Date,
			Time:        slot.Time,
			TimeDisplay: display,
			DateLabel:   label,
		})
	}

	return fmt.Sprintf("I have 3 nearest slots available at: %s.", strings.Join(descriptions, ", ")), views
}

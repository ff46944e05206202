package booking

import (
	"errors"
	"fmt"

	"bookline/utils"
)

// Tool failure codes. Every failed operation resolves to exactly one of
// these; callers branch on the code while the Spoken text goes back to
// the voice channel unchanged.
const (
	CodeNotIdentified       = "notIdentified"
	CodeSlotNotFound        = "slotNotFound"
	CodeSlotUnavailable     = "slotUnavailable"
	CodeSlotAlreadyBooked   = "slotAlreadyBooked"
	CodeRaceLost            = "raceLost"
	CodeAppointmentNotFound = "appointmentNotFound"
	CodeForbidden           = "forbidden"
	CodeNoSlotsOnDate       = "noSlotsOnDate"
	CodeStorageError        = "storageError"
)

// ToolError is the typed outcome of a failed tool operation. Message is
// the internal detail mirrored to the event channel; Spoken is the
// caller-facing sentence returned to the voice pipeline.
type ToolError struct {
	Code    string
	Message string
	Spoken  string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsToolError unwraps err into a *ToolError, or nil.
func AsToolError(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return nil
}

// SpokenText converts any operation error into the sentence the voice
// pipeline should say. Unexpected errors fall back to the given apology.
func SpokenText(err error, apology string) string {
	if te := AsToolError(err); te != nil && te.Spoken != "" {
		return te.Spoken
	}
	return apology
}

func errNotIdentified() *ToolError {
	return &ToolError{
		Code:    CodeNotIdentified,
		Message: "User not identified",
		Spoken:  "I need to identify you first. Could you please provide your phone number?",
	}
}

func errInvalidNumber() *ToolError {
	return &ToolError{
		Code:    CodeNotIdentified,
		Message: "Empty contact number after normalization",
		Spoken:  "I'm sorry, I had trouble looking up that phone number. Could you please repeat it?",
	}
}

func errIdentityConflict(err error) *ToolError {
	return &ToolError{
		Code:    CodeForbidden,
		Message: err.Error(),
		Spoken:  "I'm sorry, this call is already associated with a different phone number.",
	}
}

func errSlotNotFound() *ToolError {
	return &ToolError{
		Code:    CodeSlotNotFound,
		Message: "Slot not found",
		Spoken:  "I'm sorry, that time slot doesn't exist. Let me check what's available for you.",
	}
}

func errSlotUnavailable(date, timeOfDay string) *ToolError {
	return &ToolError{
		Code:    CodeSlotUnavailable,
		Message: "Slot not available",
		Spoken: fmt.Sprintf("I'm sorry, that slot at %s on %s is no longer available. Let me check other available times for you.",
			utils.FormatTimeForDisplay(timeOfDay), date),
	}
}

func errSlotAlreadyBooked(date, timeOfDay string) *ToolError {
	return &ToolError{
		Code:    CodeSlotAlreadyBooked,
		Message: "Time slot already booked",
		Spoken: fmt.Sprintf("I'm sorry, that time slot at %s on %s is already booked. Let me check other available times for you.",
			utils.FormatTimeForDisplay(timeOfDay), date),
	}
}

// errModifyTargetBooked keeps the raw 24-hour time in the spoken text:
// the modify flow reads the time back the way the caller phrased it.
func errModifyTargetBooked(date, timeOfDay string) *ToolError {
	return &ToolError{
		Code:    CodeSlotAlreadyBooked,
		Message: "New slot already booked",
		Spoken: fmt.Sprintf("I'm sorry, the slot at %s on %s is already booked. Would you like to try a different time?",
			timeOfDay, date),
	}
}

func errRaceLost(date, timeOfDay string) *ToolError {
	return &ToolError{
		Code:    CodeRaceLost,
		Message: "Slot booked by another user (race condition)",
		Spoken: fmt.Sprintf("I'm sorry, that slot at %s on %s was just booked by another user. Let me check other available times for you.",
			utils.FormatTimeForDisplay(timeOfDay), date),
	}
}

func errAppointmentNotFound(spoken string) *ToolError {
	return &ToolError{
		Code:    CodeAppointmentNotFound,
		Message: "Appointment not found",
		Spoken:  spoken,
	}
}

func errForbidden() *ToolError {
	return &ToolError{
		Code:    CodeForbidden,
		Message: "Appointment belongs to different user",
		Spoken:  "I'm sorry, that appointment doesn't belong to your account.",
	}
}

// errNoSlotsOnDate speaks the requested date in long form when it
// parses, and falls back to "that date" when it doesn't.
func errNoSlotsOnDate(date string) *ToolError {
	spoken := "I'm sorry, there are no available slots on that date. Please try a different date."
	if d, err := utils.ParseDate(date); err == nil {
		spoken = fmt.Sprintf("I'm sorry, there are no available slots on %s. Please try a different date.",
			d.Format("Monday, January 02"))
	}
	return &ToolError{
		Code:    CodeNoSlotsOnDate,
		Message: "No available slots on requested date",
		Spoken:  spoken,
	}
}

func errNoSlotsAtAll() *ToolError {
	return &ToolError{
		Code:    CodeNoSlotsOnDate,
		Message: "No available slots in discovery window",
		Spoken:  "I'm sorry, there are no available slots at the moment. Please try again later.",
	}
}

func errAllSlotsBooked() *ToolError {
	return &ToolError{
		Code:    CodeNoSlotsOnDate,
		Message: "All available slots are booked",
		Spoken:  "I'm sorry, all available slots are currently booked. Please check back later for new availability.",
	}
}

func errStorage(err error, spoken string) *ToolError {
	return &ToolError{
		Code:    CodeStorageError,
		Message: err.Error(),
		Spoken:  spoken,
	}
}

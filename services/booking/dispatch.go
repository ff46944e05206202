package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"bookline/services/session"
)

// apologies is what the voice pipeline says when an operation fails
// without a typed outcome, keyed by tool name.
var apologies = map[string]string{
	ToolIdentifyUser:         "I'm sorry, I had trouble looking up that phone number. Could you please repeat it?",
	ToolFetchSlots:           "I'm sorry, I had trouble checking availability. Could you try again?",
	ToolBookAppointment:      "I'm sorry, I had trouble booking the appointment. Could you try again?",
	ToolRetrieveAppointments: "I'm sorry, I had trouble retrieving your appointments. Could you try again?",
	ToolModifyAppointment:    "I'm sorry, I had trouble modifying the appointment. Could you try again?",
	ToolCancelAppointment:    "I'm sorry, I had trouble cancelling the appointment. Could you try again?",
	ToolEndConversation:      "Thank you for your time. Goodbye!",
}

type identifyArgs struct {
	ContactNumber string `json:"contact_number"`
	Name          string `json:"name"`
}

type fetchSlotsArgs struct {
	SpecificDate string `json:"specific_date"`
}

type bookArgs struct {
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Notes           string `json:"notes"`
}

type modifyArgs struct {
	AppointmentID string `json:"appointment_id"`
	NewDate       string `json:"new_date"`
	NewTime       string `json:"new_time"`
}

type cancelArgs struct {
	AppointmentID string `json:"appointment_id"`
}

// Dispatch routes a named tool invocation with raw JSON arguments to
// the matching operation and always returns something speakable. The
// error return is reserved for protocol problems the voice pipeline
// cannot recover from: an unknown tool name or unparseable arguments.
func Dispatch(ctx context.Context, svc ToolService, sess *session.Session, tool string, rawArgs json.RawMessage) (string, error) {
	if len(rawArgs) == 0 {
		rawArgs = json.RawMessage("{}")
	}

	var (
		response string
		err      error
	)
	switch tool {
	case ToolIdentifyUser:
		var args identifyArgs
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", tool, err)
		}
		response, err = svc.IdentifyUser(ctx, sess, args.ContactNumber, args.Name)

	case ToolFetchSlots:
		var args fetchSlotsArgs
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", tool, err)
		}
		response, err = svc.FetchSlots(ctx, sess, args.SpecificDate)

	case ToolBookAppointment:
		var args bookArgs
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", tool, err)
		}
		response, err = svc.BookAppointment(ctx, sess, args.AppointmentDate, args.AppointmentTime, args.Notes)

	case ToolRetrieveAppointments:
		response, err = svc.RetrieveAppointments(ctx, sess)

	case ToolModifyAppointment:
		var args modifyArgs
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", tool, err)
		}
		response, err = svc.ModifyAppointment(ctx, sess, args.AppointmentID, args.NewDate, args.NewTime)

	case ToolCancelAppointment:
		var args cancelArgs
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", tool, err)
		}
		response, err = svc.CancelAppointment(ctx, sess, args.AppointmentID)

	case ToolEndConversation:
		response, err = svc.EndConversation(ctx, sess)

	default:
		return "", fmt.Errorf("unknown tool %q", tool)
	}

	if err != nil {
		return SpokenText(err, apologies[tool]), nil
	}
	return response, nil
}

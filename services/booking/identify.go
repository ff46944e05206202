package booking

import (
	"context"
	"fmt"

	"bookline/models"
	"bookline/services/session"
	"bookline/utils"

	"go.uber.org/zap"
)

// IdentifyUser resolves the caller by phone number, creating the
// identity on first contact, and binds it to the session. Must run
// before any other caller-scoped operation. A non-empty name is
// attached to the identity best effort.
func (s *DefaultToolService) IdentifyUser(ctx context.Context, sess *session.Session, contactNumber, name string) (string, error) {
	sess.Emitter.EmitToolCall(ctx, ToolIdentifyUser, models.ToolStatusStarted,
		map[string]any{"contact_number": contactNumber})

	clean := utils.NormalizeContactNumber(contactNumber)
	if clean == "" {
		te := errInvalidNumber()
		sess.Emitter.EmitToolCall(ctx, ToolIdentifyUser, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	if current := sess.ContactNumber(); current != "" && current != clean {
		te := errIdentityConflict(fmt.Errorf("session already identified as %s", current))
		sess.Emitter.EmitToolCall(ctx, ToolIdentifyUser, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	user, created, err := s.users.FindOrCreate(ctx, clean)
	if err != nil {
		utils.GetLogger().Error("failed to identify user", zap.String("contactNumber", clean), zap.Error(err))
		te := errStorage(err, "I'm sorry, I had trouble looking up that phone number. Could you please repeat it?")
		sess.Emitter.EmitToolCall(ctx, ToolIdentifyUser, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	// The session is bound only once the identity exists in storage; a
	// failed lookup must leave the caller retryable as unidentified.
	if err := sess.SetContactNumber(clean); err != nil {
		te := errIdentityConflict(err)
		sess.Emitter.EmitToolCall(ctx, ToolIdentifyUser, models.ToolStatusError, map[string]any{"error": te.Message})
		return "", te
	}

	if name != "" && name != user.Name {
		if nerr := s.users.SetName(ctx, clean, name); nerr != nil {
			utils.GetLogger().Warn("failed to store caller name",
				zap.String("contactNumber", clean), zap.Error(nerr))
		} else {
			user.Name = name
		}
	}

	// Learned preferences from earlier calls ride along for the rest of
	// this one. A cold cache is not an error.
	if s.prefs != nil {
		if prefs, perr := s.prefs.Get(ctx, clean); perr != nil {
			utils.GetLogger().Warn("failed to load caller preferences", zap.Error(perr))
		} else {
			sess.Preferences = prefs
		}
	}

	action, result := "found", "found"
	if created {
		action, result = "created", "created"
	}
	sess.RecordToolCall(ToolIdentifyUser, map[string]string{"contact_number": clean}, result)
	sess.Emitter.EmitToolCall(ctx, ToolIdentifyUser, models.ToolStatusSuccess,
		map[string]any{"user": user, "action": action})

	if created {
		return fmt.Sprintf("New account created for %s. Welcome!", clean), nil
	}
	return fmt.Sprintf("User account found for %s. Welcome back!", clean), nil
}

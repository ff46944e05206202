// Package call orchestrates call lifecycles: one session per active
// call, created at call start, fed tool invocations while the call is
// live and torn down after the farewell.
package call

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bookline/config"
	"bookline/services/booking"
	"bookline/services/events"
	"bookline/services/session"
	"bookline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCallNotFound is returned for operations on unknown or ended calls.
var ErrCallNotFound = fmt.Errorf("call not found")

// activeCall pairs a session with the lock that serializes its tool
// invocations. A call handles one tool at a time; the lock protects
// against overlapping HTTP requests for the same call.
type activeCall struct {
	mu   sync.Mutex
	sess *session.Session
}

// Manager tracks the active calls.
type Manager struct {
	mu    sync.RWMutex
	calls map[string]*activeCall
	tools booking.ToolService
}

// NewManager builds the orchestrator and wires the tool service's
// disconnect hook back into it.
func NewManager(tools *booking.DefaultToolService) *Manager {
	m := &Manager{
		calls: make(map[string]*activeCall),
		tools: tools,
	}
	tools.SetDisconnectFunc(m.ScheduleDisconnect)
	return m
}

// StartCall registers a new call and returns its fresh session.
func (m *Manager) StartCall() *session.Session {
	sess := session.New(uuid.New().String())

	m.mu.Lock()
	m.calls[sess.ID] = &activeCall{sess: sess}
	m.mu.Unlock()

	utils.GetLogger().Info("call started", zap.String("sessionId", sess.ID))
	return sess
}

// Get returns the session for an active call.
func (m *Manager) Get(sessionID string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.calls[sessionID]
	if !ok {
		return nil, ErrCallNotFound
	}
	return c.sess, nil
}

// AttachTransport binds the UI event channel to an active call.
func (m *Manager) AttachTransport(sessionID string, t events.Transport) error {
	sess, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	sess.Emitter.Attach(t)
	return nil
}

// HandleTool runs one tool invocation against an active call. Tool
// invocations for the same call are serialized in arrival order.
func (m *Manager) HandleTool(ctx context.Context, sessionID, tool string, args json.RawMessage) (string, error) {
	m.mu.RLock()
	c, ok := m.calls[sessionID]
	m.mu.RUnlock()
	if !ok {
		return "", ErrCallNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return booking.Dispatch(ctx, m.tools, c.sess, tool, args)
}

// EndCall removes a call and closes its event channel. Ending an
// already-ended call is a no-op.
func (m *Manager) EndCall(sessionID string) {
	m.mu.Lock()
	c, ok := m.calls[sessionID]
	delete(m.calls, sessionID)
	m.mu.Unlock()
	if !ok {
		return
	}

	if err := c.sess.Emitter.Close(); err != nil {
		utils.GetLogger().Warn("failed to close event channel",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	utils.GetLogger().Info("call ended",
		zap.String("sessionId", sessionID),
		zap.Int("durationSeconds", c.sess.Duration()))
}

// ScheduleDisconnect tears the call down after the configured delay,
// giving the voice pipeline time to speak the farewell and the UI time
// to render the summary.
func (m *Manager) ScheduleDisconnect(sess *session.Session) {
	delay := time.Duration(config.AppConfig.DisconnectDelaySeconds) * time.Second
	if delay <= 0 {
		delay = 8 * time.Second
	}
	utils.GetLogger().Info("disconnect scheduled",
		zap.String("sessionId", sess.ID), zap.Duration("delay", delay))

	time.AfterFunc(delay, func() {
		m.EndCall(sess.ID)
	})
}

// ActiveCalls reports how many calls are live.
func (m *Manager) ActiveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appointmentRepo "bookline/database/repository/appointment"
	"bookline/models"
	"bookline/services/session"
	"bookline/utils"
)

// testNow is the frozen clock for discovery tests: Tuesday afternoon.
var testNow = time.Date(2026, 1, 27, 13, 0, 0, 0, utils.Location())

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByContactNumber(_ context.Context, contactNumber string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.users[contactNumber], nil
}

func (r *fakeUserRepo) FindOrCreate(_ context.Context, contactNumber string) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, false, r.err
	}
	if u, ok := r.users[contactNumber]; ok {
		return u, false, nil
	}
	u := &models.User{ContactNumber: contactNumber, CreatedAt: time.Now()}
	r.users[contactNumber] = u
	return u, true, nil
}

func (r *fakeUserRepo) SetName(_ context.Context, contactNumber, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[contactNumber]
	if !ok {
		return fmt.Errorf("user %s not found", contactNumber)
	}
	u.Name = name
	return nil
}

type availabilityChange struct {
	slotID    string
	available bool
}

type fakeSlotRepo struct {
	mu      sync.Mutex
	slots   map[string]models.Slot
	changes []availabilityChange
	err     error
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[string]models.Slot{}}
}

func (r *fakeSlotRepo) add(id, date, timeOfDay string, available bool) {
	r.slots[id] = models.Slot{
		ID: id, Date: date, Time: timeOfDay, DurationMinutes: 30, Available: available,
	}
}

func (r *fakeSlotRepo) CreateMany(_ context.Context, slots []models.Slot) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		r.slots[s.ID] = s
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r *fakeSlotRepo) GetByDateTime(_ context.Context, date, timeOfDay string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.slots {
		if s.Date == date && s.Time == timeOfDay {
			copy := s
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeSlotRepo) GetAvailableByDate(_ context.Context, date string) ([]models.Slot, error) {
	return r.GetAvailableInRange(context.Background(), date, date)
}

func (r *fakeSlotRepo) GetAvailableInRange(_ context.Context, fromDate, toDate string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Slot
	for _, s := range r.slots {
		if s.Available && s.Date >= fromDate && s.Date <= toDate {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *fakeSlotRepo) SetAvailability(_ context.Context, slotID string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	s, ok := r.slots[slotID]
	if !ok {
		return fmt.Errorf("slot %s not found", slotID)
	}
	s.Available = available
	r.slots[slotID] = s
	r.changes = append(r.changes, availabilityChange{slotID: slotID, available: available})
	return nil
}

// fakeAppointmentRepo enforces the same unique constraints as the real
// collection so constraint races behave the way the service expects.
type fakeAppointmentRepo struct {
	mu             sync.Mutex
	rows           []*models.Appointment
	forceCreateErr error
	forceUpdateErr error
	err            error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceCreateErr != nil {
		err := r.forceCreateErr
		r.forceCreateErr = nil
		return err
	}
	if r.err != nil {
		return r.err
	}
	for _, row := range r.rows {
		if row.Status != models.AppointmentScheduled {
			continue
		}
		if row.SlotID == appt.SlotID {
			return &appointmentRepo.DuplicateKeyError{Index: appointmentRepo.IndexUniqueSlot}
		}
		if row.Date == appt.Date && row.Time == appt.Time {
			return &appointmentRepo.DuplicateKeyError{Index: appointmentRepo.IndexUniqueDateTime}
		}
	}
	copy := *appt
	copy.CreatedAt = time.Now()
	r.rows = append(r.rows, &copy)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.ID == id {
			copy := *row
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) GetByContactNumber(_ context.Context, contactNumber string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Appointment
	for _, row := range r.rows {
		if row.ContactNumber == contactNumber {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *fakeAppointmentRepo) GetRecentByContactNumber(_ context.Context, contactNumber string, limit int64) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Appointment
	for i := len(r.rows) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.rows[i].ContactNumber == contactNumber {
			out = append(out, *r.rows[i])
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) GetBySlotID(_ context.Context, slotID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.SlotID == slotID && row.Status == models.AppointmentScheduled {
			copy := *row
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) GetBySlotAndContact(_ context.Context, slotID, contactNumber string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.SlotID == slotID && row.ContactNumber == contactNumber && row.Status == models.AppointmentScheduled {
			copy := *row
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) GetByDateTime(_ context.Context, date, timeOfDay string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.Date == date && row.Time == timeOfDay && row.Status == models.AppointmentScheduled {
			copy := *row
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) BookedSlotIDs(_ context.Context, slotIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	wanted := map[string]bool{}
	for _, id := range slotIDs {
		wanted[id] = true
	}
	booked := map[string]bool{}
	for _, row := range r.rows {
		if wanted[row.SlotID] && row.Status == models.AppointmentScheduled {
			booked[row.SlotID] = true
		}
	}
	return booked, nil
}

func (r *fakeAppointmentRepo) OtherAppointmentOnSlot(_ context.Context, slotID, excludeID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.SlotID == slotID && row.ID != excludeID && row.Status == models.AppointmentScheduled {
			copy := *row
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) UpdateSlot(_ context.Context, id, newSlotID, newDate, newTime string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceUpdateErr != nil {
		err := r.forceUpdateErr
		r.forceUpdateErr = nil
		return err
	}
	for _, row := range r.rows {
		if row.ID == id || row.Status != models.AppointmentScheduled {
			continue
		}
		if row.SlotID == newSlotID {
			return &appointmentRepo.DuplicateKeyError{Index: appointmentRepo.IndexUniqueSlot}
		}
		if row.Date == newDate && row.Time == newTime {
			return &appointmentRepo.DuplicateKeyError{Index: appointmentRepo.IndexUniqueDateTime}
		}
	}
	for _, row := range r.rows {
		if row.ID == id {
			row.SlotID, row.Date, row.Time = newSlotID, newDate, newTime
			row.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}

func (r *fakeAppointmentRepo) MarkCompletedBefore(_ context.Context, date, timeOfDay string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.Status != models.AppointmentScheduled {
			continue
		}
		if row.Date < date || (row.Date == date && row.Time < timeOfDay) {
			row.Status = models.AppointmentCompleted
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeConversationRepo struct {
	mu      sync.Mutex
	records []models.ConversationRecord
}

func (r *fakeConversationRepo) Create(_ context.Context, record models.ConversationRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = fmt.Sprintf("conv-%d", len(r.records)+1)
	r.records = append(r.records, record)
	return record.ID, nil
}

func (r *fakeConversationRepo) GetBySessionID(_ context.Context, sessionID string) (*models.ConversationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			copy := rec
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) GetByContactNumber(_ context.Context, contactNumber string, limit int64) ([]models.ConversationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ConversationRecord
	for _, rec := range r.records {
		if rec.ContactNumber == contactNumber && int64(len(out)) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakePrefStore struct {
	mu    sync.Mutex
	prefs map[string]models.Preferences
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{prefs: map[string]models.Preferences{}}
}

func (s *fakePrefStore) Get(_ context.Context, contactNumber string) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs[contactNumber], nil
}

func (s *fakePrefStore) Set(_ context.Context, contactNumber string, prefs models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[contactNumber] = prefs
	return nil
}

func (s *fakePrefStore) Clear(_ context.Context, contactNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prefs, contactNumber)
	return nil
}

type fakeSummaryGen struct {
	text string
	err  error
}

func (g *fakeSummaryGen) Generate(_ context.Context, _, _ string, _ []models.Appointment) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

type fakeReminderScheduler struct {
	mu        sync.Mutex
	scheduled []models.Appointment
	err       error
}

func (f *fakeReminderScheduler) Schedule(_ context.Context, appt models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, appt)
	return nil
}

type recordingTransport struct {
	mu        sync.Mutex
	published [][]byte
}

func (t *recordingTransport) Publish(_ context.Context, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.published = append(t.published, payload)
	return nil
}

func (t *recordingTransport) Close() error { return nil }

// testEnv bundles a service over fresh fakes with a frozen clock.
type testEnv struct {
	svc       *DefaultToolService
	users     *fakeUserRepo
	slots     *fakeSlotRepo
	appts     *fakeAppointmentRepo
	convs     *fakeConversationRepo
	prefs     *fakePrefStore
	summaries *fakeSummaryGen
	reminders *fakeReminderScheduler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:     newFakeUserRepo(),
		slots:     newFakeSlotRepo(),
		appts:     newFakeAppointmentRepo(),
		convs:     &fakeConversationRepo{},
		prefs:     newFakePrefStore(),
		summaries: &fakeSummaryGen{text: "Caller booked an appointment."},
		reminders: &fakeReminderScheduler{},
	}
	env.svc = NewToolService(env.users, env.slots, env.appts, env.convs, env.prefs, env.summaries, env.reminders)
	env.svc.now = func() time.Time { return testNow }
	return env
}

// identifiedSession returns a session already bound to the given number.
func identifiedSession(number string) *session.Session {
	sess := session.New("call-test")
	if err := sess.SetContactNumber(number); err != nil {
		panic(err)
	}
	return sess
}

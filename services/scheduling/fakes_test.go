package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	appointmentRepo "medicall/database/repository/appointment"
	availabilityRepo "medicall/database/repository/availability"
	sessionRepo "medicall/database/repository/session"
	userRepo "medicall/database/repository/user"
	"medicall/models"
)

// In-memory fakes mirroring the repository contracts, including the atomic
// overlap re-check inside CommitScheduled.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetVerifiedProvider(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok || u.Role != models.RoleProvider || u.VerificationStatus != models.VerificationVerified {
		return nil, userRepo.ErrNotFound
	}
	return u, nil
}

type fakeAvailabilityRepo struct {
	windows map[string]*models.AvailabilityWindow
}

func newFakeAvailabilityRepo(windows ...*models.AvailabilityWindow) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{windows: make(map[string]*models.AvailabilityWindow)}
	for _, w := range windows {
		r.windows[w.ProviderID] = w
	}
	return r
}

func (r *fakeAvailabilityRepo) GetActiveWindow(_ context.Context, providerID string) (*models.AvailabilityWindow, error) {
	w, ok := r.windows[providerID]
	if !ok || w.Status != models.AvailabilityAvailable {
		return nil, availabilityRepo.ErrNoWindow
	}
	return w, nil
}

func (r *fakeAvailabilityRepo) Upsert(_ context.Context, window *models.AvailabilityWindow) error {
	r.windows[window.ProviderID] = window
	return nil
}

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newFakeAppointmentRepo(appts ...*models.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{appts: make(map[string]*models.Appointment)}
	for _, a := range appts {
		cp := *a
		r.appts[a.ID] = &cp
	}
	return r
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) ListScheduledUntil(_ context.Context, providerID string, until time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.ProviderID == providerID && a.Status == models.AppointmentScheduled && !a.StartTime.After(until) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// CommitScheduled holds the lock across the overlap re-check and the
// insert, matching the Mongo implementation's advisory lock.
func (r *fakeAppointmentRepo) CommitScheduled(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.appts {
		if existing.ProviderID == appt.ProviderID &&
			existing.Status == models.AppointmentScheduled &&
			existing.Overlaps(appt.StartTime, appt.EndTime) {
			return appointmentRepo.ErrOverlap
		}
	}
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) TransitionStatus(_ context.Context, id string, from, to models.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || a.Status != from {
		return appointmentRepo.ErrStateConflict
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAppointmentRepo) SetSessionID(_ context.Context, id, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	a.SessionID = sessionID
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session // keyed by appointmentId
}

func newFakeSessionRepo(sessions ...*models.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[string]*models.Session)}
	for _, s := range sessions {
		r.sessions[s.AppointmentID] = s
	}
	return r
}

func (r *fakeSessionRepo) GetByAppointment(_ context.Context, appointmentID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[appointmentID]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.AppointmentID]; ok {
		return sessionRepo.ErrAlreadyExists
	}
	r.sessions[session.AppointmentID] = session
	return nil
}

func (r *fakeSessionRepo) DeleteByAppointment(_ context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[appointmentID]; !ok {
		return sessionRepo.ErrNotFound
	}
	delete(r.sessions, appointmentID)
	return nil
}

type fakeTokenProvider struct {
	mu      sync.Mutex
	issued  int
	revoked []string
}

func (p *fakeTokenProvider) Issue(_ context.Context, appointmentID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return "tok-" + appointmentID, nil
}

func (p *fakeTokenProvider) Revoke(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked = append(p.revoked, token)
	return nil
}

func verifiedProvider(id string) *models.User {
	return &models.User{
		ID:                 id,
		Name:               "Dr. Amani Odera",
		Email:              id + "@example.com",
		Role:               models.RoleProvider,
		VerificationStatus: models.VerificationVerified,
		Speciality:         "Cardiology",
	}
}

func patient(id string) *models.User {
	return &models.User{
		ID:    id,
		Name:  "Jo Walker",
		Email: id + "@example.com",
		Role:  models.RolePatient,
	}
}

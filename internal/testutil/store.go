// Package testutil provides in-memory implementations of the service storage
// ports, with call tracking and error injection, for unit and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"activity_hub/internal/apperr"
	"activity_hub/internal/models"
	"activity_hub/internal/services"
)

type pair struct{ registrant, event uint }

// MemoryStore keeps every table in maps guarded by one mutex. Admission holds
// the mutex for the whole callback, which serialises admissions the way the
// event row lock does in Postgres.
type MemoryStore struct {
	mu sync.Mutex

	nextID       uint
	users        map[uint]models.User
	participants map[uint]models.Participant
	volunteers   map[uint]models.Volunteer
	staff        map[uint]models.Staff
	events       map[uint]models.Event
	regs         map[services.RegistrantKind]map[pair]time.Time

	// Call tracking
	AdmissionCalls int
	InsertCalls    int

	// Error injection
	AdmissionError error
	InsertError    error
	CreateError    error
	ListError      error
}

var (
	_ services.RegistrationStore = (*MemoryStore)(nil)
	_ services.AccountStore      = (*MemoryStore)(nil)
	_ services.EventStore        = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uint]models.User),
		participants: make(map[uint]models.Participant),
		volunteers:   make(map[uint]models.Volunteer),
		staff:        make(map[uint]models.Staff),
		events:       make(map[uint]models.Event),
		regs: map[services.RegistrantKind]map[pair]time.Time{
			services.KindParticipant: {},
			services.KindVolunteer:   {},
		},
	}
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

// SeedEvent inserts an event and returns its ID.
func (s *MemoryStore) SeedEvent(e models.Event) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	s.events[e.ID] = e
	return e.ID
}

// RegistrationCount returns how many join rows of kind exist for the event.
func (s *MemoryStore) RegistrationCount(kind services.RegistrantKind, eventID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(kind, eventID)
}

// UserCount returns the number of user rows.
func (s *MemoryStore) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *MemoryStore) countLocked(kind services.RegistrantKind, eventID uint) int {
	n := 0
	for p := range s.regs[kind] {
		if p.event == eventID {
			n++
		}
	}
	return n
}

// Registrations

type memoryTx struct {
	s       *MemoryStore
	pending []services.Registration
}

func (s *MemoryStore) Admission(ctx context.Context, fn func(tx services.AdmissionTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AdmissionCalls++
	if s.AdmissionError != nil {
		return s.AdmissionError
	}

	tx := &memoryTx{s: s}
	if err := fn(tx); err != nil {
		return err
	}
	for _, r := range tx.pending {
		s.regs[r.Kind][pair{r.RegistrantID, r.EventID}] = r.SignedAt
	}
	return nil
}

func (t *memoryTx) LockEvent(_ context.Context, eventID uint) (*models.Event, error) {
	e, ok := t.s.events[eventID]
	if !ok {
		return nil, apperr.NotFound("event not found")
	}
	return &e, nil
}

func (t *memoryTx) RegistrantExists(_ context.Context, kind services.RegistrantKind, id uint) (bool, error) {
	if kind == services.KindVolunteer {
		_, ok := t.s.volunteers[id]
		return ok, nil
	}
	_, ok := t.s.participants[id]
	return ok, nil
}

func (t *memoryTx) CountRegistrations(_ context.Context, kind services.RegistrantKind, eventID uint) (int64, error) {
	n := t.s.countLocked(kind, eventID)
	for _, r := range t.pending {
		if r.Kind == kind && r.EventID == eventID {
			n++
		}
	}
	return int64(n), nil
}

func (t *memoryTx) IsRegistered(_ context.Context, kind services.RegistrantKind, rid, eid uint) (bool, error) {
	_, ok := t.s.regs[kind][pair{rid, eid}]
	return ok, nil
}

func (t *memoryTx) InsertRegistration(_ context.Context, reg services.Registration) error {
	t.s.InsertCalls++
	if t.s.InsertError != nil {
		return t.s.InsertError
	}
	if _, ok := t.s.regs[reg.Kind][pair{reg.RegistrantID, reg.EventID}]; ok {
		return apperr.New(apperr.ErrAlreadyRegistered, "%s already registered for this event", reg.Kind)
	}
	t.pending = append(t.pending, reg)
	return nil
}

func (s *MemoryStore) DeleteRegistration(_ context.Context, kind services.RegistrantKind, rid, eid uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{rid, eid}
	if _, ok := s.regs[kind][key]; !ok {
		return false, nil
	}
	delete(s.regs[kind], key)
	return true, nil
}

func (s *MemoryStore) ListRegistrations(_ context.Context, kind services.RegistrantKind, f services.RegistrationFilter) ([]services.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	out := []services.Registration{}
	for p, at := range s.regs[kind] {
		if f.RegistrantID != 0 && p.registrant != f.RegistrantID {
			continue
		}
		if f.EventID != 0 && p.event != f.EventID {
			continue
		}
		out = append(out, services.Registration{Kind: kind, RegistrantID: p.registrant, EventID: p.event, SignedAt: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventID != out[j].EventID {
			return out[i].EventID < out[j].EventID
		}
		return out[i].RegistrantID < out[j].RegistrantID
	})
	return out, nil
}

// Accounts

func (s *MemoryStore) insertUser(u *models.User) {
	now := time.Now().UTC()
	u.ID = s.id()
	u.CreatedAt, u.UpdatedAt = now, now
	stored := *u
	stored.Participant, stored.Volunteer, stored.Staff = nil, nil, nil
	s.users[u.ID] = stored
}

func (s *MemoryStore) userCopy(id uint) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (s *MemoryStore) CreateParticipant(_ context.Context, u *models.User, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateError != nil {
		return s.CreateError
	}
	for _, existing := range s.participants {
		if existing.Phone == p.Phone {
			return apperr.Conflict("phone number already registered")
		}
	}
	s.insertUser(u)
	p.ID = s.id()
	p.UserID = u.ID
	p.CreatedAt = u.CreatedAt
	stored := *p
	stored.User = nil
	s.participants[p.ID] = stored
	return nil
}

func (s *MemoryStore) emailTakenLocked(email string) bool {
	for _, v := range s.volunteers {
		if v.Email == email {
			return true
		}
	}
	for _, st := range s.staff {
		if st.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateVolunteer(_ context.Context, u *models.User, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateError != nil {
		return s.CreateError
	}
	if s.emailTakenLocked(v.Email) {
		return apperr.Conflict("email already in use")
	}
	s.insertUser(u)
	v.ID = s.id()
	v.UserID = u.ID
	v.CreatedAt = u.CreatedAt
	stored := *v
	stored.User = nil
	s.volunteers[v.ID] = stored
	return nil
}

func (s *MemoryStore) CreateStaff(_ context.Context, u *models.User, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateError != nil {
		return s.CreateError
	}
	if s.emailTakenLocked(st.Email) {
		return apperr.Conflict("email already in use")
	}
	s.insertUser(u)
	st.ID = s.id()
	st.UserID = u.ID
	st.CreatedAt = u.CreatedAt
	stored := *st
	stored.User = nil
	s.staff[st.ID] = stored
	return nil
}

func (s *MemoryStore) EmailTaken(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailTakenLocked(strings.ToLower(email)), nil
}

func (s *MemoryStore) FindParticipantByPhone(_ context.Context, phone string) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants {
		if p.Phone == phone {
			p.User = s.userCopy(p.UserID)
			return &p, nil
		}
	}
	return nil, apperr.NotFound("participant not found")
}

func (s *MemoryStore) FindVolunteerByEmail(_ context.Context, email string) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.volunteers {
		if v.Email == email {
			v.User = s.userCopy(v.UserID)
			return &v, nil
		}
	}
	return nil, apperr.NotFound("volunteer not found")
}

func (s *MemoryStore) FindStaffByEmail(_ context.Context, email string) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.staff {
		if st.Email == email {
			st.User = s.userCopy(st.UserID)
			return &st, nil
		}
	}
	return nil, apperr.NotFound("staff not found")
}

func (s *MemoryStore) ListParticipants(context.Context) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	out := make([]models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		p.User = s.userCopy(p.UserID)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetParticipant(_ context.Context, id uint) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return nil, apperr.NotFound("participant not found")
	}
	p.User = s.userCopy(p.UserID)
	return &p, nil
}

func (s *MemoryStore) UpdateParticipant(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[p.ID]; !ok {
		return apperr.NotFound("participant not found")
	}
	for id, other := range s.participants {
		if id != p.ID && other.Phone == p.Phone {
			return apperr.Conflict("phone number already registered")
		}
	}
	s.saveUserLocked(p.User)
	stored := *p
	stored.User = nil
	s.participants[p.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteParticipant(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[id]; !ok {
		return apperr.NotFound("participant not found")
	}
	s.deleteParticipantLocked(id)
	return nil
}

func (s *MemoryStore) deleteParticipantLocked(id uint) {
	delete(s.participants, id)
	for p := range s.regs[services.KindParticipant] {
		if p.registrant == id {
			delete(s.regs[services.KindParticipant], p)
		}
	}
}

func (s *MemoryStore) ListVolunteers(context.Context) ([]models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	out := make([]models.Volunteer, 0, len(s.volunteers))
	for _, v := range s.volunteers {
		v.User = s.userCopy(v.UserID)
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetVolunteer(_ context.Context, id uint) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volunteers[id]
	if !ok {
		return nil, apperr.NotFound("volunteer not found")
	}
	v.User = s.userCopy(v.UserID)
	return &v, nil
}

func (s *MemoryStore) UpdateVolunteer(_ context.Context, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[v.ID]; !ok {
		return apperr.NotFound("volunteer not found")
	}
	s.saveUserLocked(v.User)
	stored := *v
	stored.User = nil
	s.volunteers[v.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteVolunteer(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[id]; !ok {
		return apperr.NotFound("volunteer not found")
	}
	s.deleteVolunteerLocked(id)
	return nil
}

func (s *MemoryStore) deleteVolunteerLocked(id uint) {
	delete(s.volunteers, id)
	for p := range s.regs[services.KindVolunteer] {
		if p.registrant == id {
			delete(s.regs[services.KindVolunteer], p)
		}
	}
}

func (s *MemoryStore) ListStaff(context.Context) ([]models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	out := make([]models.Staff, 0, len(s.staff))
	for _, st := range s.staff {
		st.User = s.userCopy(st.UserID)
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetStaff(_ context.Context, id uint) (*models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.staff[id]
	if !ok {
		return nil, apperr.NotFound("staff not found")
	}
	st.User = s.userCopy(st.UserID)
	return &st, nil
}

func (s *MemoryStore) UpdateStaff(_ context.Context, st *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[st.ID]; !ok {
		return apperr.NotFound("staff not found")
	}
	s.saveUserLocked(st.User)
	stored := *st
	stored.User = nil
	s.staff[st.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteStaff(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[id]; !ok {
		return apperr.NotFound("staff not found")
	}
	delete(s.staff, id)
	return nil
}

func (s *MemoryStore) ListUsers(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userCopy(id)
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	s.saveUserLocked(u)
	return nil
}

func (s *MemoryStore) saveUserLocked(u *models.User) {
	if u == nil {
		return
	}
	stored := s.users[u.ID]
	stored.FullName = u.FullName
	stored.ImageURL = u.ImageURL
	stored.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = stored
}

func (s *MemoryStore) DeleteAccount(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return apperr.NotFound("user not found")
	}
	for id, p := range s.participants {
		if p.UserID == userID {
			s.deleteParticipantLocked(id)
		}
	}
	for id, v := range s.volunteers {
		if v.UserID == userID {
			s.deleteVolunteerLocked(id)
		}
	}
	for id, st := range s.staff {
		if st.UserID == userID {
			delete(s.staff, id)
		}
	}
	delete(s.users, userID)
	return nil
}

// Events

func (s *MemoryStore) CreateEvent(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateError != nil {
		return s.CreateError
	}
	now := time.Now().UTC()
	e.ID = s.id()
	e.CreatedAt, e.UpdatedAt = now, now
	s.events[e.ID] = *e
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id uint) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, apperr.NotFound("event not found")
	}
	return &e, nil
}

func (s *MemoryStore) ListEvents(_ context.Context, from *time.Time) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	out := []models.Event{}
	for _, e := range s.events {
		if from != nil && e.ScheduledAt.Before(*from) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

// UpdateEvent holds the store mutex across fn, like the row lock in Postgres.
func (s *MemoryStore) UpdateEvent(_ context.Context, id uint, fn func(e *models.Event, participants, volunteers int64) error) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, apperr.NotFound("event not found")
	}
	pc := int64(s.countLocked(services.KindParticipant, id))
	vc := int64(s.countLocked(services.KindVolunteer, id))
	if err := fn(&e, pc, vc); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.Now().UTC()
	s.events[id] = e
	return &e, nil
}

func (s *MemoryStore) DeleteEvent(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return apperr.NotFound("event not found")
	}
	delete(s.events, id)
	for _, regs := range s.regs {
		for p := range regs {
			if p.event == id {
				delete(regs, p)
			}
		}
	}
	return nil
}

func (s *MemoryStore) CountRegistrations(_ context.Context, eventID uint) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.countLocked(services.KindParticipant, eventID)),
		int64(s.countLocked(services.KindVolunteer, eventID)), nil
}

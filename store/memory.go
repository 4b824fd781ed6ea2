package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adirsaban8-oss/ADIRS/models"
)

// MemoryStore keeps everything in process memory behind one mutex. It
// backs the volatile OTP mode when Postgres is unreachable at startup,
// and the service tests.
type MemoryStore struct {
	mu sync.Mutex

	customers    map[uuid.UUID]*models.Customer
	appointments map[uuid.UUID]*models.Appointment
	otps         []*models.OTPCode
	reminders    map[string]bool
	blocked      map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:    make(map[uuid.UUID]*models.Customer),
		appointments: make(map[uuid.UUID]*models.Appointment),
		reminders:    make(map[string]bool),
		blocked:      make(map[string][]string),
	}
}

// ---------- customers ----------

func (m *MemoryStore) CreateCustomer(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.customers {
		if existing.Phone == c.Phone {
			return ErrDuplicatePhone
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MemoryStore) CustomerByPhone(phone string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.customers {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CustomerByID(id uuid.UUID) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) UpdateCustomer(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteCustomer(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	delete(m.customers, id)
	// Cascade, matching the FK behavior in Postgres.
	for aid, a := range m.appointments {
		if a.CustomerID == id {
			delete(m.appointments, aid)
		}
	}
	return nil
}

func (m *MemoryStore) ListCustomers(limit, offset int) ([]models.Customer, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginateCustomers(m.allCustomersNewestFirst(), limit, offset)
}

func (m *MemoryStore) SearchCustomers(term string, limit, offset int) ([]models.Customer, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lower := strings.ToLower(term)
	var matched []models.Customer
	for _, c := range m.allCustomersNewestFirst() {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(c.Phone, term) {
			matched = append(matched, c)
		}
	}
	return paginateCustomers(matched, limit, offset)
}

func (m *MemoryStore) allCustomersNewestFirst() []models.Customer {
	out := make([]models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func paginateCustomers(all []models.Customer, limit, offset int) ([]models.Customer, int64, error) {
	total := int64(len(all))
	if offset >= len(all) {
		return []models.Customer{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ---------- appointments ----------

func (m *MemoryStore) CreateBooked(a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := time.Duration(a.DurationMin) * time.Minute
	for _, existing := range m.appointments {
		if existing.Status != models.StatusActive {
			continue
		}
		if existing.CustomerID == a.CustomerID {
			return ErrActiveExists
		}
		if existing.Overlaps(a.StartTime, duration) {
			return ErrSlotTaken
		}
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = models.StatusActive
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *MemoryStore) AppointmentByID(id uuid.UUID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	if c, ok := m.customers[a.CustomerID]; ok {
		cp.Customer = *c
	}
	return &cp, nil
}

func (m *MemoryStore) UpdateAppointment(a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now()
	cp := *a
	cp.Customer = models.Customer{}
	m.appointments[a.ID] = &cp
	return nil
}

func (m *MemoryStore) SetGoogleEventID(id uuid.UUID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return ErrNotFound
	}
	a.GoogleEventID = eventID
	return nil
}

func (m *MemoryStore) ActiveFutureAppointment(customerID uuid.UUID, now time.Time) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *models.Appointment
	for _, a := range m.appointments {
		if a.CustomerID != customerID || a.Status != models.StatusActive || a.StartTime.Before(now) {
			continue
		}
		if best == nil || a.StartTime.Before(best.StartTime) {
			best = a
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *MemoryStore) ActiveAppointmentsBetween(from, to time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Appointment
	for _, a := range m.appointments {
		if a.Status != models.StatusActive {
			continue
		}
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		cp := *a
		if c, ok := m.customers[a.CustomerID]; ok {
			cp.Customer = *c
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *MemoryStore) FutureAppointmentsByCustomer(customerID uuid.UUID, now time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Appointment
	for _, a := range m.appointments {
		if a.CustomerID == customerID && a.Status == models.StatusActive && a.StartTime.After(now) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *MemoryStore) PastAppointmentsByCustomer(customerID uuid.UUID, now time.Time, limit int) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Appointment
	for _, a := range m.appointments {
		if a.CustomerID == customerID && !a.StartTime.After(now) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) ListAppointments(status models.AppointmentStatus, limit, offset int) ([]models.Appointment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []models.Appointment
	for _, a := range m.appointments {
		if status != "" && a.Status != status {
			continue
		}
		cp := *a
		if c, ok := m.customers[a.CustomerID]; ok {
			cp.Customer = *c
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.After(all[j].StartTime) })

	total := int64(len(all))
	if offset >= len(all) {
		return []models.Appointment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MemoryStore) CompleteElapsedAppointments(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var swept int64
	for _, a := range m.appointments {
		if a.Status == models.StatusActive && a.EndTime().Before(now) {
			a.Status = models.StatusCompleted
			a.UpdatedAt = now
			swept++
		}
	}
	return swept, nil
}

// ---------- otp ----------

func (m *MemoryStore) LatestOTP(phone string) (*models.OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.otps) - 1; i >= 0; i-- {
		if m.otps[i].Phone == phone && !m.otps[i].Verified {
			cp := *m.otps[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ReplaceOTP(code *models.OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.otps[:0]
	for _, o := range m.otps {
		if o.Phone != code.Phone {
			kept = append(kept, o)
		}
	}
	m.otps = kept

	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	code.CreatedAt = time.Now()
	cp := *code
	m.otps = append(m.otps, &cp)
	return nil
}

func (m *MemoryStore) UpdateOTP(code *models.OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, o := range m.otps {
		if o.ID == code.ID {
			cp := *code
			m.otps[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

// ---------- reminders ----------

func reminderKey(id uuid.UUID, kind models.ReminderKind) string {
	return id.String() + ":" + string(kind)
}

func (m *MemoryStore) ReminderSent(appointmentID uuid.UUID, kind models.ReminderKind) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminders[reminderKey(appointmentID, kind)], nil
}

func (m *MemoryStore) MarkReminderSent(appointmentID uuid.UUID, kind models.ReminderKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders[reminderKey(appointmentID, kind)] = true
	return nil
}

// ---------- blocked slots ----------

func (m *MemoryStore) BlockedTimes(date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	times := append([]string(nil), m.blocked[date]...)
	sort.Strings(times)
	return times, nil
}

func (m *MemoryStore) BlockSlot(date, timeStr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.blocked[date] {
		if t == timeStr {
			return nil
		}
	}
	m.blocked[date] = append(m.blocked[date], timeStr)
	return nil
}

func (m *MemoryStore) UnblockSlot(date, timeStr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.blocked[date][:0]
	for _, t := range m.blocked[date] {
		if t != timeStr {
			kept = append(kept, t)
		}
	}
	m.blocked[date] = kept
	return nil
}

func (m *MemoryStore) ClearBlockedSlots(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blocked, date)
	return nil
}

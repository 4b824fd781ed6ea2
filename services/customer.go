package services

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adirsaban8-oss/ADIRS/models"
	"github.com/adirsaban8-oss/ADIRS/store"
	"github.com/adirsaban8-oss/ADIRS/utils"
)

// CustomerDirectory creates and looks up customers keyed by normalized
// phone. The unique constraint on the phone column is the final arbiter
// under concurrent registration; this service only converts a lost race
// into the existing-customer path.
type CustomerDirectory struct {
	customers    store.CustomerStore
	appointments store.AppointmentStore

	now func() time.Time
}

func NewCustomerDirectory(customers store.CustomerStore, appointments store.AppointmentStore) *CustomerDirectory {
	return &CustomerDirectory{customers: customers, appointments: appointments, now: time.Now}
}

func (d *CustomerDirectory) FindByPhone(phone string) (*models.Customer, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, domainErr(CodeInvalidPhone, "not a valid phone number: %q", phone)
	}
	return d.customers.CustomerByPhone(normalized)
}

func (d *CustomerDirectory) FindByID(id uuid.UUID) (*models.Customer, error) {
	return d.customers.CustomerByID(id)
}

// Register is idempotent: a duplicate registration returns the existing
// customer with created=false rather than an error.
func (d *CustomerDirectory) Register(name, phone, email string) (*models.Customer, bool, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil || !utils.IsValidMobile(normalized) {
		return nil, false, domainErr(CodeInvalidPhone, "not a valid mobile number: %q", phone)
	}

	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, false, domainErr(CodeInvalidInput, "name is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return nil, false, domainErr(CodeInvalidInput, "invalid email address")
	}

	if existing, err := d.customers.CustomerByPhone(normalized); err == nil {
		return existing, false, nil
	}

	customer := &models.Customer{Name: name, Phone: normalized, Email: email}
	if err := d.customers.CreateCustomer(customer); err != nil {
		if err == store.ErrDuplicatePhone {
			// Lost the insert race; the other writer's row wins.
			existing, lookupErr := d.customers.CustomerByPhone(normalized)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	log.Printf("Created new customer: %s - %s", customer.ID, customer.Name)
	return customer, true, nil
}

func (d *CustomerDirectory) Update(id uuid.UUID, name, email string) (*models.Customer, error) {
	customer, err := d.customers.CustomerByID(id)
	if err != nil {
		return nil, domainErr(CodeCustomerNotFound, "customer %s not found", id)
	}

	if name = strings.TrimSpace(name); len(name) >= 2 {
		customer.Name = name
	}
	if email = strings.ToLower(strings.TrimSpace(email)); strings.Contains(email, "@") {
		customer.Email = email
	}

	if err := d.customers.UpdateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

type CustomerPage struct {
	Items []models.Customer `json:"customers"`
	Total int64             `json:"total"`
}

// Search does a case-insensitive partial match on name or phone,
// newest first, for admin browsing. Empty term lists everyone.
func (d *CustomerDirectory) Search(term string, limit, offset int) (*CustomerPage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		items []models.Customer
		total int64
		err   error
	)
	if term = strings.TrimSpace(term); term != "" {
		items, total, err = d.customers.SearchCustomers(term, limit, offset)
	} else {
		items, total, err = d.customers.ListCustomers(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return &CustomerPage{Items: items, Total: total}, nil
}

// Delete removes a customer. Unless force is set, a customer with
// future active appointments is protected; the caller gets the
// conflicting appointments to present.
func (d *CustomerDirectory) Delete(id uuid.UUID, force bool) ([]models.Appointment, error) {
	if _, err := d.customers.CustomerByID(id); err != nil {
		return nil, domainErr(CodeCustomerNotFound, "customer %s not found", id)
	}

	future, err := d.appointments.FutureAppointmentsByCustomer(id, d.now())
	if err != nil {
		return nil, err
	}
	if len(future) > 0 && !force {
		return future, domainErr(CodeActiveAppointmentExists, "customer has future appointments")
	}

	return nil, d.customers.DeleteCustomer(id)
}

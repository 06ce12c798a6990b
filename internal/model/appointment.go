package model

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Appointment is a booking of one doctor slot by one patient.
//
// PatientName, DoctorName and Department are snapshots taken at booking time
// and are intentionally not refreshed when the underlying doctor or
// department records change later. Date is ISO "YYYY-MM-DD"; its fixed width
// makes lexicographic comparison equivalent to chronological comparison.
type Appointment struct {
	ID            string            `json:"id"`
	PatientID     string            `json:"patient_id"`
	PatientName   string            `json:"patient_name"`
	DoctorID      string            `json:"doctor_id"`
	DoctorName    string            `json:"doctor_name"`
	Department    string            `json:"department"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Status        AppointmentStatus `json:"status"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Notes         string            `json:"notes,omitempty"`
}

// Active reports whether the appointment still occupies its slot. Cancelled
// bookings release the slot; every conflict check goes through this single
// predicate so the rule cannot diverge between call sites.
func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}

// BlocksDoctor reports whether this record makes the doctor's slot at
// date/time unavailable.
func (a *Appointment) BlocksDoctor(doctorID, date, t string) bool {
	return a.DoctorID == doctorID && a.Date == date && a.Time == t && a.Active()
}

// BlocksPatient reports whether this record already commits the patient at
// date/time, with any doctor.
func (a *Appointment) BlocksPatient(patientID, date, t string) bool {
	return a.PatientID == patientID && a.Date == date && a.Time == t && a.Active()
}

// BookingRequest is what the booking engine validates and turns into an
// Appointment. PatientID is stamped from the authenticated actor, not the
// request body.
type BookingRequest struct {
	DepartmentID  string        `json:"department_id" binding:"required"`
	DoctorID      string        `json:"doctor_id" binding:"required"`
	Date          string        `json:"date" binding:"required,datetime=2006-01-02"`
	Time          string        `json:"time" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required,oneof=card cash"`
	Notes         string        `json:"notes" binding:"max=1000"`
	PatientID     string        `json:"-"`
	PatientName   string        `json:"-"`
}

// AppointmentFilter selects a query view over the appointments collection.
type AppointmentFilter struct {
	PatientID string
	Doctor    string // matches DoctorID or DoctorName
	Date      string
	Today     bool
	Upcoming  bool
	Status    AppointmentStatus
}

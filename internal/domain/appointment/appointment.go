package appointment

import "time"

// State transitions:
//
//	pending → confirmed → completed
//	pending → cancelled
//	confirmed → cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Appointment struct {
	ID             string        `json:"id"`
	PatientName    string        `json:"patientName"`
	PatientEmail   string        `json:"patientEmail"`
	PatientPhone   string        `json:"patientPhone"`
	PatientID      string        `json:"patientId,omitempty"`
	PractitionerID string        `json:"practitionerId"`
	ServiceID      string        `json:"serviceId"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Status         Status        `json:"status"`
	Room           string        `json:"room"`
	Amount         float64       `json:"amount"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	TransactionID  string        `json:"transactionId,omitempty"`
	Notes          string        `json:"notes"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Holds reports whether the appointment still occupies its slot.
func (a *Appointment) Holds() bool {
	return a.Status != StatusCancelled
}

func (a *Appointment) At(date, clock string) bool {
	return a.Date == date && a.Time == clock
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	return nil
}

// MarkPaid records a successful payment and confirms the booking.
func (a *Appointment) MarkPaid(transactionID string) error {
	if a.PaymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	if !a.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusConfirmed
	a.PaymentStatus = PaymentPaid
	a.TransactionID = transactionID
	return nil
}

// MarkPaymentFailed leaves the booking status as is so the payment can be retried.
func (a *Appointment) MarkPaymentFailed() error {
	if a.PaymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	a.PaymentStatus = PaymentFailed
	return nil
}

type CreateAppointmentCommand struct {
	PatientName    string `json:"patientName"`
	PatientEmail   string `json:"patientEmail"`
	PatientPhone   string `json:"patientPhone"`
	PatientID      string `json:"patientId"`
	PractitionerID string `json:"practitionerId"`
	ServiceID      string `json:"serviceId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Notes          string `json:"notes"`
}

type UpdateAppointmentCommand struct {
	Notes *string `json:"notes"`
	Room  *string `json:"room"`
}

// PaymentResult is the outcome of a simulated payment.
type PaymentResult struct {
	Success       bool    `json:"success"`
	TransactionID string  `json:"transactionId,omitempty"`
	Amount        float64 `json:"amount"`
	Error         string  `json:"error,omitempty"`
}

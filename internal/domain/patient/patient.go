package patient

import "time"

// Constitution is the patient's Ayurvedic dosha type.
type Constitution string

const (
	ConstitutionVata  Constitution = "Vata"
	ConstitutionPitta Constitution = "Pitta"
	ConstitutionKapha Constitution = "Kapha"
	ConstitutionMixed Constitution = "Mixed"
)

func (c Constitution) IsValid() bool {
	switch c {
	case ConstitutionVata, ConstitutionPitta, ConstitutionKapha, ConstitutionMixed:
		return true
	}
	return false
}

// Status represents where the patient is in their treatment programme.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusPaused    Status = "Paused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Patient struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	DateOfBirth      string           `json:"dateOfBirth"`
	MedicalHistory   []string         `json:"medicalHistory"`
	Constitution     Constitution     `json:"constitution"`
	EnrollmentDate   string           `json:"enrollmentDate"`
	Status           Status           `json:"status"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// Apply merges the non-nil fields of cmd into p.
func (p *Patient) Apply(cmd *UpdatePatientCommand) error {
	if cmd.Constitution != nil && !cmd.Constitution.IsValid() {
		return ErrInvalidConstitution
	}
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return ErrInvalidStatus
	}

	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Email != nil {
		p.Email = *cmd.Email
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	if cmd.DateOfBirth != nil {
		p.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.MedicalHistory != nil {
		p.MedicalHistory = *cmd.MedicalHistory
	}
	if cmd.Constitution != nil {
		p.Constitution = *cmd.Constitution
	}
	if cmd.Status != nil {
		p.Status = *cmd.Status
	}
	if cmd.EmergencyContact != nil {
		p.EmergencyContact = *cmd.EmergencyContact
	}
	return nil
}

type CreatePatientCommand struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	DateOfBirth      string           `json:"dateOfBirth"`
	MedicalHistory   []string         `json:"medicalHistory"`
	Constitution     Constitution     `json:"constitution"`
	EnrollmentDate   string           `json:"enrollmentDate"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

type UpdatePatientCommand struct {
	Name             *string           `json:"name"`
	Email            *string           `json:"email"`
	Phone            *string           `json:"phone"`
	Address          *string           `json:"address"`
	DateOfBirth      *string           `json:"dateOfBirth"`
	MedicalHistory   *[]string         `json:"medicalHistory"`
	Constitution     *Constitution     `json:"constitution"`
	Status           *Status           `json:"status"`
	EmergencyContact *EmergencyContact `json:"emergencyContact"`
}

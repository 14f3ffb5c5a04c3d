// Package transport defines the request/response DTOs for the leads module.
package transport

// CreateLeadRequest is the prequalification form submission body.
// Email and phone are the only required fields.
type CreateLeadRequest struct {
	Name               *string `json:"name"`
	Email              string  `json:"email" validate:"required,email"`
	Phone              string  `json:"phone" validate:"required"`
	InterestType       *string `json:"interestType"`
	BusinessExperience *string `json:"businessExperience"`
	FinancialReadiness *string `json:"financialReadiness"`
	Timeline           *string `json:"timeline"`
	Commitment         *string `json:"commitment"`
	Seriousness        *string `json:"seriousness"`
	Source             *string `json:"source"`
	Language           string  `json:"language"`
}

// UpdateLeadRequest is a partial update; nil fields are left untouched.
type UpdateLeadRequest struct {
	Name               *string `json:"name"`
	Email              *string `json:"email" validate:"omitempty,email"`
	Phone              *string `json:"phone"`
	InterestType       *string `json:"interestType"`
	BusinessExperience *string `json:"businessExperience"`
	FinancialReadiness *string `json:"financialReadiness"`
	Timeline           *string `json:"timeline"`
	Commitment         *string `json:"commitment"`
	Seriousness        *string `json:"seriousness"`
	Source             *string `json:"source"`
	Language           *string `json:"language"`
}

// LeadResponse is the lead document as returned to callers. The id is also
// mirrored as leadId because outbound booking links embed it under that name.
type LeadResponse struct {
	ID                 string   `json:"id"`
	LeadID             string   `json:"leadId"`
	Name               *string  `json:"name,omitempty"`
	Email              string   `json:"email"`
	Phone              *string  `json:"phone,omitempty"`
	Language           string   `json:"language"`
	InterestType       *string  `json:"interestType,omitempty"`
	BusinessExperience *string  `json:"businessExperience,omitempty"`
	FinancialReadiness *string  `json:"financialReadiness,omitempty"`
	Timeline           *string  `json:"timeline,omitempty"`
	Commitment         *string  `json:"commitment,omitempty"`
	Seriousness        *string  `json:"seriousness,omitempty"`
	Source             *string  `json:"source,omitempty"`
	AppointmentBooked  bool     `json:"appointmentBooked"`
	CRMTags            []string `json:"crmTags"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// CreateLeadResponse is the creation acknowledgement.
type CreateLeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

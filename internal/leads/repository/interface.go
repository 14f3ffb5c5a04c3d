package repository

import (
	"context"

	"github.com/google/uuid"
)

// Lead is one prequalification record. Timestamps surface as RFC3339 strings.
type Lead struct {
	ID                 uuid.UUID `db:"id"`
	Name               *string   `db:"name"`
	Email              string    `db:"email"`
	Phone              *string   `db:"phone"`
	Language           string    `db:"language"`
	InterestType       *string   `db:"interest_type"`
	BusinessExperience *string   `db:"business_experience"`
	FinancialReadiness *string   `db:"financial_readiness"`
	Timeline           *string   `db:"timeline"`
	Commitment         *string   `db:"commitment"`
	Seriousness        *string   `db:"seriousness"`
	Source             *string   `db:"source"`
	AppointmentBooked  bool      `db:"appointment_booked"`
	CRMTags            []string  `db:"crm_tags"`
	CreatedAt          string    `db:"created_at"`
	UpdatedAt          string    `db:"updated_at"`
}

// CreateParams contains parameters for creating a lead. Email is expected to
// arrive already normalized (lower-cased, trimmed) from the service layer.
type CreateParams struct {
	Name               *string
	Email              string
	Phone              *string
	Language           string
	InterestType       *string
	BusinessExperience *string
	FinancialReadiness *string
	Timeline           *string
	Commitment         *string
	Seriousness        *string
	Source             *string
	CRMTags            []string
}

// UpdateParams contains parameters for a partial lead update. Nil fields are
// left untouched; updated_at is stamped regardless.
type UpdateParams struct {
	ID                 uuid.UUID
	Name               *string
	Email              *string
	Phone              *string
	Language           *string
	InterestType       *string
	BusinessExperience *string
	FinancialReadiness *string
	Timeline           *string
	Commitment         *string
	Seriousness        *string
	Source             *string
}

// LeadReader provides read operations over the lead collection.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	// FindByEmail resolves the most recent lead with the given normalized
	// email. Email is not unique at the store level; first match wins.
	FindByEmail(ctx context.Context, email string) (Lead, error)
}

// LeadWriter provides write operations over the lead collection.
type LeadWriter interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	Update(ctx context.Context, params UpdateParams) (Lead, error)
	// SetAppointmentBooked writes the booking flag. The write is idempotent:
	// re-applying the same value only refreshes updated_at.
	SetAppointmentBooked(ctx context.Context, id uuid.UUID, booked bool) (Lead, error)
}

// Repository combines all lead store operations.
type Repository interface {
	LeadReader
	LeadWriter
}

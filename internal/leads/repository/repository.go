package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadflow_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, name, email, phone, language, interest_type, business_experience,
	financial_readiness, timeline, commitment, seriousness, source,
	appointment_booked, crm_tags, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new lead with a store-assigned id.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (id, name, email, phone, language, interest_type, business_experience,
			financial_readiness, timeline, commitment, seriousness, source, crm_tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + leadColumns

	id := uuid.New()
	tags := params.CRMTags
	if tags == nil {
		tags = []string{}
	}

	row := r.pool.QueryRow(ctx, query,
		id, params.Name, params.Email, params.Phone, params.Language,
		params.InterestType, params.BusinessExperience, params.FinancialReadiness,
		params.Timeline, params.Commitment, params.Seriousness, params.Source, tags,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

// GetByID retrieves a lead by its id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}

// FindByEmail retrieves the most recent lead with the given email. The
// comparison is case-insensitive and trim-tolerant on the stored side.
func (r *Repo) FindByEmail(ctx context.Context, email string) (Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE lower(trim(email)) = $1
		ORDER BY created_at DESC
		LIMIT 1`

	normalized := strings.ToLower(strings.TrimSpace(email))

	lead, err := scanLead(r.pool.QueryRow(ctx, query, normalized))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("find lead by email: %w", err)
	}

	return lead, nil
}

// Update applies a partial update and stamps updated_at.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Lead, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{params.ID}

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	appendSet("name", params.Name)
	appendSet("email", params.Email)
	appendSet("phone", params.Phone)
	appendSet("language", params.Language)
	appendSet("interest_type", params.InterestType)
	appendSet("business_experience", params.BusinessExperience)
	appendSet("financial_readiness", params.FinancialReadiness)
	appendSet("timeline", params.Timeline)
	appendSet("commitment", params.Commitment)
	appendSet("seriousness", params.Seriousness)
	appendSet("source", params.Source)

	query := fmt.Sprintf(
		`UPDATE leads SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), leadColumns,
	)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}

	return lead, nil
}

// SetAppointmentBooked writes the booking flag and stamps updated_at.
func (r *Repo) SetAppointmentBooked(ctx context.Context, id uuid.UUID, booked bool) (Lead, error) {
	query := `
		UPDATE leads
		SET appointment_booked = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, booked))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("set appointment booked: %w", err)
	}

	return lead, nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Language,
		&lead.InterestType, &lead.BusinessExperience, &lead.FinancialReadiness,
		&lead.Timeline, &lead.Commitment, &lead.Seriousness, &lead.Source,
		&lead.AppointmentBooked, &lead.CRMTags, &createdAt, &updatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	lead.CreatedAt = createdAt.Format(time.RFC3339)
	lead.UpdatedAt = updatedAt.Format(time.RFC3339)

	return lead, nil
}

package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/tournament-auth/pkg/pg"
	"github.com/dmitrymomot/tournament-auth/pkg/tracing"
)

// DBTX is the query surface shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const columns = `id, role, display_name, first_name, last_name, phone, is_active,
	last_login, specialized_data, created_at, updated_at`

const (
	insertSQL = `INSERT INTO profiles
	(id, role, display_name, first_name, last_name, phone, is_active, specialized_data)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + columns

	selectByIDSQL = `SELECT ` + columns + ` FROM profiles WHERE id = $1`

	updateSQL = `UPDATE profiles SET
	display_name = COALESCE($2, display_name),
	first_name = COALESCE($3, first_name),
	last_name = COALESCE($4, last_name),
	phone = COALESCE($5, phone),
	specialized_data = specialized_data || COALESCE($6::jsonb, '{}'::jsonb),
	updated_at = NOW()
	WHERE id = $1
	RETURNING ` + columns

	touchLastLoginSQL = `UPDATE profiles SET last_login = $2 WHERE id = $1`
)

// Store reads and writes profile rows.
type Store struct {
	db     DBTX
	tracer trace.Tracer
}

func NewStore(db DBTX) *Store {
	return &Store{
		db:     db,
		tracer: tracing.Tracer("github.com/dmitrymomot/tournament-auth/svc/profile"),
	}
}

// Create inserts p and returns the stored row. A second profile for the same
// identity fails with the driver's duplicate key error.
func (s *Store) Create(ctx context.Context, p Profile) (_ *Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "profile.Create")
	defer func() { tracing.End(span, err) }()

	if !p.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, p.Role)
	}
	data := p.SpecializedData
	if data == nil {
		data = map[string]any{}
	}

	row := s.db.QueryRow(ctx, insertSQL,
		p.ID, p.Role, p.DisplayName, p.FirstName, p.LastName, p.Phone, p.IsActive, data,
	)
	created, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("profile: create: %w", err)
	}
	return created, nil
}

// FindByIdentityID loads the profile keyed by the identity id.
func (s *Store) FindByIdentityID(ctx context.Context, id uuid.UUID) (_ *Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "profile.FindByIdentityID")
	defer func() { tracing.End(span, err) }()

	p, err := scanProfile(s.db.QueryRow(ctx, selectByIDSQL, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: find: %w", err)
	}
	return p, nil
}

// Update applies patch and returns the row as stored afterwards. Zero
// affected rows is ErrNotFound.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch Patch) (_ *Profile, err error) {
	ctx, span := s.tracer.Start(ctx, "profile.Update")
	defer func() { tracing.End(span, err) }()

	// An untyped nil reaches the server as NULL; a nil map would be JSON null.
	var data any
	if len(patch.SpecializedData) > 0 {
		data = patch.SpecializedData
	}

	p, err := scanProfile(s.db.QueryRow(ctx, updateSQL,
		id, patch.DisplayName, patch.FirstName, patch.LastName, patch.Phone, data,
	))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: update: %w", err)
	}
	return p, nil
}

// TouchLastLogin stamps the last successful sign-in.
func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) (err error) {
	ctx, span := s.tracer.Start(ctx, "profile.TouchLastLogin")
	defer func() { tracing.End(span, err) }()

	tag, err := s.db.Exec(ctx, touchLastLoginSQL, id, at.UTC())
	if err != nil {
		return fmt.Errorf("profile: touch last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		p    Profile
		role string
	)
	if err := row.Scan(
		&p.ID,
		&role,
		&p.DisplayName,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.IsActive,
		&p.LastLogin,
		&p.SpecializedData,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Role = Role(role)
	if p.SpecializedData == nil {
		p.SpecializedData = map[string]any{}
	}
	return &p, nil
}

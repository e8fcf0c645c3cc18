package pg_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/pkg/pg"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("insert profile: %w", &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "profiles_pkey"`})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, pg.IsDuplicateKeyError(dup))
	assert.False(t, pg.IsDuplicateKeyError(fk))
	assert.False(t, pg.IsDuplicateKeyError(nil))

	assert.True(t, pg.IsForeignKeyViolationError(fk))
	assert.False(t, pg.IsForeignKeyViolationError(dup))

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("find: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))
	assert.False(t, pg.IsNotFoundError(nil))
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	ok := &mockPinger{}
	ok.On("Ping", mock.Anything).Return(nil)
	assert.NoError(t, pg.Healthcheck(ok)(context.Background()))

	down := &mockPinger{}
	down.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	err := pg.Healthcheck(down)(context.Background())
	assert.ErrorIs(t, err, pg.ErrHealthcheckFailed)
	assert.ErrorContains(t, err, "connection refused")
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}

func TestMigrate_RequiresSource(t *testing.T) {
	t.Parallel()

	err := pg.Migrate(context.Background(), nil, pg.Config{}, pg.Migrations{}, logger.Discard())
	assert.ErrorIs(t, err, pg.ErrMigrationsNotProvided)

	err = pg.Migrate(context.Background(), nil, pg.Config{}, pg.Migrations{FS: fstest.MapFS{}}, logger.Discard())
	assert.ErrorIs(t, err, pg.ErrFailedToApplyMigrations)
}

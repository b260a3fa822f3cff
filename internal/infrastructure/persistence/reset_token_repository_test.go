package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockResetTokenRepository creates a GormResetTokenRepository with a mocked SQL connection
func newMockResetTokenRepository(t *testing.T) (*GormResetTokenRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormResetTokenRepository(gormDB), mock, mockDB
}

func TestNewGormResetTokenRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormResetTokenRepository_Create(t *testing.T) {
	t.Run("creates token record", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		_, token, err := identity.GenerateResetToken(uuid.New())
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "reset_tokens"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.Create(context.Background(), token)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormResetTokenRepository_CreateWithEvents(t *testing.T) {
	t.Run("saves token and events in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		saver := &capturingOutboxSaver{}
		repo.SetOutboxEventSaver(saver)

		user, err := identity.NewUser("thandi", "thandi@example.com", "Passw0rd123", identity.RoleBuyer)
		require.NoError(t, err)

		plaintext, token, err := identity.GenerateResetToken(user.ID)
		require.NoError(t, err)

		events := []shared.DomainEvent{
			identity.NewPasswordResetRequestedEvent(user, plaintext, token.ExpiresAt),
		}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "reset_tokens"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = repo.CreateWithEvents(context.Background(), token, events)

		assert.NoError(t, err)
		assert.True(t, saver.gotTx)
		assert.Len(t, saver.events, 1)
		assert.Equal(t, identity.EventTypeUserPasswordResetRequested, saver.events[0].EventType())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when outbox save fails", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		saver := &capturingOutboxSaver{err: assert.AnError}
		repo.SetOutboxEventSaver(saver)

		user, err := identity.NewUser("thandi", "thandi@example.com", "Passw0rd123", identity.RoleBuyer)
		require.NoError(t, err)

		plaintext, token, err := identity.GenerateResetToken(user.ID)
		require.NoError(t, err)

		events := []shared.DomainEvent{
			identity.NewPasswordResetRequestedEvent(user, plaintext, token.ExpiresAt),
		}

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "reset_tokens"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectRollback()

		err = repo.CreateWithEvents(context.Background(), token, events)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save events to outbox")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormResetTokenRepository_FindByTokenHash(t *testing.T) {
	t.Run("finds token by digest", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		tokenID := uuid.New()
		userID := uuid.New()
		hash := identity.HashResetToken("some-plaintext-token")

		rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "used"}).
			AddRow(tokenID, userID, hash, time.Now().Add(identity.ResetTokenTTL), false)

		mock.ExpectQuery(`SELECT \* FROM "reset_tokens" WHERE token_hash = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(hash, 1).
			WillReturnRows(rows)

		token, err := repo.FindByTokenHash(context.Background(), hash)

		assert.NoError(t, err)
		assert.NotNil(t, token)
		assert.Equal(t, hash, token.TokenHash)
		assert.False(t, token.Used)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown digest", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		hash := identity.HashResetToken("unknown-token")

		mock.ExpectQuery(`SELECT \* FROM "reset_tokens" WHERE token_hash = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(hash, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		token, err := repo.FindByTokenHash(context.Background(), hash)

		assert.Error(t, err)
		assert.Nil(t, token)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormResetTokenRepository_Update(t *testing.T) {
	t.Run("persists consumed token", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		_, token, err := identity.GenerateResetToken(uuid.New())
		require.NoError(t, err)
		require.NoError(t, token.MarkUsed())

		mock.ExpectExec(`UPDATE "reset_tokens" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Update(context.Background(), token)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormResetTokenRepository_DeleteExpired(t *testing.T) {
	t.Run("deletes expired tokens and reports count", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		cutoff := time.Now()

		mock.ExpectExec(`DELETE FROM "reset_tokens" WHERE expires_at < \$1`).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := repo.DeleteExpired(context.Background(), cutoff)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports zero when nothing expired", func(t *testing.T) {
		repo, mock, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		cutoff := time.Now()

		mock.ExpectExec(`DELETE FROM "reset_tokens" WHERE expires_at < \$1`).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := repo.DeleteExpired(context.Background(), cutoff)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormResetTokenRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ResetTokenRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockResetTokenRepository(t)
		defer mockDB.Close()

		var _ identity.ResetTokenRepository = repo
	})
}

package salary_test

import (
	"context"
	"testing"

	"paytrack/internal/salary"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)
	return gdb, mock
}

func TestSalaryRepository_WithTx(t *testing.T) {
	t.Run("success writes execute on the caller's transaction", func(t *testing.T) {
		gdb, poolMock := newGormOverMock(t)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { txDB.Close() })

		id := uuid.New().String()
		txMock.ExpectBegin()
		txMock.ExpectExec(`DELETE FROM "salaries"`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		txMock.ExpectCommit()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		repo := salary.NewRepository(gdb).WithTx(tx)
		assert.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, tx.Commit())

		assert.NoError(t, txMock.ExpectationsWereMet())
		// Nothing may leak to the pool while the transaction is open.
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("success base repository keeps using the pool", func(t *testing.T) {
		gdb, poolMock := newGormOverMock(t)

		id := uuid.New().String()
		poolMock.ExpectBegin()
		poolMock.ExpectExec(`DELETE FROM "salaries"`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		poolMock.ExpectCommit()

		repo := salary.NewRepository(gdb)
		assert.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"crashwatch/src/database"
	"crashwatch/src/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newSQLiteRepo(t *testing.T, key string) *CrashSlotRepository {
	t.Helper()
	db, err := database.Open(database.Config{
		Driver:          "sqlite",
		DatabaseURLMain: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		GormLogLevel:    1,
	})
	require.NoError(t, err)
	return NewCrashSlotRepositoryWithDB(db, key)
}

func sampleReport(id, message string) *model.CrashReport {
	line := 42
	frame := model.StackFrame{FunctionName: "moveCard", FileName: "/srv/board/src/board/move.go", LineNumber: &line, Raw: "moveCard (/srv/board/src/board/move.go:42)"}
	return &model.CrashReport{
		ID:        id,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Name:      "TypeError",
		Message:   message,
		Stack:     []model.StackFrame{frame},
		Culprit:   model.Culprit{Frame: &frame, Reason: model.CulpritAppFrame},
		Context: model.CrashContext{
			Route:         "/boards/7",
			RecentConsole: []model.LogLine{{Level: model.LevelWarn, Text: "slow render"}},
		},
	}
}

func TestCrashSlotRepository_EmptySlot(t *testing.T) {
	repo := newSQLiteRepo(t, "board:lastCrash")

	report, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)

	require.NoError(t, repo.Clear(context.Background()))
}

func TestCrashSlotRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t, "board:lastCrash")

	require.NoError(t, repo.Save(ctx, sampleReport("1-a", "x is undefined")))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1-a", got.ID)
	assert.Equal(t, "x is undefined", got.Message)
	assert.Equal(t, model.CulpritAppFrame, got.Culprit.Reason)
	require.NotNil(t, got.Culprit.Frame.LineNumber)
	assert.Equal(t, 42, *got.Culprit.Frame.LineNumber)
	assert.Equal(t, "/boards/7", got.Context.Route)
	assert.Len(t, got.Context.RecentConsole, 1)
}

func TestCrashSlotRepository_OverwritesSingleSlot(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t, "board:lastCrash")

	require.NoError(t, repo.Save(ctx, sampleReport("1-a", "first")))
	require.NoError(t, repo.Save(ctx, sampleReport("2-b", "second")))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2-b", got.ID)
	assert.Equal(t, "second", got.Message)

	var count int64
	require.NoError(t, repo.db.Model(&model.CrashSlot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCrashSlotRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t, "board:lastCrash")

	require.NoError(t, repo.Save(ctx, sampleReport("1-a", "boom")))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCrashSlotRepository_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t, "board:lastCrash")
	other := NewCrashSlotRepositoryWithDB(repo.db, "admin:lastCrash")

	require.NoError(t, repo.Save(ctx, sampleReport("1-a", "board")))

	got, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "admin:lastCrash", other.Key())
}

func TestCrashSlotRepository_SaveNil(t *testing.T) {
	repo := newSQLiteRepo(t, "board:lastCrash")
	require.Error(t, repo.Save(context.Background(), nil))
}

func TestCrashSlotRepository_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t, "board:lastCrash")
	require.NoError(t, repo.db.Create(&model.CrashSlot{Key: "board:lastCrash", Payload: "{not json"}).Error)

	got, err := repo.Load(ctx)
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestCrashSlotRepository_DatabaseErrors(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewCrashSlotRepositoryWithDB(mockDB, "board:lastCrash")
	dbErr := errors.New("connection reset")

	t.Run("load", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "crash_slots" WHERE slot_key = $1 LIMIT $2`)).
			WithArgs("board:lastCrash", 1).
			WillReturnError(dbErr)

		got, err := repo.Load(context.Background())
		require.ErrorIs(t, err, dbErr)
		assert.Nil(t, got)
	})

	t.Run("load empty", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "crash_slots" WHERE slot_key = $1 LIMIT $2`)).
			WithArgs("board:lastCrash", 1).
			WillReturnRows(sqlmock.NewRows([]string{"slot_key", "payload", "report_id", "updated_at"}))

		got, err := repo.Load(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("save", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "crash_slots"`)).
			WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.Save(context.Background(), sampleReport("1-a", "boom"))
		require.ErrorIs(t, err, dbErr)
	})

	t.Run("clear", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "crash_slots" WHERE slot_key = $1`)).
			WithArgs("board:lastCrash").
			WillReturnError(dbErr)
		mock.ExpectRollback()

		require.ErrorIs(t, repo.Clear(context.Background()), dbErr)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"communityadmin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var regCols = []string{"id", "event_id", "user_id", "checked_in_at", "created_at", "updated_at"}

func TestEventRegistrationRepository_Create(t *testing.T) {
	const (
		lockQuery   = `SELECT capacity FROM events WHERE id = \$1 FOR UPDATE`
		countQuery  = `SELECT COUNT\(\*\) FROM event_registrations WHERE event_id = \$1`
		insertQuery = `INSERT INTO event_registrations \(event_id, user_id, created_at, updated_at\)`
	)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "unlimited capacity",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(nil))
				mock.ExpectQuery(insertQuery).
					WithArgs("ev-1", "user-1", testCreated, testCreated).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-1"))
				mock.ExpectCommit()
			},
			wantID: "reg-1",
		},
		{
			name: "seat left",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(int64(2)))
				mock.ExpectQuery(countQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
				mock.ExpectQuery(insertQuery).
					WithArgs("ev-1", "user-1", testCreated, testCreated).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-2"))
				mock.ExpectCommit()
			},
			wantID: "reg-2",
		},
		{
			name: "full",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(int64(2)))
				mock.ExpectQuery(countQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrEventFull,
		},
		{
			name: "already registered",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(nil))
				mock.ExpectQuery(insertQuery).
					WithArgs("ev-1", "user-1", testCreated, testCreated).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "unique violation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("ev-1").WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(nil))
				mock.ExpectQuery(insertQuery).WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "event missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockQuery).WithArgs("ev-1").WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			reg := domain.NewEventRegistration("ev-1", "user-1", testCreated, testCreated)
			err = NewEventRegistrationRepository(db).Create(context.Background(), reg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, reg.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRegistrationRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()
	checkedIn := time.Date(2025, 1, 10, 14, 5, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name          string
		mock          func(mock sqlmock.Sqlmock)
		wantCheckedIn bool
		wantErr       error
	}{
		{
			name: "checked in, read in a non-UTC session",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, user_id, checked_in_at, created_at, updated_at FROM event_registrations WHERE event_id = \$1 AND user_id = \$2`).
					WithArgs("ev-1", "user-1").
					WillReturnRows(sqlmock.NewRows(regCols).AddRow("reg-1", "ev-1", "user-1", checkedIn.In(est), testCreated.In(est), testCreated.In(est)))
			},
			wantCheckedIn: true,
		},
		{
			name: "not checked in",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM event_registrations WHERE event_id = \$1 AND user_id = \$2`).
					WithArgs("ev-1", "user-1").
					WillReturnRows(sqlmock.NewRows(regCols).AddRow("reg-1", "ev-1", "user-1", nil, testCreated, testCreated))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM event_registrations WHERE event_id = \$1 AND user_id = \$2`).
					WithArgs("ev-1", "user-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			reg, err := NewEventRegistrationRepository(db).GetByEventAndUser(ctx, "ev-1", "user-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "reg-1", reg.ID)
			require.Equal(t, testCreated, reg.CreatedAt)
			if tt.wantCheckedIn {
				require.NotNil(t, reg.CheckedInAt)
				require.Equal(t, checkedIn, *reg.CheckedInAt)
			} else {
				require.Nil(t, reg.CheckedInAt)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRegistrationRepository_Lists(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM event_registrations WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(regCols).
			AddRow("reg-2", "ev-2", "user-1", nil, testCreated, testCreated).
			AddRow("reg-1", "ev-1", "user-1", nil, testCreated, testCreated))
	mock.ExpectQuery(`FROM event_registrations WHERE event_id = \$1 ORDER BY created_at ASC`).
		WithArgs("ev-9").
		WillReturnRows(sqlmock.NewRows(regCols))

	repo := NewEventRegistrationRepository(db)
	byUser, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	require.Equal(t, "reg-2", byUser[0].ID)

	byEvent, err := repo.ListByEventID(ctx, "ev-9")
	require.NoError(t, err)
	require.NotNil(t, byEvent)
	require.Empty(t, byEvent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRegistrationRepository_CountByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_registrations WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := NewEventRegistrationRepository(db).CountByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Equal(t, 7, n)
}

func TestEventRegistrationRepository_MarkCheckedInAndDelete(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 10, 14, 5, 0, 0, time.UTC)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE event_registrations\s+SET checked_in_at = COALESCE\(checked_in_at, \$2\)`).
		WithArgs("reg-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE event_registrations`).
		WithArgs("missing", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM event_registrations WHERE id = \$1`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM event_registrations WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEventRegistrationRepository(db)
	require.NoError(t, repo.MarkCheckedIn(ctx, "reg-1", at))
	require.ErrorIs(t, repo.MarkCheckedIn(ctx, "missing", at), domain.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "reg-1"))
	require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance.service/internal/core/model"
)

func TestMonthlySettingRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT total_days, updated_at FROM monthly_settings").
		WithArgs(3, 2025).
		WillReturnRows(sqlmock.NewRows([]string{"total_days", "updated_at"}).AddRow(22, updated))

	repo := NewMonthlySettingRepository(db)
	setting, err := repo.GetMonthlySetting(context.Background(), 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, model.MonthlySetting{Month: 3, Year: 2025, TotalDays: 22, UpdatedAt: updated}, setting)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlySettingRepository_GetDefaultsWhenUnset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT total_days, updated_at FROM monthly_settings").
		WithArgs(4, 2026).
		WillReturnError(sql.ErrNoRows)

	setting, err := NewMonthlySettingRepository(db).GetMonthlySetting(context.Background(), 4, 2026)
	require.NoError(t, err)
	assert.Equal(t, 28, setting.TotalDays)
	assert.Equal(t, 4, setting.Month)
	assert.Equal(t, 2026, setting.Year)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlySettingRepository_GetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT total_days").WillReturnError(errors.New("connection reset"))

	_, err = NewMonthlySettingRepository(db).GetMonthlySetting(context.Background(), 4, 2026)
	assert.Error(t, err)
}

func TestMonthlySettingRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO monthly_settings").
		WithArgs(3, 2025, 21, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	saved, err := NewMonthlySettingRepository(db).UpsertMonthlySetting(context.Background(),
		model.MonthlySetting{Month: 3, Year: 2025, TotalDays: 21})
	require.NoError(t, err)
	assert.Equal(t, 21, saved.TotalDays)
	assert.Equal(t, updated, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

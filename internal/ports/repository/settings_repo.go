package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/internal/core/model"
)

// MonthlySettingRepository is the PostgreSQL implementation of SettingsRepository.
type MonthlySettingRepository struct {
	DB *sql.DB
}

// NewMonthlySettingRepository create new instance
func NewMonthlySettingRepository(db *sql.DB) *MonthlySettingRepository {
	return &MonthlySettingRepository{DB: db}
}

// GetMonthlySetting returns the setting of month/year, or the default of 28
// days when none was stored.
func (r *MonthlySettingRepository) GetMonthlySetting(ctx context.Context, month, year int) (model.MonthlySetting, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("app.month", month), attribute.Int("app.year", year))

	setting := model.MonthlySetting{Month: month, Year: year}
	query := `SELECT total_days, updated_at FROM monthly_settings WHERE month = $1 AND year = $2`

	err := r.DB.QueryRowContext(ctx, query, month, year).Scan(&setting.TotalDays, &setting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		setting.TotalDays = model.DefaultTotalDays
		return setting, nil
	}
	if err != nil {
		return model.MonthlySetting{}, err
	}
	return setting, nil
}

// UpsertMonthlySetting creates or replaces the setting of a month.
func (r *MonthlySettingRepository) UpsertMonthlySetting(ctx context.Context, setting model.MonthlySetting) (model.MonthlySetting, error) {
	query := `INSERT INTO monthly_settings (month, year, total_days, updated_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (month, year) DO UPDATE
              SET total_days = EXCLUDED.total_days,
                  updated_at = EXCLUDED.updated_at
              RETURNING updated_at`

	err := r.DB.QueryRowContext(ctx, query, setting.Month, setting.Year, setting.TotalDays, time.Now().UTC()).Scan(&setting.UpdatedAt)
	if err != nil {
		return model.MonthlySetting{}, err
	}
	return setting, nil
}

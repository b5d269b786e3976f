package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

const habitColumns = `id, user_id, name, description, category, start_date, target_days,
	daily_cost, current_streak, longest_streak, active, created_at, updated_at`

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.exec(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Name, habit.Description, string(habit.Category), habit.StartDate,
		nullInt(habit.TargetDays), nullFloat(habit.DailyCost), habit.CurrentStreak, habit.LongestStreak,
		habit.Active, formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt))
	return err
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.queryRow(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit %s", id)
	}
	return h, err
}

func (s *Store) GetHabitsForUser(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = ?"
	if !includeInactive {
		query += " AND active = ?"
	}
	query += " ORDER BY created_at, id"

	args := []any{userID}
	if !includeInactive {
		args = append(args, true)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	res, err := s.exec(ctx, `
		UPDATE habits SET
			name = ?, description = ?, category = ?, target_days = ?, daily_cost = ?,
			current_streak = ?, longest_streak = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		habit.Name, habit.Description, string(habit.Category), nullInt(habit.TargetDays),
		nullFloat(habit.DailyCost), habit.CurrentStreak, habit.LongestStreak, habit.Active,
		formatTime(habit.UpdatedAt), habit.ID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res, apperrors.NotFound("habit %s", habit.ID))
}

// DeleteHabit removes dependents explicitly so the cascade holds even on a
// connection opened without foreign key enforcement.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM achievements WHERE habit_id = ?",
		"DELETE FROM habit_entries WHERE habit_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, s.dialect.Rebind(q), id); err != nil {
			return fmt.Errorf("failed to delete habit dependents: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, s.dialect.Rebind("DELETE FROM habits WHERE id = ?"), id)
	if err != nil {
		return err
	}
	if err := rowsAffectedOrNotFound(res, apperrors.NotFound("habit %s", id)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) CountHabits(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM habits WHERE user_id = ?", userID)
}

func (s *Store) CountActiveHabits(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM habits WHERE user_id = ? AND active = ?", userID, true)
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, createdAt, updatedAt string
	var target sql.NullInt64
	var cost sql.NullFloat64

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &category, &h.StartDate, &target,
		&cost, &h.CurrentStreak, &h.LongestStreak, &h.Active, &createdAt, &updatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.HabitCategory(category)
	if target.Valid {
		v := int(target.Int64)
		h.TargetDays = &v
	}
	if cost.Valid {
		v := cost.Float64
		h.DailyCost = &v
	}
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

const entryColumns = "id, habit_id, user_id, day, successful, note, mood, created_at, updated_at"

// GetEntriesForHabit returns the habit's entries in ascending day order
func (s *Store) GetEntriesForHabit(ctx context.Context, habitID string) ([]models.HabitEntry, error) {
	rows, err := s.query(ctx, `
		SELECT `+entryColumns+`
		FROM habit_entries WHERE habit_id = ?
		ORDER BY day, created_at`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HabitEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetEntryForDay(ctx context.Context, habitID, day string) (models.HabitEntry, error) {
	row := s.queryRow(ctx, `
		SELECT `+entryColumns+`
		FROM habit_entries WHERE habit_id = ? AND day = ?`, habitID, day)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, apperrors.NotFound("entry for habit %s on %s", habitID, day)
	}
	return e, err
}

func (s *Store) UpsertEntry(ctx context.Context, entry models.HabitEntry) error {
	var mood sql.NullInt64
	if entry.Mood != nil {
		mood = sql.NullInt64{Int64: int64(*entry.Mood), Valid: true}
	}

	_, err := s.exec(ctx, `
		INSERT INTO habit_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			successful = excluded.successful,
			note = excluded.note,
			mood = excluded.mood,
			updated_at = excluded.updated_at`,
		entry.ID, entry.HabitID, entry.UserID, entry.Day, entry.Successful, entry.Note, mood,
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	return err
}

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var mood sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&e.ID, &e.HabitID, &e.UserID, &e.Day, &e.Successful, &e.Note, &mood, &createdAt, &updatedAt)
	if err != nil {
		return models.HabitEntry{}, err
	}

	if mood.Valid {
		m := models.MoodLevel(mood.Int64)
		e.Mood = &m
	}
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitEntry{}, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.HabitEntry{}, err
	}
	return e, nil
}

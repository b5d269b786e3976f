package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

const achievementColumns = "id, habit_id, user_id, type, unlocked_at, title, description, viewed"

func (s *Store) AchievementExists(ctx context.Context, userID, habitID string, t models.AchievementType) (bool, error) {
	n, err := s.count(ctx, `
		SELECT COUNT(*) FROM achievements
		WHERE user_id = ? AND COALESCE(habit_id, '') = ? AND type = ?`,
		userID, habitID, string(t))
	return n > 0, err
}

func (s *Store) CountHabitAchievements(ctx context.Context, habitID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM achievements WHERE habit_id = ?", habitID)
}

// InsertAchievements writes the batch in one transaction. The unique index on
// (user_id, habit_id, type) decides which rows land.
func (s *Store) InsertAchievements(ctx context.Context, batch []models.Achievement) ([]models.Achievement, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
		INSERT INTO achievements (`+achievementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var inserted []models.Achievement
	for _, a := range batch {
		res, err := stmt.ExecContext(ctx, a.ID, nullString(a.HabitID), a.UserID, string(a.Type),
			formatTime(a.UnlockedAt), a.Title, a.Description, a.Viewed)
		if err != nil {
			return nil, fmt.Errorf("failed to insert achievement %s: %w", a.Type, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			inserted = append(inserted, a)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (s *Store) GetAchievement(ctx context.Context, id string) (models.Achievement, error) {
	row := s.queryRow(ctx, "SELECT "+achievementColumns+" FROM achievements WHERE id = ?", id)
	a, err := scanAchievement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Achievement{}, apperrors.NotFound("achievement %s", id)
	}
	return a, err
}

// GetAchievementsForUser returns every achievement, newest first
func (s *Store) GetAchievementsForUser(ctx context.Context, userID string) ([]models.Achievement, error) {
	return s.listAchievements(ctx, `
		SELECT `+achievementColumns+` FROM achievements
		WHERE user_id = ? ORDER BY unlocked_at DESC, id`, userID)
}

func (s *Store) GetAchievementsForHabit(ctx context.Context, habitID string) ([]models.Achievement, error) {
	return s.listAchievements(ctx, `
		SELECT `+achievementColumns+` FROM achievements
		WHERE habit_id = ? ORDER BY unlocked_at DESC, id`, habitID)
}

func (s *Store) GetRecentAchievements(ctx context.Context, userID string, limit int) ([]models.Achievement, error) {
	return s.listAchievements(ctx, `
		SELECT `+achievementColumns+` FROM achievements
		WHERE user_id = ? ORDER BY unlocked_at DESC, id LIMIT ?`, userID, limit)
}

func (s *Store) GetAchievementsSince(ctx context.Context, userID string, since time.Time) ([]models.Achievement, error) {
	return s.listAchievements(ctx, `
		SELECT `+achievementColumns+` FROM achievements
		WHERE user_id = ? AND unlocked_at >= ? ORDER BY unlocked_at DESC, id`, userID, formatTime(since))
}

func (s *Store) MarkAchievementViewed(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "UPDATE achievements SET viewed = ? WHERE id = ?", true, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res, apperrors.NotFound("achievement %s", id))
}

func (s *Store) MarkAllAchievementsViewed(ctx context.Context, userID string) error {
	_, err := s.exec(ctx, "UPDATE achievements SET viewed = ? WHERE user_id = ? AND viewed = ?", true, userID, false)
	return err
}

func (s *Store) CountAchievements(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM achievements WHERE user_id = ?", userID)
}

func (s *Store) CountUnviewedAchievements(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM achievements WHERE user_id = ? AND viewed = ?", userID, false)
}

func (s *Store) listAchievements(ctx context.Context, query string, args ...any) ([]models.Achievement, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAchievement(row scanner) (models.Achievement, error) {
	var a models.Achievement
	var habitID sql.NullString
	var typ, unlockedAt string

	err := row.Scan(&a.ID, &habitID, &a.UserID, &typ, &unlockedAt, &a.Title, &a.Description, &a.Viewed)
	if err != nil {
		return models.Achievement{}, err
	}

	a.HabitID = habitID.String
	a.Type = models.AchievementType(typ)
	if a.UnlockedAt, err = parseTime("unlocked_at", unlockedAt); err != nil {
		return models.Achievement{}, err
	}
	return a, nil
}

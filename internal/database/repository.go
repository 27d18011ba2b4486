package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user and returns the stored row
func (r *Repository) CreateUser(email, fullName, hashedPassword string) (*User, error) {
	res, err := r.db.Exec(`
		INSERT INTO users (email, full_name, hashed_password)
		VALUES (?, ?, ?)
	`, email, fullName, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	return r.GetUserByID(id)
}

// GetUserByID returns a user by primary key, nil when absent
func (r *Repository) GetUserByID(id int64) (*User, error) {
	return r.scanUser(r.db.QueryRow(`
		SELECT id, email, full_name, hashed_password, is_active, created_at, updated_at
		FROM users WHERE id = ?
	`, id))
}

// GetUserByEmail returns a user by email, nil when absent
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	return r.scanUser(r.db.QueryRow(`
		SELECT id, email, full_name, hashed_password, is_active, created_at, updated_at
		FROM users WHERE email = ?
	`, email))
}

func (r *Repository) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// UpdateUser updates mutable profile fields
func (r *Repository) UpdateUser(id int64, fullName, email, hashedPassword *string) (*User, error) {
	user, err := r.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if fullName != nil {
		user.FullName = *fullName
	}
	if email != nil {
		user.Email = *email
	}
	if hashedPassword != nil {
		user.HashedPassword = *hashedPassword
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(`
		UPDATE users SET email = ?, full_name = ?, hashed_password = ?, updated_at = ?
		WHERE id = ?
	`, user.Email, user.FullName, user.HashedPassword, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.UpdatedAt = &now
	return user, nil
}

// DeleteUser removes a user; dependent rows are removed by ON DELETE CASCADE
func (r *Repository) DeleteUser(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

// UpsertEmergencyContact creates or replaces the user's emergency contact
func (r *Repository) UpsertEmergencyContact(userID int64, name, email string, relationship *string) (*EmergencyContact, error) {
	_, err := r.db.Exec(`
		INSERT INTO emergency_contacts (user_id, contact_name, contact_email, contact_relationship)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			contact_name = excluded.contact_name,
			contact_email = excluded.contact_email,
			contact_relationship = excluded.contact_relationship
	`, userID, name, email, relationship)
	if err != nil {
		return nil, fmt.Errorf("failed to save emergency contact: %w", err)
	}
	return r.GetEmergencyContact(userID)
}

// GetEmergencyContact returns the user's emergency contact, nil when absent
func (r *Repository) GetEmergencyContact(userID int64) (*EmergencyContact, error) {
	var c EmergencyContact
	err := r.db.QueryRow(`
		SELECT contact_id, user_id, contact_name, contact_email, contact_relationship, created_at
		FROM emergency_contacts WHERE user_id = ?
	`, userID).Scan(&c.ContactID, &c.UserID, &c.Name, &c.Email, &c.Relationship, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query emergency contact: %w", err)
	}
	return &c, nil
}

// DeleteEmergencyContact removes the user's emergency contact
func (r *Repository) DeleteEmergencyContact(userID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM emergency_contacts WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete emergency contact: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CreateMoodEntry inserts a mood journaling record
func (r *Repository) CreateMoodEntry(userID int64, moodType string, note *string) (*MoodEntry, error) {
	res, err := r.db.Exec(`
		INSERT INTO mood_entries (user_id, mood_type, note) VALUES (?, ?, ?)
	`, userID, moodType, note)
	if err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read mood entry id: %w", err)
	}

	var m MoodEntry
	err = r.db.QueryRow(`
		SELECT mood_id, user_id, mood_type, note, created_at
		FROM mood_entries WHERE mood_id = ?
	`, id).Scan(&m.MoodID, &m.UserID, &m.MoodType, &m.Note, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read back mood entry: %w", err)
	}
	return &m, nil
}

// ListMoodEntries returns mood entries for a user, newest first. days <= 0
// means no time filter, limit <= 0 means no limit.
func (r *Repository) ListMoodEntries(userID int64, days, limit int) ([]MoodEntry, error) {
	query := `
		SELECT mood_id, user_id, mood_type, note, created_at
		FROM mood_entries WHERE user_id = ?`
	args := []interface{}{userID}

	if days > 0 {
		query += ` AND created_at >= ?`
		args = append(args, time.Now().UTC().AddDate(0, 0, -days))
	}
	query += ` ORDER BY created_at DESC, mood_id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	var entries []MoodEntry
	for rows.Next() {
		var m MoodEntry
		if err := rows.Scan(&m.MoodID, &m.UserID, &m.MoodType, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

// CreateDepressionTest persists a submitted questionnaire
func (r *Repository) CreateDepressionTest(t *DepressionTest) (*DepressionTest, error) {
	res, err := r.db.Exec(`
		INSERT INTO depression_tests (
			user_id, mood, sleep_hour, appetite, exercise, screen_time,
			academic_work, socialize, energy_level, trouble_concentrating,
			negative_thoughts, decision_making, bothered_things,
			stressful_events, sleepy_tired, future_hope
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.UserID, t.Mood, t.SleepHour, t.Appetite, t.Exercise, t.ScreenTime,
		t.AcademicWork, t.Socialize, t.EnergyLevel, t.TroubleConcentrating,
		t.NegativeThoughts, t.DecisionMaking, t.BotheredThings,
		t.StressfulEvents, t.SleepyTired, t.FutureHope)
	if err != nil {
		return nil, fmt.Errorf("failed to create depression test: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read depression test id: %w", err)
	}
	return r.GetDepressionTestByID(id)
}

// GetDepressionTestByID returns a test by primary key, nil when absent
func (r *Repository) GetDepressionTestByID(id int64) (*DepressionTest, error) {
	var t DepressionTest
	err := r.db.QueryRow(`
		SELECT depression_test_id, user_id, mood, sleep_hour, appetite, exercise,
			screen_time, academic_work, socialize, energy_level,
			trouble_concentrating, negative_thoughts, decision_making,
			bothered_things, stressful_events, sleepy_tired, future_hope, created_at
		FROM depression_tests WHERE depression_test_id = ?
	`, id).Scan(
		&t.DepressionTestID, &t.UserID, &t.Mood, &t.SleepHour, &t.Appetite, &t.Exercise,
		&t.ScreenTime, &t.AcademicWork, &t.Socialize, &t.EnergyLevel,
		&t.TroubleConcentrating, &t.NegativeThoughts, &t.DecisionMaking,
		&t.BotheredThings, &t.StressfulEvents, &t.SleepyTired, &t.FutureHope, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query depression test: %w", err)
	}
	return &t, nil
}

// ListDepressionTests returns the user's questionnaires, newest first
func (r *Repository) ListDepressionTests(userID int64, offset, limit int) ([]DepressionTest, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT depression_test_id, user_id, mood, sleep_hour, appetite, exercise,
			screen_time, academic_work, socialize, energy_level,
			trouble_concentrating, negative_thoughts, decision_making,
			bothered_things, stressful_events, sleepy_tired, future_hope, created_at
		FROM depression_tests WHERE user_id = ?
		ORDER BY created_at DESC, depression_test_id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query depression tests: %w", err)
	}
	defer rows.Close()

	var tests []DepressionTest
	for rows.Next() {
		var t DepressionTest
		if err := rows.Scan(
			&t.DepressionTestID, &t.UserID, &t.Mood, &t.SleepHour, &t.Appetite, &t.Exercise,
			&t.ScreenTime, &t.AcademicWork, &t.Socialize, &t.EnergyLevel,
			&t.TroubleConcentrating, &t.NegativeThoughts, &t.DecisionMaking,
			&t.BotheredThings, &t.StressfulEvents, &t.SleepyTired, &t.FutureHope, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan depression test: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lumora-health/lumora-backend/internal/ml"
)

// CreateRiskResult appends a scored assessment. created_at is set by the
// database; risk results are never updated afterwards.
func (r *Repository) CreateRiskResult(userID int64, level ml.RiskLevel, score float64, depressionTestID *int64) (*RiskResult, error) {
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("risk score %v outside [0,1]", score)
	}

	res, err := r.db.Exec(`
		INSERT INTO risk_results (user_id, depression_test_id, risk_level, risk_score)
		VALUES (?, ?, ?, ?)
	`, userID, depressionTestID, string(level), score)
	if err != nil {
		return nil, fmt.Errorf("failed to create risk result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read risk result id: %w", err)
	}
	return r.GetRiskResultByID(id)
}

// GetRiskResultByID returns a risk result by primary key, nil when absent
func (r *Repository) GetRiskResultByID(id int64) (*RiskResult, error) {
	return scanRiskResult(r.db.QueryRow(`
		SELECT result_id, user_id, depression_test_id, risk_level, risk_score, created_at
		FROM risk_results WHERE result_id = ?
	`, id))
}

// LatestRiskResult returns the user's most recent risk result, nil when the
// user has none. created_at is the sole ordering key; the id breaks ties
// between same-second inserts.
func (r *Repository) LatestRiskResult(userID int64) (*RiskResult, error) {
	return scanRiskResult(r.db.QueryRow(`
		SELECT result_id, user_id, depression_test_id, risk_level, risk_score, created_at
		FROM risk_results WHERE user_id = ?
		ORDER BY created_at DESC, result_id DESC
		LIMIT 1
	`, userID))
}

// ListRiskResults returns the user's risk results, newest first. days <= 0
// means no window filter.
func (r *Repository) ListRiskResults(userID int64, days, offset, limit int) ([]RiskResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT result_id, user_id, depression_test_id, risk_level, risk_score, created_at
		FROM risk_results WHERE user_id = ?`
	args := []interface{}{userID}

	if days > 0 {
		query += ` AND created_at >= ?`
		args = append(args, time.Now().UTC().AddDate(0, 0, -days))
	}
	query += ` ORDER BY created_at DESC, result_id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk results: %w", err)
	}
	defer rows.Close()

	return collectRiskResults(rows)
}

// ListRiskResultsAscending returns all of the user's risk results in
// chronological order, for calendar-week aggregation.
func (r *Repository) ListRiskResultsAscending(userID int64) ([]RiskResult, error) {
	rows, err := r.db.Query(`
		SELECT result_id, user_id, depression_test_id, risk_level, risk_score, created_at
		FROM risk_results WHERE user_id = ?
		ORDER BY created_at ASC, result_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk results: %w", err)
	}
	defer rows.Close()

	return collectRiskResults(rows)
}

// RiskResultForTest returns the result produced from a given questionnaire,
// nil when the test has not been scored.
func (r *Repository) RiskResultForTest(depressionTestID int64) (*RiskResult, error) {
	return scanRiskResult(r.db.QueryRow(`
		SELECT result_id, user_id, depression_test_id, risk_level, risk_score, created_at
		FROM risk_results WHERE depression_test_id = ?
		ORDER BY created_at DESC, result_id DESC
		LIMIT 1
	`, depressionTestID))
}

func scanRiskResult(row *sql.Row) (*RiskResult, error) {
	var res RiskResult
	var level string
	err := row.Scan(&res.ResultID, &res.UserID, &res.DepressionTestID, &level, &res.RiskScore, &res.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan risk result: %w", err)
	}
	res.RiskLevel = ml.RiskLevel(level)
	return &res, nil
}

func collectRiskResults(rows *sql.Rows) ([]RiskResult, error) {
	var results []RiskResult
	for rows.Next() {
		var res RiskResult
		var level string
		if err := rows.Scan(&res.ResultID, &res.UserID, &res.DepressionTestID, &level, &res.RiskScore, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan risk result: %w", err)
		}
		res.RiskLevel = ml.RiskLevel(level)
		results = append(results, res)
	}
	return results, rows.Err()
}

package database

import (
	"database/sql"
	"fmt"
)

// CreateAlert persists a user-visible alert record
func (r *Repository) CreateAlert(userID int64, alertType, severity, message string) (*Alert, error) {
	res, err := r.db.Exec(`
		INSERT INTO alerts (user_id, alert_type, severity, message)
		VALUES (?, ?, ?, ?)
	`, userID, alertType, severity, message)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read alert id: %w", err)
	}
	return r.GetAlertByID(id, userID)
}

// GetAlertByID returns a user's alert by primary key, nil when absent
func (r *Repository) GetAlertByID(alertID, userID int64) (*Alert, error) {
	var a Alert
	err := r.db.QueryRow(`
		SELECT alert_id, user_id, alert_type, severity, message, is_read, email_sent, created_at
		FROM alerts WHERE alert_id = ? AND user_id = ?
	`, alertID, userID).Scan(&a.AlertID, &a.UserID, &a.AlertType, &a.Severity, &a.Message, &a.IsRead, &a.EmailSent, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query alert: %w", err)
	}
	return &a, nil
}

// ListAlerts returns a user's alerts, newest first
func (r *Repository) ListAlerts(userID int64, offset, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT alert_id, user_id, alert_type, severity, message, is_read, email_sent, created_at
		FROM alerts WHERE user_id = ?
		ORDER BY created_at DESC, alert_id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.AlertID, &a.UserID, &a.AlertType, &a.Severity, &a.Message, &a.IsRead, &a.EmailSent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkAlertRead marks an alert as read; returns false when the alert does not
// belong to the user
func (r *Repository) MarkAlertRead(alertID, userID int64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE alerts SET is_read = TRUE WHERE alert_id = ? AND user_id = ?
	`, alertID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark alert read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkAlertEmailSent records that the alert email was dispatched
func (r *Repository) MarkAlertEmailSent(alertID int64) error {
	_, err := r.db.Exec(`UPDATE alerts SET email_sent = TRUE WHERE alert_id = ?`, alertID)
	if err != nil {
		return fmt.Errorf("failed to mark alert email sent: %w", err)
	}
	return nil
}

// CreateNotification persists an in-app notification
func (r *Repository) CreateNotification(userID int64, notifType, title, message string) (*Notification, error) {
	res, err := r.db.Exec(`
		INSERT INTO notifications (user_id, type, title, message)
		VALUES (?, ?, ?, ?)
	`, userID, notifType, title, message)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read notification id: %w", err)
	}

	var n Notification
	err = r.db.QueryRow(`
		SELECT notification_id, user_id, type, title, message, is_read, created_at
		FROM notifications WHERE notification_id = ?
	`, id).Scan(&n.NotificationID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read back notification: %w", err)
	}
	return &n, nil
}

// ListNotifications returns a user's notifications, newest first.
// unreadOnly limits the result to unread ones.
func (r *Repository) ListNotifications(userID int64, unreadOnly bool, offset, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT notification_id, user_id, type, title, message, is_read, created_at
		FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC, notification_id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks one notification as read
func (r *Repository) MarkNotificationRead(notificationID, userID int64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE notifications SET is_read = TRUE WHERE notification_id = ? AND user_id = ?
	`, notificationID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkAllNotificationsRead marks every unread notification as read and
// returns how many were updated
func (r *Repository) MarkAllNotificationsRead(userID int64) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.RowsAffected()
}

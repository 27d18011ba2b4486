package database

import (
	"time"

	"github.com/lumora-health/lumora-backend/internal/ml"
)

// User represents a registered account
type User struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	FullName       string     `json:"full_name" db:"full_name"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// EmergencyContact is the single contact notified for high-risk alerts
type EmergencyContact struct {
	ContactID    int64     `json:"contact_id" db:"contact_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Name         string    `json:"contact_name" db:"contact_name"`
	Email        string    `json:"contact_email" db:"contact_email"`
	Relationship *string   `json:"contact_relationship,omitempty" db:"contact_relationship"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MoodEntry is one mood journaling record
type MoodEntry struct {
	MoodID    int64     `json:"mood_id" db:"mood_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	MoodType  string    `json:"mood_type" db:"mood_type"`
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DepressionTest is one submitted questionnaire, immutable once created
type DepressionTest struct {
	DepressionTestID     int64     `json:"depression_test_id" db:"depression_test_id"`
	UserID               int64     `json:"user_id" db:"user_id"`
	Mood                 *string   `json:"mood,omitempty" db:"mood"`
	SleepHour            *string   `json:"sleep_hour,omitempty" db:"sleep_hour"`
	Appetite             *string   `json:"appetite,omitempty" db:"appetite"`
	Exercise             *string   `json:"exercise,omitempty" db:"exercise"`
	ScreenTime           *string   `json:"screen_time,omitempty" db:"screen_time"`
	AcademicWork         *string   `json:"academic_work,omitempty" db:"academic_work"`
	Socialize            *string   `json:"socialize,omitempty" db:"socialize"`
	EnergyLevel          *int      `json:"energy_level,omitempty" db:"energy_level"`
	TroubleConcentrating *string   `json:"trouble_concentrating,omitempty" db:"trouble_concentrating"`
	NegativeThoughts     *string   `json:"negative_thoughts,omitempty" db:"negative_thoughts"`
	DecisionMaking       *string   `json:"decision_making,omitempty" db:"decision_making"`
	BotheredThings       *string   `json:"bothered_things,omitempty" db:"bothered_things"`
	StressfulEvents      *string   `json:"stressful_events,omitempty" db:"stressful_events"`
	SleepyTired          *string   `json:"sleepy_tired,omitempty" db:"sleepy_tired"`
	FutureHope           *string   `json:"future_hope,omitempty" db:"future_hope"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// Record converts the stored test into the scoring pipeline's input type
func (t *DepressionTest) Record() ml.QuestionnaireRecord {
	return ml.QuestionnaireRecord{
		Mood:                 t.Mood,
		SleepHour:            t.SleepHour,
		Appetite:             t.Appetite,
		Exercise:             t.Exercise,
		ScreenTime:           t.ScreenTime,
		AcademicWork:         t.AcademicWork,
		Socialize:            t.Socialize,
		EnergyLevel:          t.EnergyLevel,
		TroubleConcentrating: t.TroubleConcentrating,
		NegativeThoughts:     t.NegativeThoughts,
		DecisionMaking:       t.DecisionMaking,
		BotheredThings:       t.BotheredThings,
		StressfulEvents:      t.StressfulEvents,
		SleepyTired:          t.SleepyTired,
		FutureHope:           t.FutureHope,
	}
}

// RiskResult is a persisted scoring outcome. Rows are append-only and only
// removed by cascading user deletion.
type RiskResult struct {
	ResultID         int64        `json:"result_id" db:"result_id"`
	UserID           int64        `json:"user_id" db:"user_id"`
	DepressionTestID *int64       `json:"depression_test_id,omitempty" db:"depression_test_id"`
	RiskLevel        ml.RiskLevel `json:"risk_level" db:"risk_level"`
	RiskScore        float64      `json:"risk_score" db:"risk_score"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
}

// Alert is a user-visible record raised by the alert policy
type Alert struct {
	AlertID   int64     `json:"alert_id" db:"alert_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	AlertType string    `json:"alert_type" db:"alert_type"`
	Severity  string    `json:"severity" db:"severity"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	EmailSent bool      `json:"email_sent" db:"email_sent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Notification is an in-app notification
type Notification struct {
	NotificationID int64     `json:"notification_id" db:"notification_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Type           string    `json:"type" db:"type"`
	Title          string    `json:"title" db:"title"`
	Message        string    `json:"message" db:"message"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

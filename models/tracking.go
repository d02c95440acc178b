package models

import "time"

// UserSession is one tracked login session, stored as a document.
// Sessions are marked inactive on logout, never deleted.
type UserSession struct {
	SessionID    string    `json:"session_id" bson:"session_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Username     string    `json:"username" bson:"username"`
	IPAddress    string    `json:"ip_address" bson:"ip_address"`
	UserAgent    string    `json:"user_agent" bson:"user_agent"`
	LoginTime    time.Time `json:"login_time" bson:"login_time"`
	LastActivity time.Time `json:"last_activity" bson:"last_activity"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
}

// UserActivity is a single tracked action within a session.
type UserActivity struct {
	ActivityID string                 `json:"activity_id" bson:"activity_id"`
	SessionID  string                 `json:"session_id" bson:"session_id"`
	UserID     string                 `json:"user_id" bson:"user_id"`
	Action     string                 `json:"action" bson:"action"` // 'page_request', 'click', 'form_submit', ...
	PageURL    string                 `json:"page_url" bson:"page_url"`
	Element    string                 `json:"element,omitempty" bson:"element,omitempty"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata" bson:"metadata"`
}

// PageView is a page view sample with its measured load time, inserted
// into the columnar metrics store.
type PageView struct {
	ViewID     string    `json:"view_id"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	PageURL    string    `json:"page_url"`
	Referrer   string    `json:"referrer"`
	Timestamp  time.Time `json:"timestamp"`
	LoadTimeMs int64     `json:"load_time_ms"`
	DeviceType string    `json:"device_type"` // 'desktop', 'mobile', 'tablet'
	Browser    string    `json:"browser"`
}

// UserSettings is the per-user settings document.
type UserSettings struct {
	UserID    string                 `json:"user_id" bson:"user_id"`
	Settings  map[string]interface{} `json:"settings" bson:"settings"`
	UpdatedAt time.Time              `json:"updated_at" bson:"updated_at"`
}

type InteractionRequest struct {
	Type     string                 `json:"type" binding:"required"`
	Element  string                 `json:"element"`
	Metadata map[string]interface{} `json:"metadata"`
}

type PageTimeRequest struct {
	PageURL   string `json:"page_url" binding:"required"`
	TimeSpent int    `json:"time_spent"` // seconds
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"terravista/api/database"
	"terravista/api/models"
)

// SessionStore manages session, activity, and settings documents in the
// document store. Sessions are only ever marked inactive, never deleted.
type SessionStore struct {
	db *mongo.Database
}

func NewSessionStore(client *database.MongoClient) *SessionStore {
	return &SessionStore{db: client.DB}
}

// CreateSession opens a new tracking session for a logged-in user.
func (s *SessionStore) CreateSession(ctx context.Context, userID, username, ipAddress, userAgent string) (*models.UserSession, error) {
	now := time.Now()
	session := &models.UserSession{
		SessionID:    uuid.New().String(),
		UserID:       userID,
		Username:     username,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		LoginTime:    now,
		LastActivity: now,
		IsActive:     true,
	}

	_, err := s.db.Collection(database.CollUserSessions).InsertOne(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// TouchSession updates the last activity time for a session.
func (s *SessionStore) TouchSession(ctx context.Context, sessionID string) error {
	_, err := s.db.Collection(database.CollUserSessions).UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"last_activity": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}
	return nil
}

// EndSession marks a session inactive.
func (s *SessionStore) EndSession(ctx context.Context, sessionID string) error {
	_, err := s.db.Collection(database.CollUserSessions).UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false, "last_activity": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// ActiveSessions returns all currently active sessions.
func (s *SessionStore) ActiveSessions(ctx context.Context) ([]models.UserSession, error) {
	cursor, err := s.db.Collection(database.CollUserSessions).Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.UserSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode active sessions: %w", err)
	}
	return sessions, nil
}

// CountActiveSessions counts currently active sessions.
func (s *SessionStore) CountActiveSessions(ctx context.Context) (int, error) {
	n, err := s.db.Collection(database.CollUserSessions).CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return int(n), nil
}

// LogActivity appends one activity record for a session.
func (s *SessionStore) LogActivity(ctx context.Context, sessionID, userID, action, pageURL, element string, metadata map[string]interface{}) (*models.UserActivity, error) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	activity := &models.UserActivity{
		ActivityID: uuid.New().String(),
		SessionID:  sessionID,
		UserID:     userID,
		Action:     action,
		PageURL:    pageURL,
		Element:    element,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}

	_, err := s.db.Collection(database.CollUserActivities).InsertOne(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}
	return activity, nil
}

// GetSettings returns a user's settings document, or an empty one when none
// has been saved yet.
func (s *SessionStore) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Collection(database.CollUserSettings).FindOne(ctx, bson.M{"user_id": userID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return &models.UserSettings{UserID: userID, Settings: map[string]interface{}{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings upserts a user's settings document.
func (s *SessionStore) SaveSettings(ctx context.Context, userID string, values map[string]interface{}) error {
	_, err := s.db.Collection(database.CollUserSettings).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"settings": values, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

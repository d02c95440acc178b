package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@example.com", []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "created_at", "updated_at"}).
			AddRow(1, "alice", "alice@example.com", now, now))

	s := NewUserStore(db)
	user, err := s.CreateUser(context.Background(), "alice", "alice@example.com", []byte("hash"))
	require.NoError(t, err)

	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(assert.AnError)

	s := NewUserStore(db)
	_, err = s.CreateUser(context.Background(), "alice", "alice@example.com", []byte("hash"))
	assert.Error(t, err)
}

func TestGetUserByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "created_at", "updated_at"}).
			AddRow(7, "bob", "bob@example.com", []byte("hash"), now, now))

	s := NewUserStore(db)
	user, err := s.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, 7, user.ID)
	assert.Equal(t, []byte("hash"), user.HashedPassword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "created_at", "updated_at"}))

	s := NewUserStore(db)
	_, err = s.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "created_at", "updated_at"}))

	s := NewUserStore(db)
	_, err = s.GetUserByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

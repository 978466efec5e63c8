package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndListSessions(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &Session{
		Role:      RoleHost,
		Peer:      "192.168.1.20:50122",
		Transport: "tcp",
		StartedAt: base,
		EndedAt:   base.Add(90 * time.Second),
		Frames:    10,
		Bytes:     26,
		Outcome:   "eof",
	}
	second := &Session{
		Role:         RoleClient,
		Peer:         "192.168.1.30:58008",
		Transport:    "ws",
		StartedAt:    base.Add(time.Hour),
		EndedAt:      base.Add(time.Hour + time.Second),
		Frames:       1,
		Bytes:        3,
		Outcome:      "io_error",
		ErrorMessage: "write frame: broken pipe",
	}
	require.NoError(t, db.SaveSession(first))
	require.NoError(t, db.SaveSession(second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	got, err := db.RecentSessions(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, "write frame: broken pipe", got[0].ErrorMessage)
	assert.Equal(t, RoleClient, got[0].Role)

	assert.Equal(t, first.Peer, got[1].Peer)
	assert.Empty(t, got[1].ErrorMessage)
	assert.EqualValues(t, 26, got[1].Bytes)
	assert.Equal(t, 90*time.Second, got[1].Duration())

	n, err := db.CountSessions()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRecentSessionsLimit(t *testing.T) {
	db := openTestDB(t)
	start := time.Now()
	for i := 0; i < 5; i++ {
		s := &Session{
			Role:      RoleHost,
			Peer:      "127.0.0.1:1",
			Transport: "tcp",
			StartedAt: start.Add(time.Duration(i) * time.Minute),
			EndedAt:   start.Add(time.Duration(i)*time.Minute + time.Second),
			Outcome:   "closed",
		}
		require.NoError(t, db.SaveSession(s))
	}

	got, err := db.RecentSessions(3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(path)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, db.SaveSession(&Session{
		Role: RoleHost, Peer: "p", Transport: "tcp",
		StartedAt: now, EndedAt: now, Outcome: "eof",
	}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	n, err := db.CountSessions()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

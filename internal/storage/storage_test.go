package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/models"
)

func TestStorage_AddAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "guests.json")

	s, err := NewStorage(path)
	require.NoError(t, err)

	guest := &models.Guest{FirstName: "Anna", LastName: "Muster", Phone: "0170 1234567"}
	require.NoError(t, s.AddGuest(ctx, guest))
	assert.NotEmpty(t, guest.ID)
	assert.Equal(t, models.RSVPPending, guest.RSVPStatus)
	assert.Equal(t, models.SideBoth, guest.Side)

	reloaded, err := NewStorage(path)
	require.NoError(t, err)
	all, err := reloaded.GetAllGuests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, guest.ID, all[0].ID)
}

func TestStorage_AddGuestsWritesBatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "guests.json")
	s, err := NewStorage(path)
	require.NoError(t, err)

	batch := []models.Guest{{FirstName: "Anna"}, {FirstName: "Ben", RSVPStatus: models.RSVPConfirmed}}
	require.NoError(t, s.AddGuests(ctx, batch))
	assert.NotEmpty(t, batch[0].ID)
	assert.Equal(t, models.RSVPPending, batch[0].RSVPStatus)
	assert.Equal(t, models.RSVPConfirmed, batch[1].RSVPStatus)

	reloaded, err := NewStorage(path)
	require.NoError(t, err)
	all, err := reloaded.GetAllGuests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStorage_AddGuestsIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s, err := NewStorage(filepath.Join(blocker, "guests.json"))
	require.NoError(t, err)

	err = s.AddGuests(ctx, []models.Guest{{FirstName: "Anna"}, {FirstName: "Ben"}})
	require.Error(t, err)

	all, err := s.GetAllGuests(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStorage_UpdateKeepsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(filepath.Join(t.TempDir(), "guests.json"))
	require.NoError(t, err)

	guest := &models.Guest{FirstName: "Anna"}
	require.NoError(t, s.AddGuest(ctx, guest))
	created := guest.CreatedAt

	update := &models.Guest{ID: guest.ID, FirstName: "Anna-Lena", CreatedAt: created.Add(time.Hour)}
	require.NoError(t, s.AddGuest(ctx, update))

	got, err := s.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna-Lena", got.FirstName)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestStorage_PhoneLookupAndRSVP(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(filepath.Join(t.TempDir(), "guests.json"))
	require.NoError(t, err)

	guest := &models.Guest{FirstName: "Ben", Phone: "0170 1234567"}
	require.NoError(t, s.AddGuest(ctx, guest))

	found, err := s.GetGuestByPhone(ctx, "491701234567")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, found.ID)

	require.NoError(t, s.UpdateRSVP(ctx, guest.ID, models.RSVPConfirmed, "kommt mit Hund"))
	require.NoError(t, s.MarkInvited(ctx, guest.ID))

	confirmed, err := s.GetGuestsByStatus(ctx, models.RSVPConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "kommt mit Hund", confirmed[0].Notes)
	assert.NotNil(t, confirmed[0].RSVPDate)
	assert.NotNil(t, confirmed[0].InvitedAt)

	_, err = s.GetGuestByPhone(ctx, "+41 79 000 00 00")
	assert.ErrorIs(t, err, ErrGuestNotFound)
	assert.ErrorIs(t, s.UpdateRSVP(ctx, "missing", models.RSVPDeclined, ""), ErrGuestNotFound)
}

func TestFileKV(t *testing.T) {
	kv := NewFileKV(t.TempDir())

	val, err := kv.Get("wedding_form_progress:abc")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, kv.Set("wedding_form_progress:abc", []byte(`{"currentStep":2}`), 0))
	val, err = kv.Get("wedding_form_progress:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentStep":2}`, string(val))

	require.NoError(t, kv.Delete("wedding_form_progress:abc"))
	require.NoError(t, kv.Delete("wedding_form_progress:abc"))
	val, err = kv.Get("wedding_form_progress:abc")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMemoryKV_Expiry(t *testing.T) {
	kv := NewMemoryKV()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set("k", []byte("v"), time.Minute))
	val, _ := kv.Get("k")
	assert.Equal(t, []byte("v"), val)

	now = now.Add(2 * time.Minute)
	val, _ = kv.Get("k")
	assert.Nil(t, val)
}

func TestSubmissionLog(t *testing.T) {
	ctx := context.Background()
	log := NewSubmissionLog(filepath.Join(t.TempDir(), "submissions.json"))

	all, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, log.Submit(ctx, &models.Submission{ID: "a", LeadScore: models.LeadScore{TotalScore: 55}}))
	require.NoError(t, log.Submit(ctx, &models.Submission{ID: "b"}))

	all, err = log.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 55, all[0].LeadScore.TotalScore)
	assert.Equal(t, "b", all[1].ID)
}

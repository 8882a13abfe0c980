package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/protocol"
	servermodels "github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordRepo is an in-memory records.Repository with LWW semantics.
type fakeRecordRepo struct {
	rows      map[string]*servermodels.Record
	upsertErr error
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{rows: make(map[string]*servermodels.Record)}
}

func (f *fakeRecordRepo) Upsert(ctx context.Context, rec *servermodels.Record) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	if existing, ok := f.rows[rec.ID]; ok && !rec.UpdatedAt.After(existing.UpdatedAt.Time) {
		return false, nil
	}
	f.rows[rec.ID] = rec
	return true, nil
}

func (f *fakeRecordRepo) MarkDeleted(ctx context.Context, rec *servermodels.Record) error {
	f.rows[rec.ID] = rec
	return nil
}

func (f *fakeRecordRepo) UpdatedSince(ctx context.Context, accountID string, since *timex.Time, excludeDeviceID string) ([]*servermodels.Record, error) {
	var result []*servermodels.Record
	for _, row := range f.rows {
		if row.AccountID != accountID || row.DeviceID == excludeDeviceID {
			continue
		}
		if since != nil && !row.UpdatedAt.After(since.Time) {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

type fakeDeviceRepo struct {
	touched []string
	err     error
}

func (f *fakeDeviceRepo) Touch(ctx context.Context, accountID, deviceID string, now timex.Time) error {
	f.touched = append(f.touched, deviceID)
	return f.err
}

func (f *fakeDeviceRepo) ListByAccount(ctx context.Context, accountID string) ([]*servermodels.Device, error) {
	return nil, nil
}

func mustTime(t *testing.T, s string) timex.Time {
	t.Helper()
	v, err := timex.Parse(s)
	require.NoError(t, err)
	return v
}

func taskRecord(t *testing.T, id, title, updatedAt string) protocol.Record {
	t.Helper()
	return protocol.TaskRecord(&models.Task{
		ID: id, Title: title, Priority: models.PriorityMedium, ListID: "l1",
		CreatedAt: mustTime(t, updatedAt), UpdatedAt: mustTime(t, updatedAt),
	})
}

func newService() (*SyncService, *fakeRecordRepo, *fakeDeviceRepo) {
	recs := newFakeRecordRepo()
	devs := &fakeDeviceRepo{}
	return NewSyncService(recs, devs, logging.Discard()), recs, devs
}

func TestExchangeStoresPushAndTouchesDevice(t *testing.T) {
	svc, recs, devs := newService()

	resp, err := svc.Exchange(context.Background(), "acc", &protocol.Request{
		DeviceID: "dev-a",
		Changes:  []protocol.Record{taskRecord(t, "t1", "hello", "2024-01-01T10:00:00Z")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dev-a"}, devs.touched)
	assert.Empty(t, resp.Conflicts)
	assert.Empty(t, resp.Changes, "own writes are not echoed back")
	assert.False(t, resp.ServerTime.IsZero())

	row := recs.rows["t1"]
	require.NotNil(t, row)
	assert.Equal(t, models.RecordTask, row.RecordType)
	assert.Equal(t, "dev-a", row.DeviceID)

	var stored protocol.Record
	require.NoError(t, json.Unmarshal(row.Payload, &stored))
	assert.Equal(t, "hello", stored.Task.Title)
}

func TestExchangeReportsLWWLosersAsConflicts(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Exchange(ctx, "acc", &protocol.Request{
		DeviceID: "dev-a",
		Changes:  []protocol.Record{taskRecord(t, "t1", "newer", "2024-01-01T12:00:00Z")},
	})
	require.NoError(t, err)

	resp, err := svc.Exchange(ctx, "acc", &protocol.Request{
		DeviceID: "dev-b",
		Changes:  []protocol.Record{taskRecord(t, "t1", "older", "2024-01-01T11:00:00Z")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, resp.Conflicts)
}

func TestExchangePullsOtherDevicesChanges(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Exchange(ctx, "acc", &protocol.Request{
		DeviceID: "dev-a",
		Changes:  []protocol.Record{taskRecord(t, "t1", "from A", "2024-01-01T10:00:00Z")},
	})
	require.NoError(t, err)

	resp, err := svc.Exchange(ctx, "acc", &protocol.Request{DeviceID: "dev-b"})
	require.NoError(t, err)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, "t1", resp.Changes[0].ID())
	assert.Equal(t, "from A", resp.Changes[0].Task.Title)

	// Incremental pull past the record's timestamp returns nothing.
	later := mustTime(t, "2024-01-01T11:00:00Z")
	resp, err = svc.Exchange(ctx, "acc", &protocol.Request{DeviceID: "dev-b", LastSync: &later})
	require.NoError(t, err)
	assert.Empty(t, resp.Changes)
}

func TestExchangeDeletionBecomesTombstone(t *testing.T) {
	svc, recs, _ := newService()
	ctx := context.Background()

	_, err := svc.Exchange(ctx, "acc", &protocol.Request{
		DeviceID: "dev-a",
		Changes:  []protocol.Record{taskRecord(t, "t1", "doomed", "2024-01-01T10:00:00Z")},
	})
	require.NoError(t, err)

	deletedAt := mustTime(t, "2024-01-01T11:00:00Z")
	_, err = svc.Exchange(ctx, "acc", &protocol.Request{
		DeviceID: "dev-a",
		Changes: []protocol.Record{protocol.DeletedRecord(&models.Tombstone{
			ID: "t1", RecordType: models.RecordTask, DeletedAt: deletedAt,
		})},
	})
	require.NoError(t, err)

	row := recs.rows["t1"]
	require.NotNil(t, row)
	assert.True(t, row.Deleted)
	assert.True(t, row.UpdatedAt.Equal(deletedAt.Time), "tombstone orders by its deletion time")

	// Another device pulls the deletion as a wire tombstone.
	resp, err := svc.Exchange(ctx, "acc", &protocol.Request{DeviceID: "dev-b"})
	require.NoError(t, err)
	require.Len(t, resp.Changes, 1)
	require.Equal(t, protocol.TypeDeleted, resp.Changes[0].Type)
	assert.Equal(t, "t1", resp.Changes[0].Deleted.ID)
	assert.True(t, resp.Changes[0].Deleted.DeletedAt.Equal(deletedAt.Time))
}

func TestExchangeSkipsBadRecords(t *testing.T) {
	svc, recs, _ := newService()

	bad := protocol.Record{Type: protocol.TypeDeleted, Deleted: &protocol.Deletion{
		ID: "x", RecordType: "folder", DeletedAt: mustTime(t, "2024-01-01T10:00:00Z"),
	}}

	resp, err := svc.Exchange(context.Background(), "acc", &protocol.Request{
		DeviceID: "dev-a",
		Changes:  []protocol.Record{bad, taskRecord(t, "ok", "fine", "2024-01-01T10:00:00Z")},
	})
	require.NoError(t, err, "a bad record must not fail the exchange")
	assert.Empty(t, resp.Conflicts)
	assert.NotNil(t, recs.rows["ok"])
	assert.Nil(t, recs.rows["x"])
}

func TestExchangeDeviceErrorAborts(t *testing.T) {
	svc, _, devs := newService()
	devs.err = errors.New("db down")

	_, err := svc.Exchange(context.Background(), "acc", &protocol.Request{DeviceID: "dev-a"})
	assert.Error(t, err)
}

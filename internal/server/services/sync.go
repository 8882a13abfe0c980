// Package services implements the server half of a sync exchange.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/dmitrijs2005/tickit/internal/models"
	"github.com/dmitrijs2005/tickit/internal/protocol"
	servermodels "github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/server/repositories/devices"
	"github.com/dmitrijs2005/tickit/internal/server/repositories/records"
	"github.com/dmitrijs2005/tickit/internal/timex"
)

// SyncService merges a device's pushed changes into the account's record
// store and computes the records the device is missing.
type SyncService struct {
	recordRepo records.Repository
	deviceRepo devices.Repository
	log        logging.Logger
}

func NewSyncService(recordRepo records.Repository, deviceRepo devices.Repository, log logging.Logger) *SyncService {
	return &SyncService{recordRepo: recordRepo, deviceRepo: deviceRepo, log: log}
}

// Exchange handles one sync request for accountID. Incoming records merge
// last-write-wins; records that lose the comparison are reported back in
// conflicts. The pull excludes the calling device's own writes so a device
// never receives its own changes back. server_time is stamped after all
// writes, making it a safe upper bound for the client's next checkpoint.
func (s *SyncService) Exchange(ctx context.Context, accountID string, req *protocol.Request) (*protocol.Response, error) {
	if err := s.deviceRepo.Touch(ctx, accountID, req.DeviceID, timex.Now()); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	var conflicts []string
	for _, rec := range req.Changes {
		applied, err := s.applyRecord(ctx, accountID, req.DeviceID, rec)
		if err != nil {
			s.log.Warn(ctx, "skipping pushed record",
				"account_id", accountID, "device_id", req.DeviceID,
				"type", rec.Type, "id", rec.ID(), "error", err)
			continue
		}
		if !applied {
			conflicts = append(conflicts, rec.ID())
		}
	}

	stored, err := s.recordRepo.UpdatedSince(ctx, accountID, req.LastSync, req.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load changes: %w", err)
	}

	changes := make([]protocol.Record, 0, len(stored))
	for _, row := range stored {
		rec, err := decodeStored(row)
		if err != nil {
			s.log.Error(ctx, "corrupt stored record",
				"account_id", accountID, "id", row.ID, "error", err)
			continue
		}
		changes = append(changes, rec)
	}

	return &protocol.Response{
		ServerTime: timex.Now(),
		Changes:    changes,
		Conflicts:  conflicts,
	}, nil
}

// applyRecord stores one pushed record, reporting whether it won.
func (s *SyncService) applyRecord(ctx context.Context, accountID, deviceID string, rec protocol.Record) (bool, error) {
	if !rec.EntityType().Valid() {
		return false, fmt.Errorf("unknown record_type %q", rec.EntityType())
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("failed to encode record: %w", err)
	}

	row := &servermodels.Record{
		AccountID:  accountID,
		ID:         rec.ID(),
		RecordType: rec.EntityType(),
		Payload:    payload,
		UpdatedAt:  rec.Timestamp(),
		DeviceID:   deviceID,
	}

	if rec.Type == protocol.TypeDeleted {
		deletedAt := rec.Deleted.DeletedAt
		row.Deleted = true
		row.DeletedAt = &deletedAt
		if err := s.recordRepo.MarkDeleted(ctx, row); err != nil {
			return false, err
		}
		return true, nil
	}

	return s.recordRepo.Upsert(ctx, row)
}

// decodeStored turns a stored row back into its wire record. Tombstone rows
// rebuild the deletion envelope instead of trusting the payload, so the
// shape stays canonical even across schema changes.
func decodeStored(row *servermodels.Record) (protocol.Record, error) {
	if row.Deleted {
		if row.DeletedAt == nil {
			return protocol.Record{}, fmt.Errorf("tombstone without deleted_at")
		}
		return protocol.DeletedRecord(&models.Tombstone{
			ID:         row.ID,
			RecordType: row.RecordType,
			DeletedAt:  *row.DeletedAt,
		}), nil
	}

	var rec protocol.Record
	if err := json.Unmarshal(row.Payload, &rec); err != nil {
		return protocol.Record{}, err
	}
	return rec, nil
}

// Package dispatch persists finalized notes and their code rows to Postgres.
// A Store's Finalize method is the production finalize function.
package dispatch

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/notewizard/internal/db"
	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/normalize"
	embedsql "github.com/gyeh/notewizard/internal/sql"
)

// ErrAlreadyDispatched is returned when a note with identical clinical content
// was dispatched before and Force is off.
var ErrAlreadyDispatched = errors.New("note already dispatched")

const (
	statusPending    = "pending"
	statusDispatched = "dispatched"
)

// Store writes finalize requests to the wizard schema.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger

	// Force re-dispatches notes that were dispatched before, replacing their
	// code rows.
	Force bool
}

// NewStore returns a Store over pool.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// Finalize dispatches req and reports the result.
func (s *Store) Finalize(ctx context.Context, req *model.FinalizeRequest) (*model.FinalizeResult, error) {
	_, res, err := s.Dispatch(ctx, req)
	return res, err
}

// Dispatch registers the note, COPY-loads one row per code identifier and
// totals the billing lines, all in one transaction.
func (s *Store) Dispatch(ctx context.Context, req *model.FinalizeRequest) (*model.DispatchSummary, *model.FinalizeResult, error) {
	totalStart := time.Now()
	log := s.log.With().Str("request_id", req.RequestID.String()).Logger()

	hashStart := time.Now()
	sha := hex.EncodeToString(normalize.RequestHash(req))
	hashDur := time.Since(hashStart)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	insertStart := time.Now()
	dispatchID, err := s.registerNote(ctx, tx, req, sha)
	if err != nil {
		return nil, nil, err
	}
	insertDur := time.Since(insertStart)

	copyStart := time.Now()
	rows := CodeRows(dispatchID, req)
	written, err := copyCodes(ctx, tx, rows)
	if err != nil {
		return nil, nil, err
	}
	copyDur := time.Since(copyStart)

	var totals model.ReimbursementSummary
	var lines int64
	if err := tx.QueryRow(ctx, embedsql.NoteTotals, dispatchID).Scan(&lines, &totals.TotalCents, &totals.TotalRVU); err != nil {
		return nil, nil, fmt.Errorf("total billing lines: %w", err)
	}
	totals.LineCount = int(lines)

	if _, err := tx.Exec(ctx, embedsql.CompleteNote, dispatchID, statusDispatched, totals.TotalCents, totals.TotalRVU); err != nil {
		return nil, nil, fmt.Errorf("complete note: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit dispatch: %w", err)
	}

	summary := &model.DispatchSummary{
		RequestID:      req.RequestID.String(),
		DispatchID:     dispatchID,
		ContentSHA256:  sha,
		CodesWritten:   written,
		DurationHash:   hashDur,
		DurationInsert: insertDur,
		DurationCopy:   copyDur,
		DurationTotal:  time.Since(totalStart),
	}
	log.Info().
		Int64("dispatch_id", dispatchID).
		Int64("codes", written).
		Int64("total_cents", totals.TotalCents).
		Dur("duration", summary.DurationTotal).
		Msg("note dispatched")

	return summary, Result(req, totals), nil
}

// registerNote inserts the note row, or claims the existing row for the same
// content when it was never completed or Force is set.
func (s *Store) registerNote(ctx context.Context, tx pgx.Tx, req *model.FinalizeRequest, sha string) (int64, error) {
	var patientHash *string
	if h := logging.HashPHI(req.Patient.PatientID); h != "" {
		patientHash = &h
	}
	var encounter *time.Time
	if d, ok := normalize.ParseDate(req.Patient.EncounterDate); ok {
		encounter = &d
	}
	compliance := req.Compliance
	if compliance == nil {
		compliance = []string{}
	}

	var dispatchID int64
	err := tx.QueryRow(ctx, embedsql.RegisterNote,
		req.RequestID, sha, patientHash, encounter, req.Content, compliance,
	).Scan(&dispatchID)
	if err == nil {
		return dispatchID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("register note: %w", err)
	}

	// ON CONFLICT DO NOTHING returned no row: the content was seen before.
	var status string
	if err := tx.QueryRow(ctx, embedsql.LookupNote, sha).Scan(&dispatchID, &status); err != nil {
		return 0, fmt.Errorf("lookup existing note: %w", err)
	}
	if status == statusDispatched && !s.Force {
		return 0, fmt.Errorf("dispatch %d: %w", dispatchID, ErrAlreadyDispatched)
	}

	s.log.Warn().Int64("dispatch_id", dispatchID).Str("status", status).Msg("re-dispatching existing note")
	if _, err := tx.Exec(ctx, embedsql.ResetNote, dispatchID, req.RequestID); err != nil {
		return 0, fmt.Errorf("reset note: %w", err)
	}
	if _, err := tx.Exec(ctx, embedsql.DeleteNoteCodes, dispatchID); err != nil {
		return 0, fmt.Errorf("delete previous codes: %w", err)
	}
	return dispatchID, nil
}

// CodeRows builds one row per distinct identifier in code-set order, carrying
// the billing figures of the matching billing line.
func CodeRows(dispatchID int64, req *model.FinalizeRequest) []*model.DispatchCodeRow {
	billing := make(map[string]model.BillingLine, len(req.Billing))
	for _, b := range req.Billing {
		if _, ok := billing[b.Identifier]; !ok {
			billing[b.Identifier] = b
		}
	}

	ids := req.Codes.All()
	rows := make([]*model.DispatchCodeRow, 0, len(ids))
	for i, id := range ids {
		cs := req.Codes.ClassificationsOf(id)
		row := &model.DispatchCodeRow{
			DispatchID:     dispatchID,
			RequestID:      req.RequestID,
			Position:       int32(i),
			Identifier:     id,
			IsCode:         cs.Has(model.ClassCode),
			IsPrevention:   cs.Has(model.ClassPrevention),
			IsDiagnosis:    cs.Has(model.ClassDiagnosis),
			IsDifferential: cs.Has(model.ClassDifferential),
		}
		if b, ok := billing[id]; ok {
			if ct := strings.TrimSpace(b.CodeType); ct != "" {
				row.CodeType = &ct
			}
			row.ReimbursementCents = b.ReimbursementCents
			row.RVU = b.RVU
		}
		rows = append(rows, row)
	}
	return rows
}

// copyCodes streams rows into wizard.dispatched_codes through a channel-backed
// COPY source.
func copyCodes(ctx context.Context, tx pgx.Tx, rows []*model.DispatchCodeRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ch := make(chan *model.DispatchCodeRow)
	done := make(chan struct{})
	go func() {
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"wizard", "dispatched_codes"},
		model.DispatchCodeColumns(),
		db.NewChannelSource(ctx, ch),
	)
	close(done)
	if err != nil {
		return 0, fmt.Errorf("copy codes: %w", err)
	}
	return n, nil
}

// Result is the finalize result reported for a dispatched request.
func Result(req *model.FinalizeRequest, totals model.ReimbursementSummary) *model.FinalizeResult {
	ids := req.Codes.All()
	summary := make([]model.CodeSummaryEntry, 0, len(ids))
	for _, id := range ids {
		summary = append(summary, model.CodeSummaryEntry{Code: id, Classifications: req.Codes.ClassificationsOf(id)})
	}
	return &model.FinalizeResult{
		RequestID:        req.RequestID.String(),
		FinalizedContent: strings.TrimSpace(req.Content),
		CodeSummary:      summary,
		Reimbursement:    totals,
		ExportReady:      true,
		Issues:           map[string][]string{},
	}
}

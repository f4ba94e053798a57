package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/notewizard/internal/db"
	"github.com/gyeh/notewizard/internal/dispatch"
	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/model"
)

const (
	testPort     = 15433
	testDB       = "wizardtest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	if os.Getenv("NOTEWIZARD_PG_TESTS") != "1" {
		fmt.Fprintln(os.Stderr, "SKIP: set NOTEWIZARD_PG_TESTS=1 to run dispatch integration tests")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB creates a connection pool on a freshly migrated schema.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN, 4, 1)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS wizard CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	log := logging.Setup("text")
	if _, err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func sampleInput() finalize.Input {
	reimb := 92.5
	rvu := 1.3
	return finalize.Input{
		Selected: []model.NormalizedCodeItem{
			{Code: "I25.10", CodeType: "ICD-10", Classifications: model.NewClassificationSet(model.ClassDiagnosis)},
		},
		Suggested: []model.NormalizedCodeItem{
			{
				Code:            "99213",
				CodeType:        "CPT",
				Classifications: model.NewClassificationSet(model.ClassCode),
				Reimbursement:   &reimb,
				RVU:             &rvu,
			},
		},
		Compliance: []model.NormalizedComplianceItem{{ID: 1, Title: "Attestation"}},
		Content:    "Chest pain for 2 days.",
		Patient:    model.PatientMetadata{PatientID: "MRN-1", EncounterDate: "2026-03-01"},
	}
}

func TestDispatch_WritesNoteAndCodes(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	store := dispatch.NewStore(pool, logging.Setup("text"))

	req := finalize.BuildRequest(sampleInput())
	summary, res, err := store.Dispatch(ctx, req)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary.CodesWritten != 2 {
		t.Errorf("CodesWritten = %d, want 2", summary.CodesWritten)
	}
	if res.Reimbursement.TotalCents != 9250 || res.Reimbursement.LineCount != 1 {
		t.Errorf("Reimbursement = %+v", res.Reimbursement)
	}

	var status, patientHash string
	err = pool.QueryRow(ctx,
		"SELECT status, patient_hash FROM wizard.finalized_notes WHERE dispatch_id = $1",
		summary.DispatchID).Scan(&status, &patientHash)
	if err != nil {
		t.Fatalf("query note: %v", err)
	}
	if status != "dispatched" {
		t.Errorf("status = %q", status)
	}
	if patientHash != logging.HashPHI("MRN-1") {
		t.Errorf("patient hash = %q", patientHash)
	}

	var codes int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM wizard.dispatched_codes WHERE is_code").Scan(&codes); err != nil {
		t.Fatalf("query codes: %v", err)
	}
	if codes != 1 {
		t.Errorf("procedure rows = %d, want 1", codes)
	}
}

func TestDispatch_Idempotent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	store := dispatch.NewStore(pool, logging.Setup("text"))

	if _, err := store.Finalize(ctx, finalize.BuildRequest(sampleInput())); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	_, err := store.Finalize(ctx, finalize.BuildRequest(sampleInput()))
	if !errors.Is(err, dispatch.ErrAlreadyDispatched) {
		t.Fatalf("second dispatch err = %v, want ErrAlreadyDispatched", err)
	}

	store.Force = true
	summary, _, err := store.Dispatch(ctx, finalize.BuildRequest(sampleInput()))
	if err != nil {
		t.Fatalf("forced dispatch: %v", err)
	}

	var rows int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM wizard.dispatched_codes WHERE dispatch_id = $1", summary.DispatchID).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows after forced re-dispatch = %d, want 2", rows)
	}
}

func TestOrchestrator_WithStore(t *testing.T) {
	pool := setupDB(t)
	store := dispatch.NewStore(pool, logging.Setup("text"))
	o := finalize.New(store.Finalize, logging.Setup("text"))

	if _, err := o.Finalize(context.Background(), sampleInput()); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if _, err := o.Finalize(context.Background(), sampleInput()); err == nil {
		t.Fatal("expected duplicate dispatch to fail")
	}
	st := o.Status()
	if st.State != model.FinalizeFailed || st.Error == "" {
		t.Errorf("status = %+v", st)
	}
}

func TestApplyMigrations_SkipsApplied(t *testing.T) {
	pool := setupDB(t)

	n, err := db.ApplyMigrations(context.Background(), pool, logging.Setup("text"))
	if err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
	if n != 0 {
		t.Errorf("second run applied %d migrations, want 0", n)
	}
}

package model

import "github.com/google/uuid"

// DispatchCodeRow is one finalized code identifier as written to
// wizard.dispatched_codes. Money is stored as int64 cents.
type DispatchCodeRow struct {
	DispatchID         int64
	RequestID          uuid.UUID
	Position           int32
	Identifier         string
	CodeType           *string
	IsCode             bool
	IsPrevention       bool
	IsDiagnosis        bool
	IsDifferential     bool
	ReimbursementCents *int64
	RVU                *float64
}

// DispatchCodeColumns returns the ordered column names for COPY into wizard.dispatched_codes.
func DispatchCodeColumns() []string {
	return []string{
		"dispatch_id",
		"request_id",
		"position",
		"identifier",
		"code_type",
		"is_code",
		"is_prevention",
		"is_diagnosis",
		"is_differential",
		"reimbursement_cents",
		"rvu",
	}
}

// CopyValues returns the row values in the same order as DispatchCodeColumns(),
// suitable for pgx CopyFromSource.
func (r *DispatchCodeRow) CopyValues() []any {
	return []any{
		r.DispatchID,
		r.RequestID,
		r.Position,
		r.Identifier,
		r.CodeType,
		r.IsCode,
		r.IsPrevention,
		r.IsDiagnosis,
		r.IsDifferential,
		r.ReimbursementCents,
		r.RVU,
	}
}

// Classifications rebuilds the set from the row's flag columns.
func (r *DispatchCodeRow) Classifications() ClassificationSet {
	var cs ClassificationSet
	if r.IsCode {
		cs = cs.Add(ClassCode)
	}
	if r.IsPrevention {
		cs = cs.Add(ClassPrevention)
	}
	if r.IsDiagnosis {
		cs = cs.Add(ClassDiagnosis)
	}
	if r.IsDifferential {
		cs = cs.Add(ClassDifferential)
	}
	return cs
}

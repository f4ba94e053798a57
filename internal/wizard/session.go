// Package wizard holds the state of one note-finalization wizard: raw inputs,
// the normalized model and everything derived from it.
package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/notewizard/internal/content"
	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/highlight"
	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/navigation"
	"github.com/gyeh/notewizard/internal/normalize"
	"github.com/gyeh/notewizard/internal/questions"
	"github.com/gyeh/notewizard/internal/steps"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithClock sets the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithListener registers a stage-change listener. It runs after the session
// lock is released, so it may call back into the session.
func WithListener(l navigation.Listener) Option {
	return func(s *Session) { s.listener = l }
}

// Session is safe for concurrent use.
type Session struct {
	id       uuid.UUID
	log      zerolog.Logger
	now      func() time.Time
	listener navigation.Listener
	orch     *finalize.Orchestrator

	// afterSnapshot runs between building a finalize request and sending it.
	afterSnapshot func()

	mu         sync.Mutex
	raw        Input
	selected   []model.NormalizedCodeItem
	suggested  []model.NormalizedCodeItem
	compliance []model.NormalizedComplianceItem
	note       string
	cursor     int
	overrides  map[int]model.StageOverride

	nav       *navigation.Controller
	questions []model.PatientQuestion
	evidence  bool
	selection *ItemRef
	pending   []stageChange
}

// ItemRef names a code item by the list it belongs to and its id there. Ids
// are only unique within one list.
type ItemRef struct {
	List model.StepType `json:"list"`
	ID   int            `json:"id"`
}

type stageChange struct {
	id    int
	stage model.StageDefinition
}

// New opens a session over in. fn receives finalize requests; nil means
// finalize always succeeds with the default result.
func New(in Input, fn finalize.Func, opts ...Option) *Session {
	s := &Session{
		id:  uuid.New(),
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session_id", s.id.String()).Logger()
	s.orch = finalize.New(fn, s.log)

	s.raw = in
	s.overrides = copyOverrides(in.Overrides)
	s.normalize()
	s.note = in.Note
	if strings.TrimSpace(s.note) == "" {
		s.note = content.DefaultNote(in.Patient, s.now())
	}
	s.cursor = len(s.note)

	s.nav = navigation.New(s.buildStages(), func(id int, st model.StageDefinition) {
		s.pending = append(s.pending, stageChange{id: id, stage: st})
	})
	s.refreshQuestions()

	s.log.Info().
		Str("patient", logging.HashPHI(in.Patient.PatientID)).
		Int("selected", len(s.selected)).
		Int("suggested", len(s.suggested)).
		Int("compliance", len(s.compliance)).
		Int("stage", s.nav.ActiveID()).
		Msg("session opened")
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// unlock releases the lock, then delivers queued stage changes.
func (s *Session) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	if s.listener == nil {
		return
	}
	for _, c := range pending {
		s.listener(c.id, c.stage)
	}
}

func (s *Session) normalize() {
	s.selected = normalize.NormalizeItems(s.raw.Selected)
	s.suggested = normalize.NormalizeItems(s.raw.Suggested)
	s.compliance = normalize.NormalizeComplianceItems(s.raw.Compliance)
}

func (s *Session) buildStages() []model.StageDefinition {
	return steps.Build(steps.Input{
		Selected:   s.selected,
		Suggested:  s.suggested,
		Compliance: s.compliance,
		Note:       s.note,
		Enhanced:   content.Enhanced(s.note),
		Summary:    content.Summary(s.note, s.raw.Patient, s.now()),
		Finalize:   s.orch.Status(),
	}, s.overrides)
}

// refresh rebuilds the stages against the current model and finalize state.
func (s *Session) refresh() {
	s.nav.Refresh(s.buildStages())
}

// refreshQuestions synthesizes questions from the items stages 1 and 2 show,
// overrides included.
func (s *Session) refreshQuestions() {
	switch s.nav.ActiveID() {
	case model.StageIDCodeReview, model.StageIDSuggestionReview:
		var selected, suggested []model.NormalizedCodeItem
		for _, st := range s.nav.Stages() {
			switch st.ID {
			case model.StageIDCodeReview:
				selected = st.Items
			case model.StageIDSuggestionReview:
				suggested = st.Items
			}
		}
		s.questions = questions.Synthesize(selected, suggested)
	default:
		s.questions = []model.PatientQuestion{}
	}
}

// modelChanged invalidates everything derived from the model.
func (s *Session) modelChanged() {
	s.orch.Reset()
	s.refresh()
	s.refreshQuestions()
	if s.selection != nil && s.findItem(*s.selection) == nil {
		s.selection = nil
	}
}

// GoToStep activates the stage with id, falling back to the first stage.
func (s *Session) GoToStep(id int) model.StageDefinition {
	s.mu.Lock()
	defer s.unlock()
	s.refresh()
	st := s.nav.GoTo(id)
	s.refreshQuestions()
	s.log.Debug().Int("requested", id).Int("stage", st.ID).Msg("navigate")
	return st
}

// EditNote replaces the working note text.
func (s *Session) EditNote(text string) {
	s.mu.Lock()
	defer s.unlock()
	s.note = text
	s.cursor = clampCursor(s.note, s.cursor)
	s.modelChanged()
}

// SetCursor moves the insertion point, clamped to the note.
func (s *Session) SetCursor(pos int) {
	s.mu.Lock()
	defer s.unlock()
	s.cursor = clampCursor(s.note, pos)
}

// InsertText inserts text at the cursor and moves the cursor past it.
func (s *Session) InsertText(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.unlock()
	s.note = s.note[:s.cursor] + text + s.note[s.cursor:]
	s.cursor += len(text)
	s.modelChanged()
}

// ToggleEvidence flips evidence highlighting and returns the new value.
func (s *Session) ToggleEvidence() bool {
	s.mu.Lock()
	defer s.unlock()
	s.evidence = !s.evidence
	return s.evidence
}

// SetEvidenceVisible sets evidence highlighting.
func (s *Session) SetEvidenceVisible(v bool) {
	s.mu.Lock()
	defer s.unlock()
	s.evidence = v
}

// SelectItem makes the item with id in list the target for evidence
// highlighting. It reports false and clears the selection when that list has
// no such item.
func (s *Session) SelectItem(list model.StepType, id int) bool {
	s.mu.Lock()
	defer s.unlock()
	ref := ItemRef{List: list, ID: id}
	if s.findItem(ref) == nil {
		s.selection = nil
		return false
	}
	s.selection = &ref
	return true
}

// ClearSelection deselects the active item.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.unlock()
	s.selection = nil
}

// SetOverrides replaces the per-stage overrides.
func (s *Session) SetOverrides(overrides map[int]model.StageOverride) {
	s.mu.Lock()
	defer s.unlock()
	s.overrides = copyOverrides(overrides)
	s.refresh()
	s.refreshQuestions()
}

// SetItems replaces the raw selected and suggested items.
func (s *Session) SetItems(selected, suggested []model.RawCodeItem) {
	s.mu.Lock()
	defer s.unlock()
	s.raw.Selected = selected
	s.raw.Suggested = suggested
	s.normalize()
	s.modelChanged()
}

// SetCompliance replaces the raw compliance items.
func (s *Session) SetCompliance(items []model.RawComplianceItem) {
	s.mu.Lock()
	defer s.unlock()
	s.raw.Compliance = items
	s.normalize()
	s.modelChanged()
}

// Finalize sends the current model to the finalize function. The request is
// built and the single-flight slot claimed under the session lock, so an edit
// that lands before the function returns marks the outcome stale. The lock is
// not held while the function runs. The result carries the request id.
func (s *Session) Finalize(ctx context.Context) (*model.FinalizeResult, error) {
	s.mu.Lock()
	attempt, err := s.orch.Begin()
	if err != nil {
		s.unlock()
		return nil, err
	}
	req := finalize.BuildRequest(finalize.Input{
		Selected:   s.selected,
		Suggested:  s.suggested,
		Compliance: s.compliance,
		Content:    content.Enhanced(s.note),
		Patient:    s.raw.Patient,
	})
	s.unlock()
	if s.afterSnapshot != nil {
		s.afterSnapshot()
	}

	res, err := attempt.Run(ctx, req)

	s.mu.Lock()
	s.refresh()
	s.unlock()
	return res, err
}

// Steps returns the current stage definitions.
func (s *Session) Steps() []model.StageDefinition {
	s.mu.Lock()
	defer s.unlock()
	return s.buildStages()
}

// ActiveStep returns the active stage definition.
func (s *Session) ActiveStep() model.StageDefinition {
	s.mu.Lock()
	defer s.unlock()
	s.refresh()
	return s.nav.Active()
}

// Questions returns the clarification questions for the active stage.
func (s *Session) Questions() []model.PatientQuestion {
	s.mu.Lock()
	defer s.unlock()
	return append([]model.PatientQuestion{}, s.questions...)
}

// Highlights returns the evidence ranges of the selected item in the note.
func (s *Session) Highlights() []model.HighlightRange {
	s.mu.Lock()
	defer s.unlock()
	return s.highlights()
}

func (s *Session) highlights() []model.HighlightRange {
	var item *model.NormalizedCodeItem
	if s.selection != nil {
		item = s.findItem(*s.selection)
	}
	return highlight.Compute(s.note, item, s.evidence)
}

// FinalizeStatus returns the latest finalize outcome.
func (s *Session) FinalizeStatus() model.FinalizeStatus {
	return s.orch.Status()
}

// Note returns the working note text.
func (s *Session) Note() string {
	s.mu.Lock()
	defer s.unlock()
	return s.note
}

// Items returns the normalized selected and suggested items.
func (s *Session) Items() (selected, suggested []model.NormalizedCodeItem) {
	s.mu.Lock()
	defer s.unlock()
	selected = append([]model.NormalizedCodeItem{}, s.selected...)
	suggested = append([]model.NormalizedCodeItem{}, s.suggested...)
	return selected, suggested
}

func (s *Session) findItem(ref ItemRef) *model.NormalizedCodeItem {
	var list []model.NormalizedCodeItem
	switch ref.List {
	case model.StepSelected:
		list = s.selected
	case model.StepSuggested:
		list = s.suggested
	}
	for i := range list {
		if list[i].ID == ref.ID {
			return &list[i]
		}
	}
	return nil
}

func copyOverrides(in map[int]model.StageOverride) map[int]model.StageOverride {
	out := make(map[int]model.StageOverride, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Patient returns the patient metadata the session was opened with.
func (s *Session) Patient() model.PatientMetadata {
	s.mu.Lock()
	defer s.unlock()
	return s.raw.Patient
}

// Compliance returns the normalized compliance items.
func (s *Session) Compliance() []model.NormalizedComplianceItem {
	s.mu.Lock()
	defer s.unlock()
	return append([]model.NormalizedComplianceItem{}, s.compliance...)
}

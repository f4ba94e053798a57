package wizard

import "github.com/gyeh/notewizard/internal/model"

// View is a consistent snapshot of a session for rendering.
type View struct {
	ID              string                  `json:"id"`
	ActiveStep      int                     `json:"activeStep"`
	Steps           []model.StageDefinition `json:"steps"`
	Questions       []model.PatientQuestion `json:"questions"`
	Highlights      []model.HighlightRange  `json:"highlights"`
	EvidenceVisible bool                    `json:"evidenceVisible"`
	SelectedItem    *ItemRef                `json:"selectedItem,omitempty"`
	Note            string                  `json:"note"`
	Cursor          int                     `json:"cursor"`
	Finalize        model.FinalizeStatus    `json:"finalize"`
}

// View returns a snapshot of everything the presentation layer renders.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.unlock()
	stages := s.buildStages()
	s.nav.Refresh(stages)

	var sel *ItemRef
	if s.selection != nil {
		ref := *s.selection
		sel = &ref
	}
	return View{
		ID:              s.id.String(),
		ActiveStep:      s.nav.ActiveID(),
		Steps:           stages,
		Questions:       append([]model.PatientQuestion{}, s.questions...),
		Highlights:      s.highlights(),
		EvidenceVisible: s.evidence,
		SelectedItem:    sel,
		Note:            s.note,
		Cursor:          s.cursor,
		Finalize:        s.orch.Status(),
	}
}

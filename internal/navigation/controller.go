// Package navigation tracks the active wizard stage.
package navigation

import "github.com/gyeh/notewizard/internal/model"

// Listener is notified synchronously whenever the active stage changes.
type Listener func(stageID int, stage model.StageDefinition)

// Controller holds the active stage pointer over a list of stage definitions.
// It is not safe for concurrent use; the wizard session serializes access.
type Controller struct {
	stages   []model.StageDefinition
	active   int
	listener Listener
}

// New returns a controller positioned at the first stage, or at the compose
// stage when there is nothing to review. The listener may be nil.
func New(stages []model.StageDefinition, listener Listener) *Controller {
	c := &Controller{stages: stages, listener: listener}
	c.active = c.resolve(InitialStage(stages))
	return c
}

// InitialStage returns the stage a fresh wizard opens on.
func InitialStage(stages []model.StageDefinition) int {
	reviewItems := 0
	for _, st := range stages {
		if st.ID == model.StageIDCodeReview || st.ID == model.StageIDSuggestionReview {
			reviewItems += len(st.Items)
		}
	}
	if reviewItems == 0 {
		return model.StageIDCompose
	}
	return model.StageIDCodeReview
}

// GoTo selects the stage with the given id, or the first stage when no stage
// has that id. The listener fires only when the active id changes.
func (c *Controller) GoTo(id int) model.StageDefinition {
	next := c.resolve(id)
	changed := next != c.active
	c.active = next
	st := c.Active()
	if changed && c.listener != nil {
		c.listener(c.active, st)
	}
	return st
}

// Refresh rebinds the controller to rebuilt stage definitions, keeping the
// active id when it still exists.
func (c *Controller) Refresh(stages []model.StageDefinition) {
	c.stages = stages
	c.active = c.resolve(c.active)
}

// ActiveID returns the id of the active stage, 0 when there are no stages.
func (c *Controller) ActiveID() int { return c.active }

// Active returns the active stage definition.
func (c *Controller) Active() model.StageDefinition {
	for _, st := range c.stages {
		if st.ID == c.active {
			return st
		}
	}
	return model.StageDefinition{}
}

// Stages returns the stage definitions the controller is bound to.
func (c *Controller) Stages() []model.StageDefinition { return c.stages }

// SetListener replaces the change listener.
func (c *Controller) SetListener(l Listener) { c.listener = l }

func (c *Controller) resolve(id int) int {
	for _, st := range c.stages {
		if st.ID == id {
			return id
		}
	}
	if len(c.stages) == 0 {
		return 0
	}
	return c.stages[0].ID
}

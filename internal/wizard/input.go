package wizard

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/gyeh/notewizard/internal/model"
)

// Input is the raw material a session is opened with.
type Input struct {
	Selected   []model.RawCodeItem         `json:"selected"`
	Suggested  []model.RawCodeItem         `json:"suggested"`
	Compliance []model.RawComplianceItem   `json:"compliance"`
	Note       string                      `json:"note"`
	Patient    model.PatientMetadata       `json:"patient"`
	Overrides  map[int]model.StageOverride `json:"overrides,omitempty"`
}

type inputJSON struct {
	Selected   json.RawMessage `json:"selected"`
	Suggested  json.RawMessage `json:"suggested"`
	Compliance json.RawMessage `json:"compliance"`
	Note       json.RawMessage `json:"note"`
	Patient    json.RawMessage `json:"patient"`
	Overrides  json.RawMessage `json:"overrides"`
}

// DecodeInput parses a session document. Only a document that is not a JSON
// object is an error; malformed members decode to their empty value.
func DecodeInput(data []byte) (Input, error) {
	var raw inputJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Input{}, fmt.Errorf("decode session input: %w", err)
	}

	in := Input{
		Selected:   model.DecodeRawCodeItems(raw.Selected),
		Suggested:  model.DecodeRawCodeItems(raw.Suggested),
		Compliance: model.DecodeRawComplianceItems(raw.Compliance),
	}
	if len(raw.Note) > 0 {
		_ = json.Unmarshal(raw.Note, &in.Note)
	}
	if len(raw.Patient) > 0 {
		_ = json.Unmarshal(raw.Patient, &in.Patient)
	}
	var overrides map[string]json.RawMessage
	if len(raw.Overrides) > 0 {
		_ = json.Unmarshal(raw.Overrides, &overrides)
	}
	for key, msg := range overrides {
		id, err := strconv.Atoi(key)
		if err != nil || !model.ValidStageID(id) {
			continue
		}
		var ov model.StageOverride
		if err := json.Unmarshal(msg, &ov); err != nil {
			continue
		}
		if in.Overrides == nil {
			in.Overrides = make(map[int]model.StageOverride)
		}
		in.Overrides[id] = ov
	}
	return in, nil
}

// LoadInput reads and decodes a session document from path.
func LoadInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("read session file: %w", err)
	}
	return DecodeInput(data)
}

// Package schemas defines the wire types of the render pipeline: job
// descriptions going in and positioned geometry coming out. The JSON tags
// are a compatibility contract with downstream rasterizers; change them and
// every consumer breaks.
package schemas

import (
	"time"

	json "github.com/json-iterator/go"
)

// RenderJob describes one template to lay out.
type RenderJob struct {
	ID           string            `json:"id"`
	TemplatePath string            `json:"template_path"`
	Fields       map[string]string `json:"fields,omitempty"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	FontSize     float64           `json:"font_size"`
}

// RenderBox is one positioned element in document coordinates. The tree
// structure is flattened; Depth preserves paint order (parents first).
type RenderBox struct {
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Depth     int     `json:"depth"`
	Clip      bool    `json:"clip,omitempty"`
	Text      string  `json:"text,omitempty"`
	Source    string  `json:"source,omitempty"`
	Code      string  `json:"code,omitempty"`
	Symbology string  `json:"symbology,omitempty"`
}

// RenderResult is the positioned output for one job.
type RenderResult struct {
	JobID       string      `json:"job_id"`
	Template    string      `json:"template,omitempty"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	GeneratedAt time.Time   `json:"generated_at"`
	Boxes       []RenderBox `json:"boxes"`
}

// ToJSON serializes the result for transport or inspection.
func (r *RenderResult) ToJSON() ([]byte, error) {
	return json.ConfigCompatibleWithStandardLibrary.Marshal(r)
}

// ToJSONIndent serializes the result for human consumption.
func (r *RenderResult) ToJSONIndent() ([]byte, error) {
	return json.ConfigCompatibleWithStandardLibrary.MarshalIndent(r, "", "  ")
}

// RenderResultFromJSON deserializes a previously encoded result.
func RenderResultFromJSON(data []byte) (*RenderResult, error) {
	var r RenderResult
	if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

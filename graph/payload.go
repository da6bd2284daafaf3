package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/export"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
)

// DesignSavedMessage announces a saved design to graph consumers.
type DesignSavedMessage struct {
	RootID     string                 `json:"root_id"`
	Graph      export.Graph           `json:"graph"`
	Violations []validation.Violation `json:"violations"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Validate checks the message before it is published.
func (m *DesignSavedMessage) Validate() error {
	if m.RootID == "" {
		return errors.New("root ID is required")
	}
	return nil
}

// MarshalJSON writes empty violation and graph lists as [] rather than null.
func (m *DesignSavedMessage) MarshalJSON() ([]byte, error) {
	type Alias DesignSavedMessage
	out := *m
	if out.Violations == nil {
		out.Violations = []validation.Violation{}
	}
	if out.Graph.Nodes == nil {
		out.Graph.Nodes = []export.GraphNode{}
	}
	if out.Graph.Links == nil {
		out.Graph.Links = []export.GraphLink{}
	}
	return json.Marshal((*Alias)(&out))
}

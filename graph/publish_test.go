package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/export"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/graph"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
)

type recorder struct {
	subject string
	data    []byte
	err     error
}

func (r *recorder) Publish(subject string, data []byte) error {
	r.subject = subject
	r.data = data
	return r.err
}

func TestPublishDesign(t *testing.T) {
	rec := &recorder{}
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &graph.DesignSavedMessage{
		RootID: "DE-80331-MAR12-01",
		Graph: export.Graph{
			Nodes: []export.GraphNode{{ID: "dhc-instance:DE-80331-MAR12-01/circuit/c1", NodeID: "c1", Type: "dhc:Circuit", Label: "Kitchen"}},
		},
		Violations: []validation.Violation{{Severity: validation.SeverityWarning, Message: "m", NodeID: "c1", RuleID: validation.RuleProtectionMissing}},
		UpdatedAt:  updated,
	}

	require.NoError(t, graph.PublishDesign(context.Background(), rec, msg))
	assert.Equal(t, "dhc.design.saved.DE-80331-MAR12-01", rec.subject)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.data, &decoded))
	assert.Equal(t, "DE-80331-MAR12-01", decoded["root_id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", decoded["updated_at"])
	assert.Len(t, decoded["violations"], 1)
	assert.Len(t, decoded["graph"].(map[string]any)["nodes"], 1)
	assert.Equal(t, []any{}, decoded["graph"].(map[string]any)["links"])
}

func TestPublishDesignNilConnection(t *testing.T) {
	msg := &graph.DesignSavedMessage{RootID: "home1"}

	assert.NoError(t, graph.PublishDesign(context.Background(), nil, msg))

	var nc *nats.Conn
	assert.NoError(t, graph.PublishDesign(context.Background(), nc, msg))
}

func TestPublishDesignErrors(t *testing.T) {
	rec := &recorder{}
	err := graph.PublishDesign(context.Background(), rec, &graph.DesignSavedMessage{})
	assert.Error(t, err)
	assert.Empty(t, rec.subject)

	rec = &recorder{err: errors.New("connection closed")}
	err = graph.PublishDesign(context.Background(), rec, &graph.DesignSavedMessage{RootID: "home1"})
	assert.ErrorContains(t, err, "publish dhc.design.saved.home1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = graph.PublishDesign(ctx, &recorder{}, &graph.DesignSavedMessage{RootID: "home1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDesignSubject(t *testing.T) {
	assert.Equal(t, "dhc.design.saved.home1", graph.DesignSubject("", "home1"))
	assert.Equal(t, "lab.saved.home1", graph.DesignSubject("lab.saved", "home1"))
}

func TestDesignSavedMessageEmptyLists(t *testing.T) {
	data, err := json.Marshal(&graph.DesignSavedMessage{RootID: "home1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"violations":[]`)
	assert.Contains(t, string(data), `"nodes":[]`)
}

package designer_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	dt "github.com/DigitalHome-cloud/digitalhome-cloud-designer/design/designtest"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/designer"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/export"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/graph"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/smarthome"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/storage"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// kitchenWorkspace is one unprotected circuit feeding nine sockets.
func kitchenWorkspace(t *testing.T) []byte {
	t.Helper()
	circuit := dt.Block(dhc.TypeCircuit, "c1",
		dt.Label("Kitchen"),
		dt.Children(dhc.SlotFeedsEquipment, dt.Equipment(dhc.TypeSocket, "s", 9)...),
	)
	data, err := design.EncodeWorkspace(design.NewTree(circuit))
	require.NoError(t, err)
	return data
}

type recorder struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recorder) Publish(subject string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return r.err
}

func newService(t *testing.T, opts ...designer.Option) (*designer.Service, *storage.Store) {
	t.Helper()
	store := storage.NewStore(storage.NewFileBackend(t.TempDir()))
	opts = append([]designer.Option{designer.WithStore(store)}, opts...)
	return designer.New(dhc.NewRegistry(), opts...), store
}

func TestAnalyzeWorkspace(t *testing.T) {
	svc, _ := newService(t)

	report, err := svc.AnalyzeWorkspace(context.Background(), kitchenWorkspace(t), "home1")
	require.NoError(t, err)

	assert.NoError(t, report.CompileErr)
	assert.Len(t, report.Records, 10)
	assert.Len(t, report.Graph.Nodes, 10)
	assert.Len(t, report.Graph.Links, 9)
	assert.Contains(t, string(report.Turtle), "dhc-instance:home1/dhc_circuit/c1\n  a dhc:Circuit ;\n")

	require.Len(t, report.Violations, 2)
	assert.Equal(t, validation.RuleMaxPoints, report.Violations[0].RuleID)
	assert.Equal(t, validation.RuleProtectionMissing, report.Violations[1].RuleID)
	assert.True(t, report.HasErrors())
}

func TestAnalyzeMalformedTree(t *testing.T) {
	svc, _ := newService(t)

	shared := dt.Block(dhc.TypeSocket, "s1")
	tree := design.NewTree(
		dt.Block(dhc.TypeCircuit, "c1", dt.Ref(dhc.SlotFeedsEquipment, shared)),
		dt.Block(dhc.TypeCircuit, "c2", dt.Ref(dhc.SlotFeedsEquipment, shared)),
	)

	report := svc.Analyze(context.Background(), tree, "home1")
	assert.ErrorIs(t, report.CompileErr, design.ErrMalformedTree)
	assert.Empty(t, report.Records)
	assert.Empty(t, report.Violations)
	assert.True(t, report.HasErrors())

	// Header only: the prefix block followed by one blank line.
	assert.True(t, strings.HasPrefix(string(report.Turtle), "@prefix dhc: "))
	assert.True(t, strings.HasSuffix(string(report.Turtle), " .\n\n"))
	assert.Equal(t, 7, strings.Count(string(report.Turtle), "@prefix"))
}

func TestAnalyzeWorkspaceDecodeError(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AnalyzeWorkspace(context.Background(), []byte("{not json"), "home1")
	assert.Error(t, err)

	_, err = svc.ValidateWorkspace(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}

func TestValidateWorkspace(t *testing.T) {
	svc, _ := newService(t)

	violations, err := svc.ValidateWorkspace(context.Background(), kitchenWorkspace(t))
	require.NoError(t, err)
	assert.Len(t, violations, 2)
}

func TestPlacementOption(t *testing.T) {
	without, _ := newService(t)
	with, _ := newService(t, designer.WithPlacement(true))

	assert.NotContains(t, without.Rules(), validation.RulePlacement)
	assert.Equal(t, validation.RulePlacement, with.Rules()[len(with.Rules())-1])
}

func TestExport(t *testing.T) {
	svc, _ := newService(t)
	ws := kitchenWorkspace(t)

	ttl, err := svc.Export(context.Background(), ws, "home1", export.FormatTurtle)
	require.NoError(t, err)
	assert.Contains(t, string(ttl), "a dhc:Circuit")

	nt, err := svc.Export(context.Background(), ws, "home1", export.FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, string(nt), "<https://digitalhome.cloud/instance#home1/dhc_circuit/c1>")

	g, err := svc.Export(context.Background(), ws, "home1", export.FormatGraphJSON)
	require.NoError(t, err)
	assert.True(t, json.Valid(g))

	_, err = svc.Export(context.Background(), ws, "home1", export.Format("rdfxml"))
	assert.Error(t, err)
}

func TestSaveWritesArtifactsAndPublishes(t *testing.T) {
	pub := &recorder{}
	clock := func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	svc, store := newService(t, designer.WithPublisher(pub, ""), designer.WithClock(clock))
	ctx := context.Background()
	ws := kitchenWorkspace(t)

	report, err := svc.Save(ctx, "home1", ws)
	require.NoError(t, err)

	saved, err := store.LoadWorkspace(ctx, "home1")
	require.NoError(t, err)
	assert.Equal(t, ws, saved)

	ttl, err := store.LoadTurtle(ctx, "home1")
	require.NoError(t, err)
	assert.Equal(t, report.Turtle, ttl)

	g, err := store.LoadGraph(ctx, "home1")
	require.NoError(t, err)
	var decoded export.Graph
	require.NoError(t, json.Unmarshal(g, &decoded))
	assert.Len(t, decoded.Nodes, 10)

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "dhc.design.saved.home1", pub.subjects[0])
	var msg map[string]any
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, "2026-05-04T10:00:00Z", msg["updated_at"])
	assert.Len(t, msg["violations"], 2)
}

func TestSaveSurvivesPublishFailure(t *testing.T) {
	pub := &recorder{err: errors.New("nats: connection closed")}
	svc, store := newService(t, designer.WithPublisher(pub, "lab.saved"))

	_, err := svc.Save(context.Background(), "home1", kitchenWorkspace(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"lab.saved.home1"}, pub.subjects)

	_, err = store.LoadWorkspace(context.Background(), "home1")
	assert.NoError(t, err)
}

func TestSaveWithoutStore(t *testing.T) {
	svc := designer.New(dhc.NewRegistry())

	_, err := svc.Save(context.Background(), "home1", kitchenWorkspace(t))
	assert.ErrorIs(t, err, designer.ErrNoStore)

	_, err = svc.Open(context.Background(), "home1")
	assert.ErrorIs(t, err, designer.ErrNoStore)
}

func TestOpen(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, "home1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.Save(ctx, "home1", kitchenWorkspace(t))
	require.NoError(t, err)

	tree, err := svc.Open(ctx, "home1")
	require.NoError(t, err)
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "c1", tree.Roots[0].ID)
}

func TestCreateSmartHome(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	report, err := svc.CreateSmartHome(ctx, " fr-75001-abc12-01 ", "")
	require.NoError(t, err)
	assert.Equal(t, "FR-75001-ABC12-01", report.RootID)
	assert.Len(t, report.Records, 6)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "shell_6", report.Violations[0].NodeID)

	tree, err := svc.Open(ctx, "FR-75001-ABC12-01")
	require.NoError(t, err)
	assert.Len(t, tree.Roots, 6)

	report, err = svc.CreateSmartHome(ctx, "DE-80331-MAR12-01", "")
	require.NoError(t, err)
	assert.Len(t, report.Records, 3)
	assert.Empty(t, report.Violations)

	_, err = svc.CreateSmartHome(ctx, "not-an-id", "FR")
	assert.ErrorIs(t, err, smarthome.ErrInvalidID)
}

func TestPublishDesignSubjectMatchesSave(t *testing.T) {
	assert.Equal(t, "dhc.design.saved.home1", graph.DesignSubject(graph.SubjectPrefix, "home1"))
}

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/storage"
)

func TestLayoutKeys(t *testing.T) {
	l := storage.DefaultLayout

	key, err := l.DesignKey("DE-80331-MAR12-01", storage.ArtifactWorkspace)
	require.NoError(t, err)
	assert.Equal(t, "public/smarthomes/DE-80331-MAR12-01/design/workspace.json", key)

	key, err = l.DesignKey("DE-80331-MAR12-01", storage.ArtifactTurtle)
	require.NoError(t, err)
	assert.Equal(t, "public/smarthomes/DE-80331-MAR12-01/design/abox.ttl", key)

	key, err = l.DesignKey("DE-80331-MAR12-01", storage.ArtifactGraph)
	require.NoError(t, err)
	assert.Equal(t, "public/smarthomes/DE-80331-MAR12-01/design/abox.json", key)

	bare := storage.Layout{}
	key, err = bare.DesignKey("home", storage.ArtifactGraph)
	require.NoError(t, err)
	assert.Equal(t, "smarthomes/home/design/abox.json", key)
}

func TestCatalogKey(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"", "public/ontology/latest/blockly-blocks.json"},
		{"latest", "public/ontology/latest/blockly-blocks.json"},
		{"1.2.0", "public/ontology/v1.2.0/blockly-blocks.json"},
		{"v1.2.0", "public/ontology/v1.2.0/blockly-blocks.json"},
	}

	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			key, err := storage.DefaultLayout.CatalogKey(tc.version)
			require.NoError(t, err)
			assert.Equal(t, tc.want, key)
		})
	}
}

func TestLayoutRejectsInvalidSegments(t *testing.T) {
	for _, id := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := storage.DefaultLayout.DesignPrefix(id)
		assert.ErrorIs(t, err, storage.ErrInvalidKey, "root id %q", id)
	}

	_, err := storage.DefaultLayout.CatalogKey("1/../../secrets")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestArtifactKinds(t *testing.T) {
	assert.Equal(t, "application/json", storage.ArtifactWorkspace.ContentType())
	assert.Equal(t, "text/turtle", storage.ArtifactTurtle.ContentType())
	assert.Equal(t, "application/json", storage.ArtifactGraph.ContentType())

	k, err := storage.ParseArtifactKind("abox.ttl")
	require.NoError(t, err)
	assert.Equal(t, storage.ArtifactTurtle, k)

	k, err = storage.ParseArtifactKind("graph")
	require.NoError(t, err)
	assert.Equal(t, storage.ArtifactGraph, k)

	_, err = storage.ParseArtifactKind("thumbnail.png")
	assert.Error(t, err)
}

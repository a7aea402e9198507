package config

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadProfileSet(t *testing.T) {
	ps := ProfileSet{
		Rules: []ProfileRule{
			{
				Name:    "default",
				Pattern: "**",
				Profile: Profile{
					Namespaces: map[string]string{"ex": "http://example.com/"},
				},
			},
			{
				Name:    "project",
				Pattern: "**/*.rq",
				Profile: Profile{
					BaseIRI: "http://example.com/queries/",
				},
			},
		},
	}

	tmpDir, err := os.MkdirTemp("", "")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := path.Join(tmpDir, "sparqlkit", "profiles.yaml")
	err = SaveProfileSet(configPath, ps)
	require.NoError(t, err)

	loaded, err := LoadProfileSet(configPath)
	require.NoError(t, err)
	assert.Equal(t, ps, loaded)
}

func TestLoadOrCreateProfileSetForceDefault(t *testing.T) {
	ps, err := LoadOrCreateProfileSet(true)
	require.NoError(t, err)
	assert.Equal(t, ProfileSet{}, ps)
}

func TestLoadProfileSetMissingFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	_, err = LoadProfileSet(path.Join(tmpDir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/surqlx/surlint/lint"
)

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".surlint.yaml")
	require.NoError(t, initConfigurationFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var config lint.Config
	require.NoError(t, yaml.Unmarshal(data, &config))
	assert.Equal(t, "surlint", config.Name)
	assert.NotNil(t, config.Rules)
}

func TestInitConfigurationFileIsLoadable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".surlint.yaml")
	require.NoError(t, initConfigurationFile(path))

	engine, err := lint.New(path)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/config"
)

func wellFormedJobConfig() map[string]any {
	return map[string]any{
		"ref_path":    "ref.csv",
		"target_path": "target.csv",
		"threshold":   0.3,
		"processings": []any{
			map[string]any{
				"metric":      "levenshtein",
				"ref_attr":    0.0,
				"target_attr": 0.0,
				"weight":      1.0,
			},
		},
	}
}

func TestValidateJobConfigAcceptsWellFormedDocument(t *testing.T) {
	assert.NoError(t, config.ValidateJobConfig(wellFormedJobConfig()))
}

func TestValidateJobConfigRejectsMissingThreshold(t *testing.T) {
	doc := wellFormedJobConfig()
	delete(doc, "threshold")
	assert.Error(t, config.ValidateJobConfig(doc))
}

func TestValidateJobConfigRejectsUnknownBlockingType(t *testing.T) {
	doc := wellFormedJobConfig()
	doc["blocking"] = map[string]any{"type": "not-a-real-strategy"}
	assert.Error(t, config.ValidateJobConfig(doc))
}

func TestLoadJobConfigValidatesMergedDocument(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "align", "v1.0.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	defaults := `ref_path: ref.csv
target_path: target.csv
threshold: 0.3
processings:
  - metric: levenshtein
    ref_attr: 0
    target_attr: 0
    weight: 1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "align-defaults.yaml"), []byte(defaults), 0o644))

	doc, err := config.LoadJobConfig(config.LayeredConfigOptions{
		Category:     "align",
		Version:      "v1.0.0",
		DefaultsFile: "align-defaults.yaml",
		DefaultsRoot: root,
	})
	require.NoError(t, err)
	assert.Equal(t, "ref.csv", doc["ref_path"])
}

func TestLoadJobConfigRejectsIncompleteDefaults(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "align", "v1.0.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	// missing "processings" entirely
	defaults := `ref_path: ref.csv
target_path: target.csv
threshold: 0.3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "align-defaults.yaml"), []byte(defaults), 0o644))

	_, err := config.LoadJobConfig(config.LayeredConfigOptions{
		Category:     "align",
		Version:      "v1.0.0",
		DefaultsFile: "align-defaults.yaml",
		DefaultsRoot: root,
	})
	assert.Error(t, err)
}

package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/mindfulme/internal/models"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefault_BandsCoverFullScoreRange(t *testing.T) {
	p := Default()

	assert.Equal(t, 0, p.PHQ9Bands[0].Min)
	assert.Equal(t, 27, p.PHQ9Bands[len(p.PHQ9Bands)-1].Max)
	assert.Equal(t, 0, p.GAD7Bands[0].Min)
	assert.Equal(t, 21, p.GAD7Bands[len(p.GAD7Bands)-1].Max)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	yaml := `
forecast:
  window_days: 14
  low_max: 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 14, p.Forecast.WindowDays)
	assert.Equal(t, 0.25, p.Forecast.LowMax)
	// untouched values keep their defaults
	assert.Equal(t, 3, p.Forecast.MinRequiredDays)
	assert.Equal(t, models.SeveritySevere, p.PHQ9Bands[len(p.PHQ9Bands)-1].Severity)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/policy.yaml")
	assert.Error(t, err)
}

func TestValidate_RejectsGappyBands(t *testing.T) {
	p := Default()
	p.PHQ9Bands[1].Min = 6 // leaves 5 uncovered

	assert.Error(t, p.Validate())
}

func TestValidate_RejectsWindowBelowMinimum(t *testing.T) {
	p := Default()
	p.Forecast.WindowDays = 2

	assert.Error(t, p.Validate())
}

// Package policy collects every tunable clinical and analytic constant in one
// place: severity cut points, forecast weights, audio thresholds and input
// bounds. The values are deliberate policy choices, not algorithm internals,
// so they live here as named data and can be overridden from a YAML file
// without touching the scoring code.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avelichka/mindfulme/internal/models"
)

// SeverityBand maps an inclusive raw-score range to a severity label.
type SeverityBand struct {
	Min      int             `yaml:"min"`
	Max      int             `yaml:"max"`
	Severity models.Severity `yaml:"severity"`
}

// Journal bounds validate daily-log submissions.
type Journal struct {
	MoodMin         int     `yaml:"mood_min"`
	MoodMax         int     `yaml:"mood_max"`
	SleepHoursMax   float64 `yaml:"sleep_hours_max"`
	SleepQualityMin int     `yaml:"sleep_quality_min"`
	SleepQualityMax int     `yaml:"sleep_quality_max"`
}

// Sentiment holds inference input limits.
type Sentiment struct {
	// MaxRunes is the deterministic truncation limit applied to journal
	// text before inference.
	MaxRunes int `yaml:"max_runes"`
}

// Voice holds the DSP parameters of the vocal biomarker extractor.
type Voice struct {
	FrameLength     int     `yaml:"frame_length"`
	HopLength       int     `yaml:"hop_length"`
	MinDurationSec  float64 `yaml:"min_duration_sec"`
	PitchMinHz      float64 `yaml:"pitch_min_hz"`
	PitchMaxHz      float64 `yaml:"pitch_max_hz"`
	SilenceRMS      float64 `yaml:"silence_rms"`
	VoicedThreshold float64 `yaml:"voiced_threshold"`
	MinVoicedFrames int     `yaml:"min_voiced_frames"`

	// Tension = clamp(JitterWeight*normJitter + PitchVarWeight*normPitchVar).
	// JitterNorm and PitchVarNorm are the raw values that map to 1.0.
	JitterWeight   float64 `yaml:"jitter_weight"`
	PitchVarWeight float64 `yaml:"pitch_var_weight"`
	JitterNorm     float64 `yaml:"jitter_norm"`
	PitchVarNorm   float64 `yaml:"pitch_var_norm"`
}

// Forecast holds the burnout composite weights and thresholds.
type Forecast struct {
	WindowDays      int `yaml:"window_days"`
	MinRequiredDays int `yaml:"min_required_days"`

	// Composite = MoodTrendWeight*moodRisk + SentimentTrendWeight*sentimentRisk
	// + TensionWeight*meanTension, multiplied by the baseline multiplier and
	// clamped to [0, 1]. Trend risks map a per-day slope to [0, 1] via the
	// corresponding scale: risk = clamp(0.5 - slope/scale).
	MoodTrendWeight      float64 `yaml:"mood_trend_weight"`
	SentimentTrendWeight float64 `yaml:"sentiment_trend_weight"`
	TensionWeight        float64 `yaml:"tension_weight"`
	MoodSlopeScale       float64 `yaml:"mood_slope_scale"`
	SentimentSlopeScale  float64 `yaml:"sentiment_slope_scale"`

	BaselineMultipliers map[models.Severity]float64 `yaml:"baseline_multipliers"`

	// Band thresholds: composite <= LowMax is low, <= ModerateMax is
	// moderate, anything above is high.
	LowMax      float64 `yaml:"low_max"`
	ModerateMax float64 `yaml:"moderate_max"`
}

// Policy is the full constant set consumed by the engine components.
type Policy struct {
	PHQ9Bands []SeverityBand `yaml:"phq9_bands"`
	GAD7Bands []SeverityBand `yaml:"gad7_bands"`
	Journal   Journal        `yaml:"journal"`
	Sentiment Sentiment      `yaml:"sentiment"`
	Voice     Voice          `yaml:"voice"`
	Forecast  Forecast       `yaml:"forecast"`
}

// Default returns the shipped policy. The severity cut points follow the
// published PHQ-9/GAD-7 scoring tables; the forecast weights and audio
// normalizers are project choices, tuned for plausibility rather than
// clinical authority.
func Default() Policy {
	return Policy{
		PHQ9Bands: []SeverityBand{
			{Min: 0, Max: 4, Severity: models.SeverityMinimal},
			{Min: 5, Max: 9, Severity: models.SeverityMild},
			{Min: 10, Max: 14, Severity: models.SeverityModerate},
			{Min: 15, Max: 19, Severity: models.SeverityModeratelySevere},
			{Min: 20, Max: 27, Severity: models.SeveritySevere},
		},
		GAD7Bands: []SeverityBand{
			{Min: 0, Max: 4, Severity: models.SeverityMinimal},
			{Min: 5, Max: 9, Severity: models.SeverityMild},
			{Min: 10, Max: 14, Severity: models.SeverityModerate},
			{Min: 15, Max: 21, Severity: models.SeveritySevere},
		},
		Journal: Journal{
			MoodMin:         1,
			MoodMax:         10,
			SleepHoursMax:   24,
			SleepQualityMin: 1,
			SleepQualityMax: 5,
		},
		Sentiment: Sentiment{
			MaxRunes: 512,
		},
		Voice: Voice{
			FrameLength:     2048,
			HopLength:       512,
			MinDurationSec:  1.0,
			PitchMinHz:      65,
			PitchMaxHz:      1047,
			SilenceRMS:      0.01,
			VoicedThreshold: 0.5,
			MinVoicedFrames: 10,
			JitterWeight:    0.6,
			PitchVarWeight:  0.4,
			JitterNorm:      0.05,
			PitchVarNorm:    0.5,
		},
		Forecast: Forecast{
			WindowDays:           7,
			MinRequiredDays:      3,
			MoodTrendWeight:      0.4,
			SentimentTrendWeight: 0.3,
			TensionWeight:        0.3,
			MoodSlopeScale:       2.0,
			SentimentSlopeScale:  0.5,
			BaselineMultipliers: map[models.Severity]float64{
				models.SeverityMinimal:          0.85,
				models.SeverityMild:             1.0,
				models.SeverityModerate:         1.1,
				models.SeverityModeratelySevere: 1.2,
				models.SeveritySevere:           1.3,
			},
			LowMax:      0.35,
			ModerateMax: 0.65,
		},
	}
}

// Load returns the default policy overlaid with values from a YAML file.
// An empty path returns the defaults unchanged.
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects policies whose band tables are unusable: empty tables,
// overlapping or unordered ranges.
func (p Policy) Validate() error {
	if err := validateBands("phq9_bands", p.PHQ9Bands); err != nil {
		return err
	}
	if err := validateBands("gad7_bands", p.GAD7Bands); err != nil {
		return err
	}
	if p.Forecast.MinRequiredDays < 2 {
		return fmt.Errorf("forecast.min_required_days must be at least 2, got %d", p.Forecast.MinRequiredDays)
	}
	if p.Forecast.WindowDays < p.Forecast.MinRequiredDays {
		return fmt.Errorf("forecast.window_days %d is below min_required_days %d",
			p.Forecast.WindowDays, p.Forecast.MinRequiredDays)
	}
	return nil
}

func validateBands(name string, bands []SeverityBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("%s: empty band table", name)
	}
	prevMax := -1
	for _, b := range bands {
		if b.Min != prevMax+1 {
			return fmt.Errorf("%s: band %q starts at %d, expected %d", name, b.Severity, b.Min, prevMax+1)
		}
		if b.Max < b.Min {
			return fmt.Errorf("%s: band %q has max %d below min %d", name, b.Severity, b.Max, b.Min)
		}
		prevMax = b.Max
	}
	return nil
}

// Package models holds the domain records and result types shared by the
// analytics engine and its persistence layer.
package models

import "time"

// Severity is a categorical band derived from a raw clinical score.
type Severity string

const (
	SeverityMinimal          Severity = "minimal"
	SeverityMild             Severity = "mild"
	SeverityModerate         Severity = "moderate"
	SeverityModeratelySevere Severity = "moderately_severe"
	SeveritySevere           Severity = "severe"
)

// Emotion is one label from the closed set produced by the sentiment
// inferencer.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionSadness  Emotion = "sadness"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionDisgust  Emotion = "disgust"
	EmotionNeutral  Emotion = "neutral"
)

// Emotions lists every valid emotion label in a fixed order. The order is
// also the tie-break order during classification, so it must stay stable.
var Emotions = []Emotion{
	EmotionJoy, EmotionSadness, EmotionAnger,
	EmotionFear, EmotionSurprise, EmotionDisgust, EmotionNeutral,
}

// Distortion is a cognitive distortion pattern detected in journal text.
type Distortion string

const (
	DistortionCatastrophizing  Distortion = "catastrophizing"
	DistortionBlackAndWhite    Distortion = "black_and_white"
	DistortionMindReading      Distortion = "mind_reading"
	DistortionShouldStatements Distortion = "should_statements"
	DistortionOvergeneralizing Distortion = "overgeneralization"
)

// Distortions lists every valid distortion label in a fixed order; detection
// reports matches in this order so results stay deterministic.
var Distortions = []Distortion{
	DistortionCatastrophizing, DistortionBlackAndWhite, DistortionMindReading,
	DistortionShouldStatements, DistortionOvergeneralizing,
}

// RiskBand is the categorical burnout forecast output.
type RiskBand string

const (
	RiskLow      RiskBand = "low"
	RiskModerate RiskBand = "moderate"
	RiskHigh     RiskBand = "high"
)

// ForecastStatus distinguishes a computed forecast from the defined
// "not enough history" outcome.
type ForecastStatus string

const (
	ForecastOK            ForecastStatus = "ok"
	ForecastIndeterminate ForecastStatus = "indeterminate"
)

// Baseline is a user's most recent clinical assessment snapshot. Exactly one
// live Baseline exists per user; the assessment service replaces it on write.
type Baseline struct {
	UserID       string
	PHQ9Score    int
	PHQ9Severity Severity
	GAD7Score    int
	GAD7Severity Severity
	AssessedOn   time.Time
	UpdatedAt    time.Time
}

// DailyLog is one signal record per (user, calendar date). Optional signals
// are pointers; nil means "not captured", never zero.
type DailyLog struct {
	ID                string
	UserID            string
	LogDate           time.Time
	Mood              int
	JournalText       *string
	SentimentPolarity *float64
	SentimentEmotion  *Emotion
	VocalPitchHz      *float64
	VocalJitter       *float64
	VocalTension      *float64
	SleepHours        *float64
	SleepQuality      *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DailyLogPatch is the write shape for a daily-log upsert. Nil fields are
// left untouched on an existing row; Mood is always required.
type DailyLogPatch struct {
	ID                string
	UserID            string
	LogDate           time.Time
	Mood              int
	JournalText       *string
	SentimentPolarity *float64
	SentimentEmotion  *Emotion
	VocalPitchHz      *float64
	VocalJitter       *float64
	VocalTension      *float64
	SleepHours        *float64
	SleepQuality      *int
}

// ScoreResult is the outcome of scoring one clinical instrument.
type ScoreResult struct {
	Raw      int
	Severity Severity
}

// SentimentResult is the outcome of one sentiment inference call.
// Distortions is advisory per-entry output; it is never persisted.
type SentimentResult struct {
	Polarity    float64 // in [-1, 1]
	Emotion     Emotion
	Distortions []Distortion
}

// VocalResult is the outcome of one vocal biomarker extraction.
// Tension is nil when too few voiced frames were found to trust it.
// Shimmer is advisory per-recording output; only Tension is persisted.
type VocalResult struct {
	PitchHz float64
	Jitter  float64
	Shimmer float64
	Tension *float64 // in [0, 1] when present
}

// ForecastResult is computed on demand from a DailyLog window and a Baseline;
// it is never persisted by the engine. RiskScore and Band are nil when
// Status is ForecastIndeterminate.
type ForecastResult struct {
	Status       ForecastStatus
	RiskScore    *float64 // in [0, 1] when present
	Band         *RiskBand
	WindowDays   int
	DaysObserved int
}

// WeeklyStats summarizes the trailing seven days of a user's logs for
// dashboard-style consumers.
type WeeklyStats struct {
	MeanMood              float64
	MeanSleepHours        *float64
	JournalCount          int
	SentimentDistribution map[Emotion]int
	MeanVocalTension      *float64
	DaysObserved          int
}

// Day truncates t to its calendar date in UTC. All LogDate values are
// normalized through this before validation or storage.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Package voice extracts vocal biomarkers (pitch, jitter, shimmer, tension) from
// decoded PCM samples. It operates purely on in-memory arrays: decoding,
// resampling and capture belong to the caller.
package voice

import (
	"fmt"
	"math"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
)

// Extractor runs the DSP pipeline: overlapping frames, an energy gate for
// voiced frames, autocorrelation pitch per voiced frame, then jitter and a
// composite tension score derived from the per-frame period estimates.
type Extractor struct {
	p policy.Voice
}

func NewExtractor(p policy.Policy) *Extractor {
	return &Extractor{p: p.Voice}
}

// Extract analyzes one recording. It fails with common.ErrAudio on input
// shorter than the minimum duration, on all-silent input and on non-finite
// sample data. Tension is nil when fewer than the configured minimum of
// voiced frames were found; pitch and jitter still come from whatever voiced
// frames exist.
func (e *Extractor) Extract(samples []float64, sampleRate int) (models.VocalResult, error) {
	if sampleRate <= 0 {
		return models.VocalResult{}, fmt.Errorf("%w: invalid sample rate %d", common.ErrAudio, sampleRate)
	}
	minSamples := int(e.p.MinDurationSec * float64(sampleRate))
	if len(samples) < minSamples {
		return models.VocalResult{}, fmt.Errorf("%w: recording too short: %d samples at %d Hz, need %d",
			common.ErrAudio, len(samples), sampleRate, minSamples)
	}
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return models.VocalResult{}, fmt.Errorf("%w: non-finite sample data", common.ErrAudio)
		}
	}

	periods := e.voicedPeriods(samples, sampleRate)
	if len(periods) < 2 {
		return models.VocalResult{}, fmt.Errorf("%w: no voiced signal detected", common.ErrAudio)
	}

	meanPeriod := mean(periods)
	pitchHz := 1.0 / meanPeriod

	// Jitter: mean absolute relative difference between consecutive
	// voiced-frame period estimates.
	var diffSum float64
	for i := 1; i < len(periods); i++ {
		diffSum += math.Abs(periods[i] - periods[i-1])
	}
	jitter := diffSum / float64(len(periods)-1) / meanPeriod

	result := models.VocalResult{PitchHz: pitchHz, Jitter: jitter, Shimmer: shimmer(samples)}

	if len(periods) >= e.p.MinVoicedFrames {
		t := e.tension(jitter, periods, meanPeriod)
		result.Tension = &t
	}
	return result, nil
}

// voicedPeriods slides overlapping frames over the signal and returns the
// pitch period of every frame that passes both the energy gate and the
// autocorrelation confidence threshold. Unvoiced frames are excluded from
// the estimate rather than reported as period 0.
func (e *Extractor) voicedPeriods(samples []float64, sampleRate int) []float64 {
	frameLen := e.p.FrameLength
	hop := e.p.HopLength
	if frameLen > len(samples) {
		frameLen = len(samples)
	}

	minLag := int(float64(sampleRate) / e.p.PitchMaxHz)
	maxLag := int(float64(sampleRate) / e.p.PitchMinHz)
	if maxLag >= frameLen {
		maxLag = frameLen - 1
	}
	if minLag < 1 {
		minLag = 1
	}

	var periods []float64
	for start := 0; start+frameLen <= len(samples); start += hop {
		frame := samples[start : start+frameLen]
		if rms(frame) < e.p.SilenceRMS {
			continue
		}
		lag, confidence := bestLag(frame, minLag, maxLag)
		if lag == 0 || confidence < e.p.VoicedThreshold {
			continue
		}
		periods = append(periods, float64(lag)/float64(sampleRate))
	}
	return periods
}

// bestLag finds the lag with the highest normalized autocorrelation within
// [minLag, maxLag]. The returned confidence is the autocorrelation at that
// lag divided by the zero-lag energy, in [0, 1] for periodic signals.
func bestLag(frame []float64, minLag, maxLag int) (int, float64) {
	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy == 0 {
		return 0, 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	return bestLag, bestCorr / energy
}

// tension is the documented composite: a weighted sum of normalized jitter
// and normalized pitch variability (coefficient of variation of the voiced
// periods), clipped to [0, 1].
func (e *Extractor) tension(jitter float64, periods []float64, meanPeriod float64) float64 {
	var variance float64
	for _, p := range periods {
		d := p - meanPeriod
		variance += d * d
	}
	variance /= float64(len(periods))
	pitchVar := math.Sqrt(variance) / meanPeriod

	normJitter := clamp01(jitter / e.p.JitterNorm)
	normPitchVar := clamp01(pitchVar / e.p.PitchVarNorm)

	return clamp01(e.p.JitterWeight*normJitter + e.p.PitchVarWeight*normPitchVar)
}

// shimmer is the mean absolute change in sample amplitude relative to the
// mean amplitude of the whole recording. Loudness-perturbed voices score
// higher than steady ones.
func shimmer(samples []float64) float64 {
	var ampSum, diffSum float64
	prev := math.Abs(samples[0])
	ampSum = prev
	for _, s := range samples[1:] {
		amp := math.Abs(s)
		diffSum += math.Abs(amp - prev)
		ampSum += amp
		prev = amp
	}
	if ampSum == 0 {
		return 0
	}
	return diffSum / float64(len(samples)-1) / (ampSum / float64(len(samples)))
}

func rms(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}

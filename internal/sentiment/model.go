// Package sentiment infers polarity and an emotion label from journal text.
// Inference runs against a process-wide model resource that is expensive to
// build (weights are parsed from disk or the embedded defaults) and therefore
// constructed lazily, at most once, through a Provider.
package sentiment

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/avelichka/mindfulme/internal/models"
)

//go:embed assets/lexicon.tsv assets/emotions.tsv assets/distortions.tsv
var defaultAssets embed.FS

// Model is the loaded inference resource: a token polarity lexicon, a
// token→emotion table and a phrase→cognitive-distortion table. It is
// immutable after construction and safe for concurrent use.
type Model struct {
	polarity    map[string]float64
	emotions    map[string]models.Emotion
	distortions map[models.Distortion][]string
}

// Factory builds a Model. Implementations may read weights from disk; the
// Provider guarantees Build runs at most once per (re)initialization even
// under concurrent first use.
type Factory interface {
	Build() (*Model, error)
}

// EmbeddedFactory builds the model from the weights shipped inside the
// binary. It never fails on I/O, only on malformed assets.
type EmbeddedFactory struct{}

func (EmbeddedFactory) Build() (*Model, error) {
	lex, err := defaultAssets.ReadFile("assets/lexicon.tsv")
	if err != nil {
		return nil, fmt.Errorf("reading embedded lexicon: %w", err)
	}
	emo, err := defaultAssets.ReadFile("assets/emotions.tsv")
	if err != nil {
		return nil, fmt.Errorf("reading embedded emotion table: %w", err)
	}
	dis, err := defaultAssets.ReadFile("assets/distortions.tsv")
	if err != nil {
		return nil, fmt.Errorf("reading embedded distortion table: %w", err)
	}
	return parseModel(bytes.NewReader(lex), bytes.NewReader(emo), bytes.NewReader(dis))
}

// FileFactory builds the model from external weight files, mirroring a
// deployment that mounts tuned weights beside the binary. Missing or
// malformed files fail construction.
type FileFactory struct {
	LexiconPath    string
	EmotionPath    string
	DistortionPath string
}

func (f FileFactory) Build() (*Model, error) {
	lex, err := os.Open(f.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon: %w", err)
	}
	defer lex.Close()

	emo, err := os.Open(f.EmotionPath)
	if err != nil {
		return nil, fmt.Errorf("opening emotion table: %w", err)
	}
	defer emo.Close()

	dis, err := os.Open(f.DistortionPath)
	if err != nil {
		return nil, fmt.Errorf("opening distortion table: %w", err)
	}
	defer dis.Close()

	return parseModel(lex, emo, dis)
}

func parseModel(lexicon, emotions, distortions io.Reader) (*Model, error) {
	m := &Model{
		polarity:    make(map[string]float64),
		emotions:    make(map[string]models.Emotion),
		distortions: make(map[models.Distortion][]string),
	}

	validEmotions := make(map[models.Emotion]struct{}, len(models.Emotions))
	for _, e := range models.Emotions {
		validEmotions[e] = struct{}{}
	}
	validDistortions := make(map[models.Distortion]struct{}, len(models.Distortions))
	for _, d := range models.Distortions {
		validDistortions[d] = struct{}{}
	}

	sc := bufio.NewScanner(lexicon)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		token, value, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("lexicon line %d: missing weight", line)
		}
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: bad weight %q: %w", line, value, err)
		}
		if w < -1 || w > 1 {
			return nil, fmt.Errorf("lexicon line %d: weight %f outside [-1,1]", line, w)
		}
		m.polarity[strings.ToLower(token)] = w
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}

	sc = bufio.NewScanner(emotions)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		token, label, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("emotion table line %d: missing label", line)
		}
		e := models.Emotion(label)
		if _, ok := validEmotions[e]; !ok {
			return nil, fmt.Errorf("emotion table line %d: unknown emotion %q", line, label)
		}
		m.emotions[strings.ToLower(token)] = e
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading emotion table: %w", err)
	}

	sc = bufio.NewScanner(distortions)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		pattern, label, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("distortion table line %d: missing label", line)
		}
		d := models.Distortion(label)
		if _, ok := validDistortions[d]; !ok {
			return nil, fmt.Errorf("distortion table line %d: unknown distortion %q", line, label)
		}
		norm := normalize(pattern)
		if norm == "" {
			return nil, fmt.Errorf("distortion table line %d: empty pattern", line)
		}
		m.distortions[d] = append(m.distortions[d], norm)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading distortion table: %w", err)
	}

	if len(m.polarity) == 0 {
		return nil, fmt.Errorf("empty lexicon")
	}
	return m, nil
}

// Infer classifies already-tokenized text. Polarity is the mean lexicon
// weight of matched tokens (0 when nothing matches); the emotion is the most
// frequent label, ties broken by the fixed models.Emotions order, neutral
// when nothing matches.
func (m *Model) Infer(tokens []string) models.SentimentResult {
	var sum float64
	matched := 0
	counts := make(map[models.Emotion]int)

	for _, tok := range tokens {
		if w, ok := m.polarity[tok]; ok {
			sum += w
			matched++
		}
		if e, ok := m.emotions[tok]; ok {
			counts[e]++
		}
	}

	polarity := 0.0
	if matched > 0 {
		polarity = sum / float64(matched)
	}

	emotion := models.EmotionNeutral
	best := 0
	for _, e := range models.Emotions {
		if counts[e] > best {
			best = counts[e]
			emotion = e
		}
	}

	return models.SentimentResult{Polarity: polarity, Emotion: emotion}
}

// DetectDistortions matches the distortion phrase table against normalized
// text (see normalize). Each distortion is reported at most once, in the
// fixed models.Distortions order; phrases match on word boundaries, so
// "ought to" does not fire inside "thought tomorrow".
func (m *Model) DetectDistortions(normText string) []models.Distortion {
	padded := " " + normText + " "

	var detected []models.Distortion
	for _, d := range models.Distortions {
		for _, pattern := range m.distortions[d] {
			if strings.Contains(padded, " "+pattern+" ") {
				detected = append(detected, d)
				break
			}
		}
	}
	return detected
}

package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ssbmax/olq-assessor/internal/assessment"
	"github.com/ssbmax/olq-assessor/internal/logger"
	"github.com/ssbmax/olq-assessor/internal/olq"
)

// DefaultConfidence is assigned to scores that do not state one, including the
// bare-integer shorthand.
const DefaultConfidence = 100

// ErrDuplicateTrait is returned when two keys of one sheet name the same quality,
// e.g. "reasoning_ability" and "RA".
var ErrDuplicateTrait = errors.New("duplicate trait")

// document mirrors the on-disk layout before trait keys are resolved.
type document struct {
	ID        string                      `mapstructure:"id"`
	Name      string                      `mapstructure:"name"`
	EntryType string                      `mapstructure:"entry-type"`
	Scores    map[string]assessment.Score `mapstructure:"scores"`
}

// Loader reads score sheets from YAML or JSON files.
type Loader struct {
	// DefaultEntryType applies to sheets that do not name an entry type.
	DefaultEntryType olq.EntryType
	// MaxLogLength bounds grader reasoning previews in debug logs.
	MaxLogLength int
	Logger       *zap.Logger
}

func NewLoader(entry olq.EntryType, maxLogLength int, log *zap.Logger) *Loader {
	return &Loader{
		DefaultEntryType: entry,
		MaxLogLength:     maxLogLength,
		Logger:           logger.OrNop(log),
	}
}

// Load reads, checks and decodes a single sheet.
func (l *Loader) Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading score sheet %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("reading score sheet %s: %w", path, err)
	}

	// viper lowercases keys, so "RA" and "ra" would silently collapse into one.
	if err := checkTraitKeys(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sh, err := l.parse(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sh.Path = path

	log := l.Logger.With(logger.CandidateField(sh.ID))
	log.Debug("score sheet loaded",
		zap.String("path", path),
		zap.String(logger.FieldEntryType, sh.EntryType.String()),
		zap.Int("scored_traits", len(sh.Scores)),
	)
	for _, t := range olq.AllTraits() {
		s, ok := sh.Scores[t]
		if !ok || s.Reasoning == "" {
			continue
		}
		log.Debug("grader reasoning",
			zap.String("trait", t.Code()),
			zap.Int("score", s.Value),
			logger.ReasoningField(s.Reasoning, l.MaxLogLength),
		)
	}

	return sh, nil
}

// LoadAll loads every path. Sheets that fail to load, or repeat an ID already
// seen, are skipped; their errors are joined into the returned error.
func (l *Loader) LoadAll(paths []string) (*Sheets, error) {
	sheets := &Sheets{Items: make([]*Sheet, 0, len(paths))}
	var errs []error

	for _, path := range paths {
		sh, err := l.Load(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev := sheets.FindByID(sh.ID); prev != nil {
			errs = append(errs, fmt.Errorf("%s: candidate %s already loaded from %s", path, sh.ID, prev.Path))
			continue
		}
		sheets.Items = append(sheets.Items, sh)
	}

	return sheets, errors.Join(errs...)
}

func (l *Loader) parse(raw map[string]any) (*Sheet, error) {
	if err := checkDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       expandShorthand,
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding score sheet: %w", err)
	}

	sh := &Sheet{
		ID:        doc.ID,
		Name:      doc.Name,
		EntryType: l.DefaultEntryType,
		Scores:    make(map[olq.Trait]assessment.Score, len(doc.Scores)),
	}
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	if doc.EntryType != "" {
		if sh.EntryType, err = olq.ParseEntryType(doc.EntryType); err != nil {
			return nil, err
		}
	}

	for key, score := range doc.Scores {
		t, err := olq.ParseTrait(key)
		if err != nil {
			return nil, err
		}
		if _, dup := sh.Scores[t]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTrait, t)
		}
		sh.Scores[t] = score
	}

	return sh, nil
}

// checkTraitKeys reads the scores section with its original keys and rejects
// keys that resolve to the same quality.
func checkTraitKeys(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding score sheet: %w", err)
	}

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if !strings.EqualFold(key, "scores") {
			continue
		}
		scores, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}

		seen := make(map[olq.Trait]string, len(scores))
		for _, k := range slices.Sorted(maps.Keys(scores)) {
			t, err := olq.ParseTrait(k)
			if err != nil {
				// Reported with context by parse.
				continue
			}
			if prev, dup := seen[t]; dup {
				return fmt.Errorf("%w: %s given as %q and %q", ErrDuplicateTrait, t, prev, k)
			}
			seen[t] = k
		}
	}
	return nil
}

var scoreType = reflect.TypeOf(assessment.Score{})

// expandShorthand turns `trait: 6` into `trait: {score: 6}` and fills in the
// default confidence.
func expandShorthand(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != scoreType {
		return data, nil
	}

	switch v := data.(type) {
	case int:
		return map[string]any{"score": v, "confidence": DefaultConfidence}, nil
	case int64:
		return map[string]any{"score": v, "confidence": DefaultConfidence}, nil
	case float64:
		return map[string]any{"score": int(v), "confidence": DefaultConfidence}, nil
	case map[string]any:
		if _, ok := v["confidence"]; ok {
			return v, nil
		}
		out := make(map[string]any, len(v)+1)
		for k, val := range v {
			out[k] = val
		}
		out["confidence"] = DefaultConfidence
		return out, nil
	default:
		return data, nil
	}
}

package grading

import (
	"github.com/rs/zerolog/log"

	"github.com/tqgen/tqgen/form"
)

// Result is the outcome of scoring a single section.
type Result struct {
	FinalScore  float64 // points earned
	IsPass      *bool   // correctness verdict; nil until judged
	NeedsManual bool    // true if a reviewer decision is required
}

// Strategy scores a single section.
type Strategy interface {
	Grade(s form.Section) Result
}

// Grader routes by section type to the correct Strategy for one document
// mode. Grading is pure: it reads answer/response/options/score and never
// trusts a cached FinalScore.
type Grader interface {
	Grade(s form.Section) Result
}

type grader struct {
	mode       form.Mode
	strategies map[form.SectionType]Strategy
}

func (g *grader) Grade(s form.Section) Result {
	st, ok := g.strategies[s.Type]
	if !ok {
		log.Error().Str("type", string(s.Type)).Str("mode", string(g.mode)).
			Msg("grading: no strategy for section type")
		return Result{NeedsManual: true}
	}
	return st.Grade(s)
}

type config struct {
	overrides map[form.SectionType]Strategy
}

// Option tweaks grader construction.
type Option func(*config)

// WithStrategy replaces the built-in strategy for one section type.
func WithStrategy(t form.SectionType, s Strategy) Option {
	return func(c *config) {
		c.overrides[t] = s
	}
}

// NewGrader installs the built-in strategies for the given mode.
func NewGrader(mode form.Mode, opts ...Option) Grader {
	cfg := &config{overrides: map[form.SectionType]Strategy{}}
	for _, o := range opts {
		o(cfg)
	}

	var strategies map[form.SectionType]Strategy
	switch mode {
	case form.ModeQuestionnaire:
		strategies = map[form.SectionType]Strategy{
			form.TypeSingle:    optionScoreStrategy{},
			form.TypeMultiple:  optionScoreSumStrategy{},
			form.TypeRating:    ratingStrategy{},
			form.TypeTrueFalse: unscoredStrategy{},
			form.TypeField:     unscoredStrategy{},
			form.TypeEssay:     unscoredStrategy{},
		}
	default: // test
		strategies = map[form.SectionType]Strategy{
			form.TypeTrueFalse: exactMatchStrategy{},
			form.TypeSingle:    exactMatchStrategy{},
			form.TypeMultiple:  setMatchStrategy{},
			form.TypeField:     manualStrategy{},
			form.TypeEssay:     manualStrategy{},
		}
	}
	for t, s := range cfg.overrides {
		strategies[t] = s
	}
	return &grader{mode: mode, strategies: strategies}
}

// Correct scores every section and returns the corrected copy plus the
// aggregate total. The input is never mutated. Calling it again on its own
// output yields the same result.
func Correct(mode form.Mode, sections []form.Section) ([]form.Section, float64) {
	g := NewGrader(mode)
	out := make([]form.Section, len(sections))
	for i, s := range sections {
		r := g.Grade(s)
		s.FinalScore = r.FinalScore
		if r.IsPass != nil {
			v := *r.IsPass
			s.IsPass = &v
		}
		out[i] = s
	}
	return out, Total(mode, out)
}

// Total sums the cached FinalScore of the sections a mode aggregates: every
// section in test mode, only Single/Multiple/Rating in questionnaire mode.
func Total(mode form.Mode, sections []form.Section) float64 {
	total := 0.0
	for _, s := range sections {
		if mode == form.ModeQuestionnaire {
			switch s.Type {
			case form.TypeSingle, form.TypeMultiple, form.TypeRating:
			default:
				continue
			}
		}
		total += s.FinalScore
	}
	return total
}

// --- test-mode strategies ---

type exactMatchStrategy struct{}

func (exactMatchStrategy) Grade(s form.Section) Result {
	// Payloads arrive as interface{} from JSON; only string keys are valid
	// here, and comparing other dynamic types directly can panic.
	answer, okA := s.Answer.(string)
	response, okR := s.Response.(string)
	pass := okA && okR && response != "" && response == answer
	score := 0.0
	if pass {
		score = s.Score
	}
	return Result{FinalScore: score, IsPass: &pass}
}

type setMatchStrategy struct{}

func (setMatchStrategy) Grade(s form.Section) Result {
	answer, okA := form.StringSlice(s.Answer)
	response, okR := form.StringSlice(s.Response)
	pass := okA && okR && len(answer) > 0 && setEqual(toSet(answer), toSet(response))
	score := 0.0
	if pass {
		score = s.Score
	}
	return Result{FinalScore: score, IsPass: &pass}
}

// manualStrategy defers to an existing reviewer verdict and otherwise leaves
// the section unjudged.
type manualStrategy struct{}

func (manualStrategy) Grade(s form.Section) Result {
	if s.IsPass == nil {
		return Result{NeedsManual: true}
	}
	v := *s.IsPass
	score := 0.0
	if v {
		score = s.Score
	}
	return Result{FinalScore: score, IsPass: &v}
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

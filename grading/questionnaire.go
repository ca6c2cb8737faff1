package grading

import "github.com/tqgen/tqgen/form"

// Questionnaire-mode strategies. Scores live on options and ratings, not on
// the question: OptionScore is the canonical per-option field.

// optionScoreStrategy awards the OptionScore of the single chosen option,
// or 0 when no option matches the response.
type optionScoreStrategy struct{}

func (optionScoreStrategy) Grade(s form.Section) Result {
	key, _ := s.Response.(string)
	score := 0.0
	for _, o := range s.Options {
		if o.Key == key {
			score = o.OptionScore
			break
		}
	}
	return Result{FinalScore: score}
}

// optionScoreSumStrategy adds up the OptionScore of every chosen option.
type optionScoreSumStrategy struct{}

func (optionScoreSumStrategy) Grade(s form.Section) Result {
	keys, ok := form.StringSlice(s.Response)
	if !ok {
		return Result{}
	}
	chosen := toSet(keys)
	score := 0.0
	for _, o := range s.Options {
		if _, ok := chosen[o.Key]; ok {
			score += o.OptionScore
		}
	}
	return Result{FinalScore: score}
}

// ratingStrategy scores the rating value itself.
type ratingStrategy struct{}

func (ratingStrategy) Grade(s form.Section) Result {
	return Result{FinalScore: s.Rating}
}

// unscoredStrategy covers the types a questionnaire never scores.
type unscoredStrategy struct{}

func (unscoredStrategy) Grade(form.Section) Result { return Result{} }

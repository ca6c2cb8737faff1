package form

import "math"

// Variant-specific editing helpers shared by the controller and hosts.
// All of them take and return section values; the input is never mutated.

// FieldZero is the empty value for a Field section's answer type: "" for
// input, 0 for number, nil for date.
func FieldZero(t FieldAnswerType) interface{} {
	switch t {
	case FieldNumber:
		return float64(0)
	case FieldDate:
		return nil
	default:
		return ""
	}
}

// SetFieldAnswerType switches a Field section's answer type and resets both
// answer and response to the new type's empty value. A prior string response
// never survives a switch to number or date.
func SetFieldAnswerType(s Section, t FieldAnswerType) Section {
	if s.Type != TypeField {
		return s
	}
	s.AnswerType = t
	s.Answer = FieldZero(t)
	s.Response = FieldZero(t)
	return s
}

// SetRatingType switches the rating style and resets the rating fields to
// their creation defaults.
func SetRatingType(s Section, t RatingStyle) Section {
	if s.Type != TypeRating {
		return s
	}
	s.RatingType = t
	s.Rating = 0
	s.Min = DefaultRatingMin
	s.Max = DefaultRatingMax
	s.RatingGap = DefaultRatingGap
	return s
}

// EditRating sets the rating value, clamped into [Min, Max]. Click-style
// ratings additionally snap to the nearest RatingGap step above Min.
func EditRating(s Section, value float64) Section {
	if s.Type != TypeRating {
		return s
	}
	if value < s.Min {
		value = s.Min
	}
	if value > s.Max {
		value = s.Max
	}
	if s.RatingType == RatingClick && s.RatingGap > 0 {
		steps := math.Round((value - s.Min) / s.RatingGap)
		value = s.Min + steps*s.RatingGap
		if value > s.Max {
			value -= s.RatingGap
		}
	}
	s.Rating = value
	return s
}

// AddOption appends a fresh option stub to a Single/Multiple section.
// TrueFalse keeps its fixed pair.
func AddOption(s Section) Section {
	if s.Type != TypeSingle && s.Type != TypeMultiple {
		return s
	}
	opts := make([]Option, len(s.Options), len(s.Options)+1)
	copy(opts, s.Options)
	s.Options = append(opts, NewOption())
	return s
}

// RemoveOption drops the option with the given key; no-op if absent or if
// the section is not a choice type.
func RemoveOption(s Section, key string) Section {
	if s.Type != TypeSingle && s.Type != TypeMultiple {
		return s
	}
	opts := make([]Option, 0, len(s.Options))
	for _, o := range s.Options {
		if o.Key != key {
			opts = append(opts, o)
		}
	}
	s.Options = opts
	return s
}

// ToggleChecked flips the transient checked flag on one option. Single and
// TrueFalse sections check at most one option at a time.
func ToggleChecked(s Section, key string) Section {
	opts := make([]Option, len(s.Options))
	copy(opts, s.Options)
	for i := range opts {
		switch {
		case opts[i].Key == key:
			opts[i].IsChecked = !opts[i].IsChecked
		case s.Type != TypeMultiple:
			opts[i].IsChecked = false
		}
	}
	s.Options = opts
	return s
}

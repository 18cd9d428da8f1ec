package command

import "sort"

// Suggestion is a single completion candidate, replacing the input range it
// applies to (brigadier's Suggestion type).
type Suggestion struct {
	Range   Range
	Text    string
	Tooltip string
}

// Suggestions is a finished, sorted, range-merged set of suggestions for a
// completion request.
type Suggestions struct {
	Range Range
	List  []Suggestion
}

// Empty reports whether there are no candidates.
func (s *Suggestions) Empty() bool { return len(s.List) == 0 }

// MergeSuggestions combines multiple Suggestions into one, expanding the
// overall range to cover all of them and padding each candidate's text with
// the bytes of the merged range it didn't originally cover, matching
// brigadier's Suggestions::merge.
func MergeSuggestions(input string, sets []*Suggestions) *Suggestions {
	var nonEmpty []*Suggestions
	for _, s := range sets {
		if s != nil && !s.Empty() {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return &Suggestions{}
	}
	start := nonEmpty[0].Range.Start
	end := nonEmpty[0].Range.End
	for _, s := range nonEmpty[1:] {
		if s.Range.Start < start {
			start = s.Range.Start
		}
		if s.Range.End > end {
			end = s.Range.End
		}
	}
	merged := Range{Start: start, End: end}

	seen := make(map[string]bool)
	var out []Suggestion
	for _, s := range nonEmpty {
		for _, c := range s.List {
			text := input[merged.Start:c.Range.Start] + c.Text + input[c.Range.End:merged.End]
			if seen[text] {
				continue
			}
			seen[text] = true
			out = append(out, Suggestion{Range: merged, Text: text, Tooltip: c.Tooltip})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return &Suggestions{Range: merged, List: out}
}

// SuggestionsBuilder accumulates candidates for one argument's suggestion
// provider, scoped to the unconsumed remainder starting at Start.
type SuggestionsBuilder struct {
	input      string
	start      int
	remaining  string
	candidates []Suggestion
}

// NewSuggestionsBuilder creates a builder for input, with the suggestion
// range starting at start.
func NewSuggestionsBuilder(input string, start int) *SuggestionsBuilder {
	return &SuggestionsBuilder{input: input, start: start, remaining: input[start:]}
}

// Input returns the full original input string.
func (b *SuggestionsBuilder) Input() string { return b.input }

// Start returns the offset this builder's suggestions replace from.
func (b *SuggestionsBuilder) Start() int { return b.start }

// Remaining returns the unconsumed suffix a provider should match against.
func (b *SuggestionsBuilder) Remaining() string { return b.remaining }

// Suggest adds a plain text candidate replacing [Start, len(input)).
func (b *SuggestionsBuilder) Suggest(text string) *SuggestionsBuilder {
	return b.SuggestWithTooltip(text, "")
}

// SuggestWithTooltip adds a candidate with an attached tooltip.
func (b *SuggestionsBuilder) SuggestWithTooltip(text, tooltip string) *SuggestionsBuilder {
	if text == b.remaining {
		return b
	}
	b.candidates = append(b.candidates, Suggestion{
		Range:   Range{Start: b.start, End: len(b.input)},
		Text:    text,
		Tooltip: tooltip,
	})
	return b
}

// Build finalizes the accumulated candidates into a Suggestions set.
func (b *SuggestionsBuilder) Build() *Suggestions {
	if len(b.candidates) == 0 {
		return &Suggestions{Range: Range{Start: b.start, End: len(b.input)}}
	}
	sort.Slice(b.candidates, func(i, j int) bool { return b.candidates[i].Text < b.candidates[j].Text })
	return &Suggestions{Range: Range{Start: b.start, End: len(b.input)}, List: b.candidates}
}

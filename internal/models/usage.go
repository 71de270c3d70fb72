package models

import "time"

// EmptyWordAction is one documented grammatical usage of an empty word:
// the word, its part of speech, a short usage label, and a translation.
type EmptyWordAction struct {
	ID           int64        `json:"id"`
	Word         EmptyWord    `json:"empty_word"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech"`
	Action       string       `json:"action"`
	Translation  string       `json:"translation,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Sentence is a raw source text excerpt that example sentences are drawn from.
type Sentence struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UsageBinding ties one occurrence of an empty word in a sentence to a usage.
// Position is the rune index of the occurrence within the sentence text.
type UsageBinding struct {
	Position int             `json:"position"`
	Action   EmptyWordAction `json:"action"`
}

// ExampleSentence is a sentence bound to one or more usages, one per
// occurrence of a function word within it.
type ExampleSentence struct {
	Sentence Sentence       `json:"sentence"`
	Bindings []UsageBinding `json:"bindings"`
}

// BindingFor returns the binding whose usage id matches, if any.
func (es *ExampleSentence) BindingFor(actionID int64) (UsageBinding, bool) {
	for _, b := range es.Bindings {
		if b.Action.ID == actionID {
			return b, true
		}
	}
	return UsageBinding{}, false
}

// BoundActionIDs returns the ids of every usage bound to the sentence.
func (es *ExampleSentence) BoundActionIDs() map[int64]bool {
	ids := make(map[int64]bool, len(es.Bindings))
	for _, b := range es.Bindings {
		ids[b.Action.ID] = true
	}
	return ids
}

// UsageFilter narrows usage queries. Empty slices match everything.
type UsageFilter struct {
	Words         []EmptyWord
	PartsOfSpeech []PartOfSpeech
}

// ── Request Types ───────────────────────────────────────

type CreateUsageRequest struct {
	Word         EmptyWord    `json:"empty_word"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech"`
	Action       string       `json:"action"`
	Translation  string       `json:"translation,omitempty"`
}

type CreateSentenceRequest struct {
	Text      string  `json:"text"`
	Tags      []string `json:"tags,omitempty"`
	ActionIDs []int64 `json:"action_ids"`
}

type BatchSentencesRequest struct {
	Lines []string `json:"lines"`
	Tags  []string `json:"tags,omitempty"`
}

type BatchSentencesResponse struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}

type DetectRequest struct {
	Text string `json:"text"`
}

type DetectedWord struct {
	Position int       `json:"position"`
	Word     EmptyWord `json:"empty_word"`
}

type DetectResponse struct {
	Matches []DetectedWord `json:"matches"`
}

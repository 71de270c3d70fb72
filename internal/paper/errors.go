package paper

import "errors"

// Domain errors for question and paper generation.
var (
	// ErrInsufficientPool: not enough distinct distractors for one question.
	// Recoverable: the assembler skips the pair and keeps going.
	ErrInsufficientPool = errors.New("insufficient distractor pool")

	// ErrUnboundUsage: the requested usage is not bound to the sentence.
	// A data or programming error, surfaced to the caller.
	ErrUnboundUsage = errors.New("usage not bound to sentence")

	// ErrPaperGeneration: assembly produced fewer than the minimum viable
	// number of questions. The paper is not persisted.
	ErrPaperGeneration = errors.New("paper generation failed")
)

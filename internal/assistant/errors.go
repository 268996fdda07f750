package assistant

import "errors"

var (
	ErrEmptyQuestion    = errors.New("question is empty")
	ErrEmptyTopic       = errors.New("topic is empty")
	ErrGenerationFailed = errors.New("generation produced no questions")
)

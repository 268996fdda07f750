package domain

import "errors"

var (
	ErrQuizNotFound   = errors.New("quiz not found")
	ErrQuizExists     = errors.New("quiz already exists")
	ErrInvalidQuiz    = errors.New("invalid quiz")
	ErrAnswerMismatch = errors.New("answer count does not match question count")
)

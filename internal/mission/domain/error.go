package domain

import "errors"

var (
	ErrMissionNotFound    = errors.New("mission not found")
	ErrMissionExists      = errors.New("mission already exists")
	ErrInvalidMission     = errors.New("invalid mission")
	ErrNotCompleted       = errors.New("mission not completed")
	ErrCertificateFailure = errors.New("certificate generation failed")
)

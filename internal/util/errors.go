package util

import "errors"

var (
	ErrEmailRegistered        = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrPracticeNotFound       = errors.New("practice not found")
	ErrPracticeDisabled       = errors.New("practice is disabled")
	ErrODSCodeRegistered      = errors.New("ODS code already registered")
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrAssessmentCompleted    = errors.New("assessment is completed and frozen")
	ErrAssessmentNotStarted   = errors.New("assessment has no saved responses")
	ErrAssessmentNotCompleted = errors.New("assessment is not completed")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrResponseNotFound       = errors.New("response not found")
)

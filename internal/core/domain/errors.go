package domain

import "errors"

var (
	ErrSessionExpired       = errors.New("session expired")
	ErrForbidden            = errors.New("access forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotFound             = errors.New("not found")
	ErrSubmissionInFlight   = errors.New("a submission is already in progress")
	ErrDialogClosed         = errors.New("dialog is not open")
	ErrPortalSessionMissing = errors.New("portal session missing")
	ErrUnknownEntity        = errors.New("unknown reference entity")
)

// Package common defines shared sentinel errors used across the analytics
// engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers malformed or out-of-range caller input:
	// questionnaire shape, mood/sleep bounds, bad dates.
	ErrValidation = errors.New("validation error")

	// ErrAudio covers undecodable, silent, or too-short audio input.
	ErrAudio = errors.New("audio error")

	// ErrInference covers sentiment resource construction failures and
	// inference failures on otherwise valid input.
	ErrInference = errors.New("inference error")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)

// Package storage provides the data persistence layer for the ledger application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrUnknownKey   = errors.New("unknown storage key")
	ErrCorruptValue = errors.New("corrupt stored value")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateKey ensures key is one of the persisted collections.
func validateKey(key string) error {
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

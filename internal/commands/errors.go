package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidation      = "TABLE_COMMAND_INVALID"
	codeCanceled        = "TABLE_COMMAND_CANCELED"
	codeDeadline        = "TABLE_COMMAND_TIMEOUT"
	codeContext         = "TABLE_COMMAND_CONTEXT"
	codeExecutionFailed = "TABLE_COMMAND_FAILED"
)

// wrap tags err with a category and text code. Errors that already carry a
// go-errors category pass through unchanged so importer codes survive.
func wrap(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "table command is invalid", codeValidation)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "table command cancelled", codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "table command timed out", codeDeadline)
	default:
		return wrap(err, goerrors.CategoryCommand, "table command context error", codeContext)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "table command failed", codeExecutionFailed)
}

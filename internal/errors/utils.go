package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Wrap wraps an error with additional context, creating a SiteError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *SiteError {
	if err == nil {
		return nil
	}

	// If it's already a SiteError, keep its context but re-label it
	var se *SiteError
	if errors.As(err, &se) {
		return &SiteError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       se,
			Context:     se.Context,
			Component:   se.Component,
			Recoverable: se.Recoverable,
		}
	}

	return &SiteError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeNetwork,
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *SiteError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapNetwork wraps an error as a network error
func WrapNetwork(err error, code, message string) *SiteError {
	return Wrap(err, ErrorTypeNetwork, code, message)
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *SiteError {
	se := Wrap(err, ErrorTypeIO, code, message)
	if se != nil {
		se.Recoverable = false
	}
	return se
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *SiteError {
	se := Wrap(err, ErrorTypeConfig, code, message)
	if se != nil {
		se.Recoverable = false
	}
	return se
}

// WrapInternal wraps an error as an internal error
func WrapInternal(err error, code, message string) *SiteError {
	se := Wrap(err, ErrorTypeInternal, code, message)
	if se != nil {
		se.Recoverable = false
	}
	return se
}

// FormatError formats an error for user display. Enhanced errors keep their
// suggestion list; site errors are prefixed with their type and followed by
// their context.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ee *EnhancedError
	if errors.As(err, &ee) {
		return ee.Error()
	}

	var se *SiteError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("%s error: %s", se.Type, se.Error())
		ctx := GetErrorContext(se)
		if len(ctx) == 0 {
			return msg
		}
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, ctx[k])
		}
		return msg + " (" + strings.Join(pairs, ", ") + ")"
	}

	return err.Error()
}

// GetErrorContext extracts context from an error chain, outer values winning
func GetErrorContext(err error) map[string]interface{} {
	result := make(map[string]interface{})

	for err != nil {
		var se *SiteError
		if !errors.As(err, &se) {
			break
		}
		for k, v := range se.Context {
			if _, exists := result[k]; !exists {
				result[k] = v
			}
		}
		err = se.Cause
	}

	return result
}

// CombineErrors combines multiple errors into one, skipping nils
func CombineErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}

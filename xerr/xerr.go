// SPDX-License-Identifier: Apache-2.0
//
// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xerr collects the error kinds named in the system's error-handling
// design: input-malformed, data-incomplete, invariant-violation,
// resource-exhausted, cancelled, and not-found. Each kind names its locus
// (which rule, which element, which file) so a caller never has to guess
// what failed from a bare string.
package xerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// InputMalformedError marks a record that could not be parsed: a bad IFC
// entity, a rule failing schema validation, a dataset record with the wrong
// feature dimension. Policy: isolate the bad record, emit a diagnostic,
// continue with the rest.
type InputMalformedError struct {
	Locus  string
	Reason string
}

func (e InputMalformedError) Error() string {
	return fmt.Sprintf("malformed input at %s: %s", e.Locus, e.Reason)
}

func ErrInputMalformed(locus, format string, args ...any) error {
	return errors.WithStack(InputMalformedError{Locus: locus, Reason: fmt.Sprintf(format, args...)})
}

// DataIncompleteError marks a single value-source resolution that returned
// null during evaluation. It downgrades one verdict to UNABLE; it never
// fails the whole evaluation.
type DataIncompleteError struct {
	Rule, Element, Reason string
}

func (e DataIncompleteError) Error() string {
	return fmt.Sprintf("rule %s / element %s: %s", e.Rule, e.Element, e.Reason)
}

func ErrDataIncomplete(rule, element, reason string) error {
	return DataIncompleteError{Rule: rule, Element: element, Reason: reason}
}

// InvariantViolationError names the specific invariant (as documented in the
// data model) that no longer holds. It is fatal for the current operation.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e InvariantViolationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invariant violated: %s", e.Invariant)
	}
	return fmt.Sprintf("invariant violated: %s: %s", e.Invariant, e.Detail)
}

func ErrInvariantViolation(invariant, detail string) error {
	return errors.WithStack(InvariantViolationError{Invariant: invariant, Detail: detail})
}

// ResourceExhaustedError marks a failed write (disk full, checkpoint write
// failure). The operation aborts and persistent state is left unchanged,
// since all writes are copy-on-write-then-rename.
type ResourceExhaustedError struct {
	Op string
}

func (e ResourceExhaustedError) Error() string {
	return fmt.Sprintf("resource exhausted during %s", e.Op)
}

func ErrResourceExhausted(op string, cause error) error {
	return errors.Wrapf(ResourceExhaustedError{Op: op}, "cause: %v", cause)
}

// CancelledError marks termination at a checkpoint (between rules, between
// mini-batches) in response to context cancellation or deadline expiry.
type CancelledError struct {
	Op string
}

func (e CancelledError) Error() string {
	return fmt.Sprintf("%s cancelled", e.Op)
}

func ErrCancelled(op string, cause error) error {
	return errors.Wrapf(CancelledError{Op: op}, "cause: %v", cause)
}

// NotFoundError marks a missing version id, rule id, or element id lookup.
// It is returned to the caller, never thrown inside a loop over other ids.
type NotFoundError struct {
	Kind, ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func ErrNotFound(kind, id string) error {
	return errors.WithStack(NotFoundError{Kind: kind, ID: id})
}

// ConflictError marks two sources disagreeing about the same id (e.g. a rule
// id present in two catalogue sources with different contents).
type ConflictError struct {
	What, Where, With string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s at %s with %s", e.What, e.Where, e.With)
}

func ErrConflict(what, where, with string) error {
	return ConflictError{What: what, Where: where, With: with}
}

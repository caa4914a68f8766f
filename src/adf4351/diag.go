/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package adf4351

import (
	"errors"
	"fmt"
)

// Diagnostic codes, SCPI numbering.
const (
	CodeNoError        = 0
	CodeExecution      = -200
	CodeDataOutOfRange = -222
	CodeIllegalValue   = -224
	CodeHardware       = -240
)

// DefaultDiagCapacity is the depth of the diagnostic queue.
const DefaultDiagCapacity = 8

// Diagnostic is one queued error report.
type Diagnostic struct {
	Code    int
	Message string
}

// NoError is what an empty queue reports.
var NoError = Diagnostic{Code: CodeNoError, Message: "No error"}

// String formats the diagnostic the way an instrument error query answers.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%+d,%q", d.Code, d.Message)
}

// DiagnosticFor classifies an error from this package.
func DiagnosticFor(err error) Diagnostic {
	code := CodeExecution
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrInfeasible), errors.Is(err, ErrDividerOverflow), errors.Is(err, ErrBandSelectOverflow):
		code = CodeDataOutOfRange
	case errors.Is(err, ErrUnreducibleFraction), errors.Is(err, ErrInvalidField):
		code = CodeIllegalValue
	case errors.Is(err, ErrTransport):
		code = CodeHardware
	}
	return Diagnostic{Code: code, Message: err.Error()}
}

// DiagQueue is a bounded stack of recent diagnostics. Pop returns the newest
// entry first. Pushing onto a full queue drops the oldest entry.
type DiagQueue struct {
	items []Diagnostic
	limit int
}

func NewDiagQueue(capacity int) *DiagQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &DiagQueue{items: make([]Diagnostic, 0, capacity), limit: capacity}
}

func (q *DiagQueue) Push(d Diagnostic) {
	if len(q.items) == q.limit {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, d)
}

// Pop removes and returns the newest diagnostic, or NoError and false when
// the queue is empty.
func (q *DiagQueue) Pop() (Diagnostic, bool) {
	if len(q.items) == 0 {
		return NoError, false
	}
	d := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	return d, true
}

func (q *DiagQueue) Len() int { return len(q.items) }

func (q *DiagQueue) Cap() int { return q.limit }

func (q *DiagQueue) Clear() { q.items = q.items[:0] }

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassifier_Classify(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "duplicate key",
			err:      errors.New(`duplicate key value violates unique constraint "idx_credentials_reservation_active"`),
			expected: DuplicateKeyError,
		},
		{
			name:     "unique constraint",
			err:      errors.New("UNIQUE constraint failed: locks.trailer_id"),
			expected: DuplicateKeyError,
		},
		{
			name:     "deadlock",
			err:      errors.New("deadlock detected"),
			expected: LockError,
		},
		{
			name:     "serialization failure",
			err:      errors.New("ERROR: could not serialize access due to concurrent update"),
			expected: LockError,
		},
		{
			name:     "connection reset",
			err:      errors.New("read tcp: connection reset by peer"),
			expected: TransientError,
		},
		{
			name:     "dial failure",
			err:      errors.New("dial tcp 10.0.0.5:5432: i/o error"),
			expected: ConnectionError,
		},
		{
			name:     "foreign key",
			err:      errors.New("insert or update violates foreign key"),
			expected: ConstraintError,
		},
		{
			name:     "unclassified",
			err:      errors.New("something else entirely"),
			expected: ErrorType(""),
		},
		{
			name:     "nil error",
			err:      nil,
			expected: ErrorType(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.err))
		})
	}
}

func TestErrorClassifier_IsDuplicateKeyError(t *testing.T) {
	classifier := NewErrorClassifier()

	assert.True(t, classifier.IsDuplicateKeyError(errors.New("duplicate key value")))
	assert.False(t, classifier.IsDuplicateKeyError(errors.New("deadlock detected")))
	assert.False(t, classifier.IsDuplicateKeyError(nil))
}

func TestErrorClassifier_IsConstraintError(t *testing.T) {
	classifier := NewErrorClassifier()

	// Duplicate keys are a subset of constraint violations
	assert.True(t, classifier.IsConstraintError(errors.New("duplicate key value")))
	assert.True(t, classifier.IsConstraintError(errors.New("null value in column violates not null")))
	assert.False(t, classifier.IsConstraintError(errors.New("connection refused")))
}

func TestIsContextError(t *testing.T) {
	assert.True(t, isContextError(context.DeadlineExceeded))
	assert.True(t, isContextError(context.Canceled))
	assert.True(t, isContextError(errors.New("pq: context deadline exceeded")))
	assert.True(t, isContextError(errors.New("query timeout reached")))
	assert.False(t, isContextError(errors.New("duplicate key value")))
	assert.False(t, isContextError(nil))
}

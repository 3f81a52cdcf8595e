package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrInvariant indicates invariant rule violation.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates optimistic/concurrency conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
	// ErrNotFound indicates a referenced row does not exist.
	ErrNotFound = errors.New("aggregate not found")
	// ErrHasDependents indicates a delete blocked by rows that still reference the target.
	ErrHasDependents = errors.New("aggregate has dependents")
)

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// InvariantError tags an error as invariant violation.
func InvariantError(msg string) error {
	return errors.Join(ErrInvariant, errors.New(strings.TrimSpace(msg)))
}

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// RetryableError tags an error as retryable failure.
func RetryableError(msg string) error {
	return errors.Join(ErrRetryable, errors.New(strings.TrimSpace(msg)))
}

func NotFoundError(msg string) error {
	return errors.Join(ErrNotFound, errors.New(strings.TrimSpace(msg)))
}

func HasDependentsError(msg string) error {
	return errors.Join(ErrHasDependents, errors.New(strings.TrimSpace(msg)))
}

// MapError maps infrastructure/domain failures into aggregate error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*domainagg.Error); ok {
		return err
	}

	var violation *lessongraph.Violation
	if errors.As(err, &violation) {
		return domainagg.NewError(violationCode(violation.Kind), op, violation.Error(), err)
	}

	switch {
	case errors.Is(err, ErrValidation):
		return tagged(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrInvariant):
		return tagged(domainagg.CodeInvariantViolation, op, err)
	case errors.Is(err, ErrConflict):
		return tagged(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return tagged(domainagg.CodeRetryable, op, err)
	case errors.Is(err, ErrNotFound):
		return tagged(domainagg.CodeNotFound, op, err)
	case errors.Is(err, ErrHasDependents):
		return tagged(domainagg.CodeHasDependents, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "23503":
			return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "already exists"),
		strings.Contains(msg, "unique constraint failed"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "foreign key constraint failed"):
		return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}

func violationCode(kind lessongraph.Kind) domainagg.ErrorCode {
	switch kind {
	case lessongraph.KindSelfReference:
		return domainagg.CodeSelfReference
	case lessongraph.KindCircularDependency:
		return domainagg.CodeCircularDependency
	case lessongraph.KindDuplicateSequence:
		return domainagg.CodeDuplicateSequence
	default:
		return domainagg.CodeInvariantViolation
	}
}

// tagged wraps a sentinel-joined error, keeping only the caller's detail line as the
// message.
func tagged(code domainagg.ErrorCode, op string, err error) error {
	msg := strings.TrimSpace(err.Error())
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = strings.TrimSpace(msg[i+1:])
	}
	return domainagg.NewError(code, op, msg, err)
}

package domain

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a question store or the pagination extractor can report
type Kind int

const (
	KindParseError Kind = iota + 1
	KindMissingParameters
	KindQuestionNotFound
	KindOutOfBound
	KindDatabaseQueryError
	KindDuplicateQuestion
	KindInvalidQuestion
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "ParseError"
	case KindMissingParameters:
		return "MissingParameters"
	case KindQuestionNotFound:
		return "QuestionNotFound"
	case KindOutOfBound:
		return "OutOfBound"
	case KindDatabaseQueryError:
		return "DatabaseQueryError"
	case KindDuplicateQuestion:
		return "DuplicateQuestion"
	case KindInvalidQuestion:
		return "InvalidQuestion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a typed failure. Err holds the underlying cause for server-side logs;
// only ParseError lets it reach the client message.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindParseError:
		if e.Err != nil {
			return fmt.Sprintf("Cannot parse parameter: %v", e.Err)
		}
		return "Cannot parse parameter"
	case KindMissingParameters:
		return "Missing parameter"
	case KindQuestionNotFound:
		return "Question not found"
	case KindOutOfBound:
		return "Out of bound. The index end is out of range."
	case KindDatabaseQueryError:
		return "Cannot update, invalid data."
	case KindDuplicateQuestion:
		return "Question already exists"
	case KindInvalidQuestion:
		if e.Err != nil {
			return fmt.Sprintf("Invalid question: %v", e.Err)
		}
		return "Invalid question"
	default:
		return "Unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Common errors
var (
	ErrParse             = &Error{Kind: KindParseError}
	ErrMissingParameters = &Error{Kind: KindMissingParameters}
	ErrQuestionNotFound  = &Error{Kind: KindQuestionNotFound}
	ErrOutOfBound        = &Error{Kind: KindOutOfBound}
	ErrDatabaseQuery     = &Error{Kind: KindDatabaseQueryError}
	ErrDuplicateQuestion = &Error{Kind: KindDuplicateQuestion}
	ErrInvalidQuestion   = &Error{Kind: KindInvalidQuestion}
	ErrInvalidQuestionID = &Error{Kind: KindInvalidQuestion, Err: errors.New("no id provided")}
)

// ParseError wraps a failed numeric conversion of a query parameter
func ParseError(err error) error {
	return &Error{Kind: KindParseError, Err: err}
}

// DatabaseError wraps a driver failure. The cause is kept for logging only.
func DatabaseError(err error) error {
	return &Error{Kind: KindDatabaseQueryError, Err: err}
}

// InvalidQuestion reports a payload that cannot be stored
func InvalidQuestion(reason string) error {
	return &Error{Kind: KindInvalidQuestion, Err: errors.New(reason)}
}

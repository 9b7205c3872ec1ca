package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the client error primitives.
//
// Justification: every layer (gateway, session controller, CLI) dispatches on
// these codes. Unit tests ensure invariants like "wrapped domain errors
// preserve original code" and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeLoginFailed, Message: "Invalid username or password"}
		s.Equal("Invalid username or password", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeUnauthorized}
		s.Equal("unauthorized", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("connection refused")
		err := &Error{Code: CodeNetwork, Message: "request failed", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})

	s.Run("works with errors.Unwrap", func() {
		inner := errors.New("root cause")
		err := &Error{Code: CodeInternal, Err: inner}
		s.Equal(inner, errors.Unwrap(err))
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeUnauthorized, Message: "session expired"}
		err2 := &Error{Code: CodeUnauthorized, Message: "token revoked"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeTimeout}
		err2 := &Error{Code: CodeNetwork}
		s.False(err1.Is(err2))
	})

	s.Run("does not match non-domain errors", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := errors.New("not found")
		s.False(err1.Is(err2))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesCode() {
	s.Run("preserves original domain code", func() {
		inner := New(CodeUnauthorized, "session expired")
		wrapped := Wrap(inner, CodeInternal, "call failed")
		s.True(HasCode(wrapped, CodeUnauthorized))
		s.Equal("call failed", wrapped.Error())
	})

	s.Run("applies code to plain errors", func() {
		wrapped := Wrap(errors.New("dial tcp: refused"), CodeNetwork, "request failed")
		s.True(HasCode(wrapped, CodeNetwork))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeTimeout, ""), CodeTimeout))
	s.False(HasCode(errors.New("timeout"), CodeTimeout))
	s.False(HasCode(nil, CodeTimeout))
}

func (s *DomainErrorsSuite) TestMessage() {
	s.Run("prefers domain message", func() {
		err := New(CodeLoginFailed, "User is inactive")
		s.Equal("User is inactive", Message(err))
	})

	s.Run("falls back to error string", func() {
		s.Equal("boom", Message(errors.New("boom")))
	})

	s.Run("empty for nil", func() {
		s.Equal("", Message(nil))
	})
}

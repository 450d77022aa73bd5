package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelHelpers(t *testing.T) {
	cases := []struct {
		err   error
		check func(error) bool
	}{
		{NewInvalidArgument("bad email"), IsInvalidArgument},
		{WrapInternal(errors.New("boom"), "CreateUser"), IsInternal},
		{NewNotFound("task"), IsNotFound},
		{ErrInvalidCredentials, IsInvalidCredentials},
		{NewConflict("email already exists"), IsAlreadyExists},
		{ErrInvalidToken, IsInvalidToken},
		{ErrTokenExpired, IsTokenExpired},
		{NewForbidden("not the owner"), IsForbidden},
	}
	for _, c := range cases {
		if !c.check(c.err) {
			t.Fatalf("helper did not match %v", c.err)
		}
	}
}

func TestExpiredIsAlsoInvalidToken(t *testing.T) {
	if !IsInvalidToken(ErrTokenExpired) {
		t.Fatal("expired token must be treated as invalid by the boundary")
	}
}

func TestInternalIsNotDomainOutcome(t *testing.T) {
	err := WrapInternal(errors.New("connection reset"), "Login")
	if IsInvalidCredentials(err) || IsInvalidToken(err) || IsAlreadyExists(err) {
		t.Fatal("infrastructure failure leaked into a domain outcome")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("save user: %w", NewConflict(cause.Error()))
	if !IsAlreadyExists(err) {
		t.Fatal("wrapping lost the sentinel")
	}
}

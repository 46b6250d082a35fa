package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrNotFound, "no such project")
	assert.Equal(t, "[NOT_FOUND] no such project", plain.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), ErrFileWrite, "failed to write stub")
	assert.Equal(t, "[FILE_WRITE] failed to write stub: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "x"))
	assert.Nil(t, Wrapf(nil, ErrInternal, "x %d", 1))
}

func TestUnwrapChain(t *testing.T) {
	inner := fmt.Errorf("root cause")
	err := Wrap(inner, ErrFileAccess, "outer")

	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestIsMatchesOnCode(t *testing.T) {
	a := New(ErrSessionCorrupt, "bad token")
	b := New(ErrSessionCorrupt, "different message")
	c := New(ErrResolutionFailed, "bad token")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrMirrorCorrupt, "%s has no binaries", "nodejs.org")
	assert.True(t, IsErrorCode(err, ErrMirrorCorrupt))
	assert.False(t, IsErrorCode(err, ErrInternal))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrMirrorCorrupt))

	// Codes survive wrapping in plain errors.
	outer := fmt.Errorf("context: %w", err)
	assert.True(t, IsErrorCode(outer, ErrMirrorCorrupt))
	assert.Equal(t, ErrMirrorCorrupt, GetErrorCode(outer))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrStubGeneration, "render failed").
		WithDetail("project", "nodejs.org").
		WithDetail("binary", "node")

	details := GetErrorDetails(err)
	assert.Equal(t, "nodejs.org", details["project"])
	assert.Equal(t, "node", details["binary"])
	assert.Nil(t, GetErrorDetails(fmt.Errorf("plain")))
}

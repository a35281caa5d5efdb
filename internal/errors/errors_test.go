package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineError_FormatsWithAndWithoutCause(t *testing.T) {
	plain := New(CategoryConfig, SeverityFatal, "configuration file not found")
	require.Equal(t, "config (fatal): configuration file not found", plain.Error())

	wrapped := Wrap(fmt.Errorf("boom"), CategoryContent, SeverityFatal, "load failed")
	require.Equal(t, "content (fatal): load failed: boom", wrapped.Error())
}

func TestPipelineError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, CategoryIndex, SeverityFatal, "index construction failed")

	require.True(t, errors.Is(err, cause))

	var pe *PipelineError
	require.True(t, errors.As(error(err), &pe))
	require.Equal(t, CategoryIndex, pe.Category)
}

func TestWithContext_AccumulatesFields(t *testing.T) {
	err := LoadFailed("posts/broken.md", errors.New("bad fence")).
		WithContext("offset", 2)

	require.Equal(t, "posts/broken.md", err.Context["path"])
	require.Equal(t, 2, err.Context["offset"])
}

func TestIsFatal(t *testing.T) {
	require.True(t, ConfigNotFound("x.yaml").IsFatal())
	require.False(t, StateError("finish", errors.New("locked")).IsFatal())
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "disease-sync/pkg/errors"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeFull, "full"},
		{ModeIncremental, "incremental"},
		{ModeHealthCheck, "health"},
		{ModePreview, "preview"},
		{ModeVerify, "verify"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.String())
	}
}

func TestModeMutates(t *testing.T) {
	assert.True(t, ModeFull.Mutates())
	assert.True(t, ModeIncremental.Mutates())
	assert.False(t, ModeHealthCheck.Mutates())
	assert.False(t, ModePreview.Mutates())
	assert.False(t, ModeVerify.Mutates())
}

func TestRequestValidate(t *testing.T) {
	valid := []Request{
		{Mode: ModeFull},
		{Mode: ModeIncremental, WindowHours: 24},
		{Mode: ModeIncremental, WindowHours: 1},
		{Mode: ModeHealthCheck},
		{Mode: ModePreview},
		{Mode: ModeVerify},
	}
	for _, req := range valid {
		assert.NoError(t, req.Validate(), "mode %s", req.Mode)
	}

	invalid := []Request{
		{Mode: ModeIncremental},
		{Mode: ModeIncremental, WindowHours: -3},
		{Mode: ModeFull, WindowHours: 24},
		{Mode: ModeVerify, WindowHours: 1},
		{Mode: Mode(99)},
	}
	for _, req := range invalid {
		err := req.Validate()
		require.Error(t, err, "mode %s window %d", req.Mode, req.WindowHours)
		assert.True(t, syncerrors.IsType(err, syncerrors.ErrorTypeValidation))
	}
}

package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleOutcome struct {
	Mode      string `json:"mode"`
	Processed int64  `json:"processed"`
	Error     string `json:"error,omitempty"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := sampleOutcome{Mode: "incremental", Processed: 42}

	data, err := Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"incremental","processed":42}`, string(data))

	var out sampleOutcome
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(sampleOutcome{Mode: "full"}, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"mode\": \"full\"")
}

func TestEncoderKeepsHTMLVerbatim(t *testing.T) {
	var buf bytes.Buffer
	err := NewEncoder(&buf).Encode(map[string]string{"symptoms": "fever > 39C & rash"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fever > 39C & rash")
	assert.NotContains(t, buf.String(), `>`)
}

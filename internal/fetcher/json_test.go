package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecodeJSONObject(t *testing.T) {
	obj, err := DecodeJSONObject[testRecord](strings.NewReader(`{"id":42,"name":"answer"}`))
	require.NoError(t, err)
	assert.Equal(t, 42, obj.ID)
	assert.Equal(t, "answer", obj.Name)
}

func TestDecodeJSONObject_TrailingWhitespace(t *testing.T) {
	obj, err := DecodeJSONObject[testRecord](strings.NewReader("{\"id\":1}\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, obj.ID)
}

func TestDecodeJSONObject_Invalid(t *testing.T) {
	for _, in := range []string{``, `not json`, `{"id":`, `[1,2,3]`, `{"id":"x"}`, `{"id":1} {"id":2}`} {
		_, err := DecodeJSONObject[testRecord](strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToJSON(t *testing.T) {
	data, err := SerializeToJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	_, err = SerializeToJSON(make(chan int))
	require.Error(t, err)
}

func TestDeserializeFromJSON(t *testing.T) {
	var out struct {
		ID string `json:"message_id"`
	}
	require.NoError(t, DeserializeFromJSON([]byte(`{"message_id":"m1"}`), &out))
	assert.Equal(t, "m1", out.ID)

	require.Error(t, DeserializeFromJSON([]byte(`{`), &out))
}

func TestHandleConsumerError(t *testing.T) {
	assert.NotPanics(t, func() {
		HandleConsumerError(nil)
		HandleConsumerError(errors.New("broker gone"))
	})
}

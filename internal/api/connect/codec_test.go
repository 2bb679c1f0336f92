package connect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestCodec(t *testing.T) {
	c := Codec()
	assert.Equal(t, "json", c.Name())

	var v structpb.Value
	require.NoError(t, c.Unmarshal([]byte(`{"message": "VideoEvent: Ended"}`), &v))
	assert.Equal(t, map[string]any{"message": "VideoEvent: Ended"}, v.AsInterface())

	var req SelectRequest
	require.NoError(t, c.Unmarshal([]byte(`{"index": 3}`), &req))
	assert.Equal(t, 3, req.Index)

	// Empty bodies decode to the zero message.
	req = SelectRequest{}
	require.NoError(t, c.Unmarshal(nil, &req))
	assert.Equal(t, 0, req.Index)

	data, err := c.Marshal(&HandledResponse{Handled: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"handled": true}`, string(data))

	data, err = c.Marshal(structpb.NewStringValue("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `"hi"`, string(data))

	assert.Error(t, c.Unmarshal([]byte(`{`), &req))
}

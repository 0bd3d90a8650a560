package payload_test

import (
	"testing"

	"github.com/konnect-app/backend/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec := payload.NewCodec("shared-secret")

	wire, err := codec.Encrypt([]byte(`{"f_name":"Beth"}`))
	require.NoError(t, err)
	assert.NotContains(t, wire, "Beth")

	plaintext, err := codec.Decrypt(wire)
	require.NoError(t, err)
	assert.Equal(t, `{"f_name":"Beth"}`, string(plaintext))
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	codec := payload.NewCodec("shared-secret")

	a, err := codec.Encrypt([]byte("same body"))
	require.NoError(t, err)
	b, err := codec.Encrypt([]byte("same body"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsBadInput(t *testing.T) {
	codec := payload.NewCodec("shared-secret")

	_, err := codec.Decrypt("not base64!!")
	assert.Error(t, err)

	_, err = codec.Decrypt("c2hvcnQ=") // "short", below the nonce size
	assert.Error(t, err)
}

func TestDecryptWithWrongKeyGarbles(t *testing.T) {
	wire, err := payload.NewCodec("secret-a").Encrypt([]byte("hello"))
	require.NoError(t, err)

	plaintext, err := payload.NewCodec("secret-b").Decrypt(wire)
	require.NoError(t, err)
	assert.NotEqual(t, "hello", string(plaintext))
}

func TestJSONRoundTrip(t *testing.T) {
	codec := payload.NewCodec("shared-secret")

	wire, err := codec.EncryptJSON(map[string]string{"requester": "u2"})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, codec.DecryptJSON(wire, &out))
	assert.Equal(t, map[string]string{"requester": "u2"}, out)
}

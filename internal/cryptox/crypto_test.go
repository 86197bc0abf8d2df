package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"loans":[{"principal":"1000"}]}`)
	passphrase := []byte("correct horse battery staple")

	blob, err := Encrypt(plaintext, passphrase)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	out, err := Decrypt(blob, passphrase)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestDecryptWrongPassphrase(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), []byte("right"))
	require.NoError(t, err)

	_, err = Decrypt(blob, []byte("wrong"))
	assert.Error(t, err)
}

func TestDecryptTamperedBlob(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), []byte("pass"))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xff
	_, err = Decrypt(blob, []byte("pass"))
	assert.Error(t, err)
}

func TestDecryptTruncatedBlob(t *testing.T) {
	_, err := Decrypt([]byte("too short"), []byte("pass"))
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestEncryptIsSalted(t *testing.T) {
	a, err := Encrypt([]byte("same input"), []byte("same pass"))
	require.NoError(t, err)
	b, err := Encrypt([]byte("same input"), []byte("same pass"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "fresh salt and nonce per call")
}

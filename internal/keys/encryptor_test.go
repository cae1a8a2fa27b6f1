package keys

import (
	"bytes"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vedran77/pulse-channels/pkg/apperror"
)

var testRSAKey = sync.OnceValue(func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
})

func pkixPublicKey(t *testing.T, key *rsa.PrivateKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return der
}

func unwrap(t *testing.T, key *rsa.PrivateKey, ciphertext []byte) []byte {
	t.Helper()
	plaintext, err := key.Decrypt(nil, ciphertext, &rsa.OAEPOptions{
		Hash:    crypto.SHA256,
		MGFHash: crypto.SHA1,
	})
	require.NoError(t, err)
	return plaintext
}

func TestEncryptor_Wrap_RoundTrip(t *testing.T) {
	req := require.New(t)
	key := testRSAKey()
	pub := pkixPublicKey(t, key)
	secret := []byte("AGE-SECRET-KEY-1QQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQQ")

	wrapped, err := NewEncryptor().Wrap(secret, pub)

	req.NoError(err)
	req.Equal(WrapScheme, wrapped.Scheme)
	req.Equal(Fingerprint(pub), wrapped.RecipientFingerprint)
	req.Len(wrapped.Ciphertext, key.Size())
	req.Equal(secret, unwrap(t, key, wrapped.Ciphertext))
}

func TestEncryptor_Wrap_MaskUsesSHA1(t *testing.T) {
	req := require.New(t)
	key := testRSAKey()

	wrapped, err := NewEncryptor().Wrap([]byte("channel key"), pkixPublicKey(t, key))
	req.NoError(err)

	// Same digest, default MGF1-SHA256: must not decrypt.
	_, err = rsa.DecryptOAEP(sha256.New(), nil, key, wrapped.Ciphertext, nil)
	req.Error(err)
}

func TestEncryptor_Wrap_IsRandomized(t *testing.T) {
	req := require.New(t)
	key := testRSAKey()
	pub := pkixPublicKey(t, key)
	secret := []byte("same plaintext")
	enc := NewEncryptor()

	first, err := enc.Wrap(secret, pub)
	req.NoError(err)
	second, err := enc.Wrap(secret, pub)
	req.NoError(err)

	req.False(bytes.Equal(first.Ciphertext, second.Ciphertext))
	req.Equal(unwrap(t, key, first.Ciphertext), unwrap(t, key, second.Ciphertext))
}

func TestEncryptor_Wrap_CapacityBound(t *testing.T) {
	key := testRSAKey()
	pub := pkixPublicKey(t, key)
	limit := MaxSecretSize(&key.PublicKey)
	enc := NewEncryptor()

	t.Run("exactly at the bound succeeds", func(t *testing.T) {
		req := require.New(t)
		secret := bytes.Repeat([]byte{0xAB}, limit)

		wrapped, err := enc.Wrap(secret, pub)

		req.NoError(err)
		req.Equal(secret, unwrap(t, key, wrapped.Ciphertext))
	})

	t.Run("one byte over fails with EncryptionTooLarge", func(t *testing.T) {
		req := require.New(t)
		secret := bytes.Repeat([]byte{0xAB}, limit+1)

		_, err := enc.Wrap(secret, pub)

		req.ErrorIs(err, ErrEncryptionTooLarge)
		req.Equal(apperror.CodeEncryptionTooLarge, apperror.CodeOf(err))
	})

	t.Run("empty secret succeeds", func(t *testing.T) {
		req := require.New(t)
		wrapped, err := enc.Wrap(nil, pub)
		req.NoError(err)
		req.Empty(unwrap(t, key, wrapped.Ciphertext))
	})
}

func TestMaxSecretSize(t *testing.T) {
	require.Equal(t, 190, MaxSecretSize(&testRSAKey().PublicKey))
}

func TestParsePublicKey(t *testing.T) {
	key := testRSAKey()

	t.Run("PKCS1 is accepted", func(t *testing.T) {
		req := require.New(t)
		pub, err := ParsePublicKey(x509.MarshalPKCS1PublicKey(&key.PublicKey))
		req.NoError(err)
		req.True(pub.Equal(&key.PublicKey))
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ParsePublicKey([]byte("not a key"))
		require.ErrorIs(t, err, ErrInvalidPublicKey)
	})

	t.Run("non RSA keys are rejected", func(t *testing.T) {
		req := require.New(t)
		edPub, _, err := ed25519.GenerateKey(rand.Reader)
		req.NoError(err)
		der, err := x509.MarshalPKIXPublicKey(edPub)
		req.NoError(err)

		_, err = ParsePublicKey(der)
		req.ErrorIs(err, ErrInvalidPublicKey)
	})
}

func TestFingerprint(t *testing.T) {
	req := require.New(t)
	req.Equal(Fingerprint([]byte("a")), Fingerprint([]byte("a")))
	req.NotEqual(Fingerprint([]byte("a")), Fingerprint([]byte("b")))
	req.Len(Fingerprint([]byte("a")), 16)
}

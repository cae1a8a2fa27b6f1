package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"math/big"

	"github.com/vedran77/pulse-channels/pkg/apperror"
	"golang.org/x/crypto/blake2b"
)

// WrapScheme identifies RSA-OAEP with a SHA-256 digest, MGF1 over SHA-1
// and an empty label. Clients unwrap with the same parameters.
const WrapScheme = "RSA-OAEP-SHA256-MGF1SHA1"

var (
	ErrEncryptionTooLarge = apperror.EncryptionTooLarge("secret exceeds recipient key capacity")
	ErrInvalidPublicKey   = apperror.InvalidArg("invalid recipient public key")
)

type WrappedKey struct {
	Ciphertext []byte `json:"ciphertext"`
	Scheme     string `json:"scheme"`
	// RecipientFingerprint identifies the public key the secret was
	// wrapped under.
	RecipientFingerprint string `json:"recipient_fingerprint"`
}

// Encryptor wraps secrets under RSA public keys. The padding parameters
// are fixed; there is no unwrap on the server.
type Encryptor struct {
	random io.Reader
}

func NewEncryptor() *Encryptor {
	return &Encryptor{random: rand.Reader}
}

// ParsePublicKey accepts a PKIX (SubjectPublicKeyInfo) or PKCS#1 DER
// encoded RSA public key.
func ParsePublicKey(der []byte) (*rsa.PublicKey, error) {
	if key, err := x509.ParsePKIXPublicKey(der); err == nil {
		pub, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidPublicKey)
		}
		return pub, nil
	}
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// MaxSecretSize is the largest secret that fits under pub:
// k - 2*hLen - 2 with hLen the SHA-256 size.
func MaxSecretSize(pub *rsa.PublicKey) int {
	return pub.Size() - 2*sha256.Size - 2
}

// Wrap encrypts secret under the DER encoded recipient public key.
func (e *Encryptor) Wrap(secret, recipientPublicKey []byte) (WrappedKey, error) {
	pub, err := ParsePublicKey(recipientPublicKey)
	if err != nil {
		return WrappedKey{}, err
	}

	ciphertext, err := e.encryptOAEP(pub, secret)
	if err != nil {
		return WrappedKey{}, err
	}

	return WrappedKey{
		Ciphertext:           ciphertext,
		Scheme:               WrapScheme,
		RecipientFingerprint: Fingerprint(recipientPublicKey),
	}, nil
}

// encryptOAEP is RSAES-OAEP-ENCRYPT (RFC 8017 §7.1.1). The standard
// library ties the MGF1 hash to the label hash, so the encoding is done
// here and only the RSA primitive uses math/big.
func (e *Encryptor) encryptOAEP(pub *rsa.PublicKey, msg []byte) ([]byte, error) {
	k := pub.Size()
	hLen := sha256.Size
	limit := MaxSecretSize(pub)
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d-bit modulus is too small", ErrInvalidPublicKey, pub.N.BitLen())
	}
	if len(msg) > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrEncryptionTooLarge, len(msg), limit)
	}

	lHash := sha256.Sum256(nil)

	em := make([]byte, k)
	seed := em[1 : 1+hLen]
	db := em[1+hLen:]

	copy(db, lHash[:])
	db[len(db)-len(msg)-1] = 0x01
	copy(db[len(db)-len(msg):], msg)

	if _, err := io.ReadFull(e.random, seed); err != nil {
		return nil, fmt.Errorf("reading OAEP seed: %w", err)
	}

	mgf1XOR(db, sha1.New(), seed)
	mgf1XOR(seed, sha1.New(), db)

	m := new(big.Int).SetBytes(em)
	c := new(big.Int).Exp(m, big.NewInt(int64(pub.E)), pub.N)
	clear(em)

	return c.FillBytes(make([]byte, k)), nil
}

// mgf1XOR xors out with MGF1(seed) generated with h.
func mgf1XOR(out []byte, h hash.Hash, seed []byte) {
	var counter [4]byte
	var digest []byte

	done := 0
	for done < len(out) {
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		digest = h.Sum(digest[:0])

		for i := 0; i < len(digest) && done < len(out); i++ {
			out[done] ^= digest[i]
			done++
		}
		binary.BigEndian.PutUint32(counter[:], binary.BigEndian.Uint32(counter[:])+1)
	}
}

// Fingerprint is a short BLAKE2b-256 digest of encoded key material, safe
// to log.
func Fingerprint(key []byte) string {
	sum := blake2b.Sum256(key)
	return hex.EncodeToString(sum[:8])
}

package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// Purposes bind signed tokens to one use.
const (
	PurposeBlob      = "blob_id"
	PurposeVariation = "variation"
	purposeURL       = "url"
)

const (
	keyIterations = 1000
	keyLength     = 32
)

// Verifier signs ids and URLs with an HMAC-SHA256 key derived from a secret.
type Verifier struct {
	key []byte
}

// NewVerifier derives the signing key from secret and salt with PBKDF2.
func NewVerifier(secret, salt []byte) *Verifier {
	return &Verifier{key: pbkdf2.Key(secret, salt, keyIterations, keyLength, sha256.New)}
}

// Generate returns a token carrying id that only Verify with the same purpose
// accepts.
func (v *Verifier) Generate(purpose, id string) string {
	data := base64.RawURLEncoding.EncodeToString([]byte(id))
	return data + "--" + v.sign(purpose, data)
}

// Verify returns the id carried by token.
func (v *Verifier) Verify(purpose, token string) (string, error) {
	i := strings.LastIndex(token, "--")
	if i < 0 {
		return "", ErrInvalidSignature
	}
	data, sig := token[:i], token[i+2:]
	if !hmac.Equal([]byte(sig), []byte(v.sign(purpose, data))) {
		return "", ErrInvalidSignature
	}
	id, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return string(id), nil
}

// SignURL appends expires and signature query parameters to path.
func (v *Verifier) SignURL(path string, params url.Values, expiresAt time.Time) string {
	q := url.Values{}
	for k, vals := range params {
		q[k] = append([]string(nil), vals...)
	}
	q.Del("signature")
	q.Set("expires", strconv.FormatInt(expiresAt.Unix(), 10))
	q.Set("signature", v.sign(purposeURL, path+"?"+q.Encode()))
	return path + "?" + q.Encode()
}

// ValidateURL checks a URL produced by SignURL.
func (v *Verifier) ValidateURL(path string, query url.Values, now time.Time) error {
	sig := query.Get("signature")
	if sig == "" {
		return ErrInvalidSignature
	}
	q := url.Values{}
	for k, vals := range query {
		if k != "signature" {
			q[k] = vals
		}
	}
	if !hmac.Equal([]byte(sig), []byte(v.sign(purposeURL, path+"?"+q.Encode()))) {
		return ErrInvalidSignature
	}
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: expires %q", ErrInvalidSignature, q.Get("expires"))
	}
	if now.Unix() > expires {
		return ErrExpired
	}
	return nil
}

func (v *Verifier) sign(purpose, data string) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(purpose))
	mac.Write([]byte{0})
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

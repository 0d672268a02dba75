package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrDecrypt = errors.New("unable to decrypt value")

func secretKey(secret string) *[32]byte {
	k := sha256.Sum256([]byte(secret))
	return &k
}

// Encrypt seals value with a key derived from secret. The output is base64 and
// carries its own nonce.
func Encrypt(value, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty secret")
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}

	sealed := secretbox.Seal(nonce[:], []byte(value), &nonce, secretKey(secret))

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func Decrypt(value, secret string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}

	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	opened, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, secretKey(secret))
	if !ok {
		return "", ErrDecrypt
	}

	return string(opened), nil
}

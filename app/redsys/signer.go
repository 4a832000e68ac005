package redsys

import (
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

const SignatureVersion = "HMAC_SHA256_V1"

var zeroIV = make([]byte, des.BlockSize)

// DeriveKey encrypts the order id with 3DES-CBC under the merchant secret.
// The order id is right padded with NUL bytes to the block size and the
// ciphertext is used as the per-order HMAC key.
func DeriveKey(orderID string, secret []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}

	padded := []byte(orderID)
	if rem := len(padded) % des.BlockSize; rem != 0 {
		padded = append(padded, make([]byte, des.BlockSize-rem)...)
	}

	key := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, zeroIV).CryptBlocks(key, padded)
	return key, nil
}

func Sign(serialized string, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(serialized))
	return mac.Sum(nil)
}

// SignBase64 signs serialized with the key derived from orderID and returns
// the digest in standard Base64.
func SignBase64(serialized, orderID, secretBase64 string) (string, error) {
	secret, err := Base64Decode(secretBase64)
	if err != nil {
		return "", fmt.Errorf("%w: secret is not base64", ErrInvalidSecret)
	}
	key, err := DeriveKey(orderID, secret)
	if err != nil {
		return "", err
	}
	return Base64Encode(Sign(serialized, key)), nil
}

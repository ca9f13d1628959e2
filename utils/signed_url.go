package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	exportSecretMu  sync.RWMutex
	exportURLSecret []byte
)

// SetExportURLSecret installs the key that signs export download links.
func SetExportURLSecret(secret []byte) {
	exportSecretMu.Lock()
	exportURLSecret = append([]byte(nil), secret...)
	exportSecretMu.Unlock()
}

// GenerateSignedExportQuery builds a presigned query string (format, exp, nonce, sig)
// for downloading the log export. A non-positive expiresIn means 5 minutes.
func GenerateSignedExportQuery(format string, expiresIn time.Duration) (string, error) {
	if format == "" {
		return "", errors.New("format is required")
	}

	if expiresIn <= 0 {
		expiresIn = 5 * time.Minute
	}

	expiration := time.Now().Add(expiresIn).Unix()
	nonceBytes := make([]byte, 12)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(nonceBytes)

	signature, err := signExportPayload(buildExportSignaturePayload(format, expiration, nonce))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("format=%s&exp=%d&nonce=%s&sig=%s", format, expiration, nonce, signature), nil
}

// ValidateSignedExportRequest checks the query params of a presigned export link.
func ValidateSignedExportRequest(format, expStr, nonce, sig string) error {
	if format == "" || expStr == "" || nonce == "" || sig == "" {
		return errors.New("missing download signature parameters")
	}

	expiration, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiration: %w", err)
	}

	if time.Now().Unix() > expiration {
		return errors.New("download link has expired")
	}

	expectedSig, err := signExportPayload(buildExportSignaturePayload(format, expiration, nonce))
	if err != nil {
		return err
	}

	if !hmac.Equal([]byte(expectedSig), []byte(sig)) {
		return errors.New("invalid download signature")
	}

	return nil
}

func buildExportSignaturePayload(format string, expiration int64, nonce string) string {
	return strings.Join([]string{"export", format, strconv.FormatInt(expiration, 10), nonce}, "|")
}

func signExportPayload(payload string) (string, error) {
	exportSecretMu.RLock()
	secret := exportURLSecret
	exportSecretMu.RUnlock()
	if len(secret) == 0 {
		return "", errors.New("export url secret not configured")
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

package vault

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// TOTP per RFC 6238: HMAC-SHA1, 30-second steps, 6-digit codes. Verification
// accepts one step of clock skew in either direction.
const (
	totpPeriod = 30 * time.Second
	totpDigits = 6
	totpSkew   = 1

	totpSecretBytes = 20
)

var totpEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateTOTPSecret returns a fresh random base32-encoded TOTP secret.
func GenerateTOTPSecret() (string, error) {
	buf := make([]byte, totpSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return totpEncoding.EncodeToString(buf), nil
}

// TOTPCode returns the 6-digit code for the secret at time t.
func TOTPCode(secret string, t time.Time) (string, error) {
	key, err := decodeTOTPSecret(secret)
	if err != nil {
		return "", err
	}
	counter := uint64(t.Unix()) / uint64(totpPeriod/time.Second)
	return hotp(key, counter), nil
}

// VerifyTOTPCode reports whether code is valid for the secret at time t,
// allowing totpSkew steps of clock drift.
func VerifyTOTPCode(secret, code string, t time.Time) (bool, error) {
	key, err := decodeTOTPSecret(secret)
	if err != nil {
		return false, err
	}
	counter := int64(uint64(t.Unix()) / uint64(totpPeriod/time.Second))
	for delta := -int64(totpSkew); delta <= totpSkew; delta++ {
		if counter+delta < 0 {
			continue
		}
		if hmac.Equal([]byte(hotp(key, uint64(counter+delta))), []byte(code)) {
			return true, nil
		}
	}
	return false, nil
}

// TOTPTimeRemaining returns the seconds left before the code at time t
// rotates.
func TOTPTimeRemaining(t time.Time) int {
	period := int64(totpPeriod / time.Second)
	return int(period - t.Unix()%period)
}

// TOTPProvisioningURI returns an otpauth:// URI for authenticator apps.
func TOTPProvisioningURI(secret, account, issuer string) string {
	label := url.PathEscape(account)
	if issuer != "" {
		label = url.PathEscape(issuer) + ":" + label
	}
	q := url.Values{}
	q.Set("secret", secret)
	if issuer != "" {
		q.Set("issuer", issuer)
	}
	return "otpauth://totp/" + label + "?" + q.Encode()
}

func decodeTOTPSecret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	normalized = strings.TrimRight(normalized, "=")
	key, err := totpEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid TOTP secret: %w", err)
	}
	return key, nil
}

// hotp computes the truncated HMAC-SHA1 code for a counter (RFC 4226).
func hotp(key []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)
	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)
	offset := sum[len(sum)-1] & 0x0F
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF
	return fmt.Sprintf("%0*d", totpDigits, code%1000000)
}

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// VerifySignature authenticates an inbound webhook delivery. Xero signs the
// exact raw body bytes with HMAC-SHA256 using the webhook signing key and
// sends the base64 digest in the signature header, so the payload must be
// hashed untouched; re-serializing it first invalidates the signature.
func VerifySignature(payload []byte, signatureHeader, webhookKey string) bool {
	sig := strings.TrimSpace(signatureHeader)
	key := strings.TrimSpace(webhookKey)
	if sig == "" || key == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	computed := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(sig))
}

package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SignatureVerifier checks gateway payment confirmations. The gateway
// signs "<gatewayOrderId>|<gatewayPaymentId>" with HMAC-SHA256 under the
// shared key secret and sends the hex digest as the signature.
type SignatureVerifier struct {
	keySecret string
}

func NewSignatureVerifier(keySecret string) *SignatureVerifier {
	return &SignatureVerifier{keySecret: keySecret}
}

func (v *SignatureVerifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(v.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

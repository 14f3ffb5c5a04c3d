package calendly

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"leadflow_backend/platform/logger"
)

// signatureHeader carries the provider's HMAC signature, either as a bare
// hex digest or in "t=<ts>,v1=<hex>" form.
const signatureHeader = "Calendly-Webhook-Signature"

// VerifySignature checks the webhook HMAC-SHA256 signature against the raw
// request body. Verification is deliberately lenient: a missing secret,
// missing header, or mismatched digest is logged and the request proceeds,
// because dropping a booking notification costs more than accepting a forged
// one that at worst flips a flag a human can see. The body is restored so
// downstream handlers can bind it.
func VerifySignature(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		header := c.GetHeader(signatureHeader)
		if secret == "" || header == "" {
			c.Next()
			return
		}

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(extractDigest(header)), []byte(expected)) {
			log.Warn("webhook signature mismatch", "path", c.Request.URL.Path)
		}
		c.Next()
	}
}

// extractDigest pulls the hex digest out of a signature header, tolerating
// the "t=...,v1=..." segmented form.
func extractDigest(header string) string {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, "v1="); ok {
			return value
		}
	}
	return strings.TrimSpace(header)
}

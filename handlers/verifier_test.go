package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningSecret = "test_signing_secret"

func signBody(secret string, timestamp int64, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("v0:%d:%s", timestamp, body)))
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func signedHeader(secret string, timestamp int64, body string) http.Header {
	header := http.Header{}
	header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))
	header.Set("X-Slack-Signature", signBody(secret, timestamp, body))
	return header
}

func TestVerifier_ValidSignature(t *testing.T) {
	body := `{"type":"url_verification","challenge":"test_challenge"}`
	header := signedHeader(testSigningSecret, time.Now().Unix(), body)

	err := NewVerifier(testSigningSecret).Verify(header, []byte(body))
	assert.NoError(t, err)
}

func TestVerifier_Rejections(t *testing.T) {
	body := "command=%2Fhello&text=Ada&user_id=U123"
	now := time.Now().Unix()

	tests := []struct {
		name   string
		secret string
		header func() http.Header
		body   string
	}{
		{
			name:   "missing secret",
			secret: "",
			header: func() http.Header { return signedHeader("", now, body) },
			body:   body,
		},
		{
			name:   "altered body",
			secret: testSigningSecret,
			header: func() http.Header { return signedHeader(testSigningSecret, now, body) },
			body:   body + "&admin=true",
		},
		{
			name:   "altered signature",
			secret: testSigningSecret,
			header: func() http.Header {
				h := signedHeader(testSigningSecret, now, body)
				h.Set("X-Slack-Signature", "v0=invalid_signature")
				return h
			},
			body: body,
		},
		{
			name:   "signed with another secret",
			secret: testSigningSecret,
			header: func() http.Header { return signedHeader("other_secret", now, body) },
			body:   body,
		},
		{
			name:   "missing signature header",
			secret: testSigningSecret,
			header: func() http.Header {
				h := signedHeader(testSigningSecret, now, body)
				h.Del("X-Slack-Signature")
				return h
			},
			body: body,
		},
		{
			name:   "missing timestamp header",
			secret: testSigningSecret,
			header: func() http.Header {
				h := signedHeader(testSigningSecret, now, body)
				h.Del("X-Slack-Request-Timestamp")
				return h
			},
			body: body,
		},
		{
			name:   "malformed timestamp",
			secret: testSigningSecret,
			header: func() http.Header {
				h := signedHeader(testSigningSecret, now, body)
				h.Set("X-Slack-Request-Timestamp", "yesterday")
				return h
			},
			body: body,
		},
		{
			name:   "stale timestamp with correct signature",
			secret: testSigningSecret,
			header: func() http.Header { return signedHeader(testSigningSecret, now-400, body) },
			body:   body,
		},
		{
			name:   "timestamp too far in the future",
			secret: testSigningSecret,
			header: func() http.Header { return signedHeader(testSigningSecret, now+400, body) },
			body:   body,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewVerifier(tt.secret).Verify(tt.header(), []byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrVerificationFailed)
		})
	}
}

func TestVerifier_SkewBoundaryUsesClock(t *testing.T) {
	body := "command=%2Fhello"
	ts := time.Now().Unix()
	header := signedHeader(testSigningSecret, ts, body)

	verifier := NewVerifier(testSigningSecret)
	verifier.now = func() time.Time { return time.Unix(ts, 0).Add(MaxTimestampSkew + time.Second) }

	err := verifier.Verify(header, []byte(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside allowed skew")
}

func TestVerifier_RejectsExtremeTimestamps(t *testing.T) {
	body := "command=%2Fhello"
	now := time.Now()

	for _, ts := range []int64{math.MaxInt64 / 2, math.MaxInt64, math.MinInt64 / 2, 0} {
		t.Run(strconv.FormatInt(ts, 10), func(t *testing.T) {
			verifier := NewVerifier(testSigningSecret)
			verifier.now = func() time.Time { return now }

			err := verifier.Verify(signedHeader(testSigningSecret, ts, body), []byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrVerificationFailed)
			assert.Contains(t, err.Error(), "outside allowed skew")
		})
	}
}

func TestVerifier_AcceptsSkewAtBoundary(t *testing.T) {
	body := "command=%2Fhello"
	ts := time.Now().Unix()
	header := signedHeader(testSigningSecret, ts, body)

	verifier := NewVerifier(testSigningSecret)
	verifier.now = func() time.Time { return time.Unix(ts, 0).Add(MaxTimestampSkew) }
	assert.NoError(t, verifier.Verify(header, []byte(body)))

	verifier.now = func() time.Time { return time.Unix(ts, 0).Add(-MaxTimestampSkew) }
	assert.NoError(t, verifier.Verify(header, []byte(body)))
}

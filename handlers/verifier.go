package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/slack-go/slack"
)

const (
	slackSignatureHeader = "X-Slack-Signature"
	slackTimestampHeader = "X-Slack-Request-Timestamp"

	// MaxTimestampSkew bounds how far X-Slack-Request-Timestamp may drift from now.
	MaxTimestampSkew = 5 * time.Minute
)

// ErrVerificationFailed is wrapped by every Verify rejection.
var ErrVerificationFailed = errors.New("slack request verification failed")

// Verifier checks the v0 HMAC-SHA256 signature Slack puts on every callback.
type Verifier struct {
	signingSecret string
	now           func() time.Time
}

func NewVerifier(signingSecret string) *Verifier {
	return &Verifier{
		signingSecret: signingSecret,
		now:           time.Now,
	}
}

// Verify returns nil when header and body carry a fresh, valid signature.
func (v *Verifier) Verify(header http.Header, body []byte) error {
	if v.signingSecret == "" {
		return fmt.Errorf("%w: signing secret is not configured", ErrVerificationFailed)
	}

	timestamp := header.Get(slackTimestampHeader)
	signature := header.Get(slackSignatureHeader)
	if timestamp == "" || signature == "" {
		return fmt.Errorf("%w: missing required headers", ErrVerificationFailed)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp format: %v", ErrVerificationFailed, err)
	}

	// Whole seconds: a Duration overflows for timestamps far from now.
	maxSkew := int64(MaxTimestampSkew / time.Second)
	skew := v.now().Unix() - ts
	if skew > maxSkew || skew < -maxSkew {
		return fmt.Errorf("%w: request timestamp outside allowed skew", ErrVerificationFailed)
	}

	sv, err := slack.NewSecretsVerifier(header, v.signingSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("%w: failed to hash body: %v", ErrVerificationFailed, err)
	}
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("%w: signature mismatch", ErrVerificationFailed)
	}

	return nil
}

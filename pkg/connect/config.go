package connect

import (
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/bwconnect/bwconnect-go/pkg/common"
)

// Configured sets up a Client from command line flags. The returned client is
// usable once lflag.Configure has run.
func Configured() *Client {
	email := lflag.RequiredString("connect-email", "Bradford White Connect account email")
	password := lflag.RequiredString("connect-password", "Bradford White Connect account password")
	timeout := lflag.Duration("connect-timeout", time.Minute, "timeout for requests to the Connect API")
	retryAttempts := lflag.Int("connect-retry-attempts", defaultRetryAttempts, "number of attempts for requests failing with unknown errors")
	retryWait := lflag.Duration("connect-retry-wait", defaultRetryWait, "wait between attempts after an unknown error")
	retryPosts := lflag.Bool("connect-retry-posts", false, "apply the unknown-error retry policy to POSTs as well as GETs")

	c := &Client{
		deviceURL: defaultDeviceURL,
		userURL:   defaultUserURL,
	}

	lflag.Do(func() {
		c.client = common.HTTPClient(*timeout)
		c.email = *email
		c.password = *password
		c.retryAttempts = *retryAttempts
		c.retryWait = *retryWait
		c.retryPosts = *retryPosts
	})

	return c
}

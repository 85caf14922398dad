package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const pollInterval = time.Millisecond * 100

// AwaitReachable polls url with HEAD requests until the server answers with any status, or
// until timeout elapses. Progress dots are written to output.
func AwaitReachable(ctx context.Context, client *http.Client, url string, timeout time.Duration, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Connecting to %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			fmt.Fprintln(output)
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			fmt.Fprintln(output)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

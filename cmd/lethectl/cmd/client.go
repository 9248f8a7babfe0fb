package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"golang.org/x/term"
)

func getHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
	}
	return &http.Client{Transport: transport}
}

func doRequest(method, path string, body io.Reader) (*http.Response, error) {
	// The host in the URL is ignored; the transport dials the socket.
	url := "http://localhost" + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return getHTTPClient().Do(req)
}

// requestFormat resolves the output format sent to the API: the explicit
// flag wins, otherwise text for terminals and json for pipes.
func requestFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "text"
	}
	return "json"
}

// copyResponse streams the body to stdout, or the error text to stderr.
func copyResponse(resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
	}
	_, err := io.Copy(os.Stdout, resp.Body)
	return err
}

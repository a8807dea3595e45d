package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"strings"
)

// client is a thin REST client over a worldserver base URL. Session
// state is the scs cookie the server issues on login; sessionFile
// persists it across separate worldctl invocations the way
// credentials.go persists a token to disk, minus the token-store
// dependency this repo has no matching server-side auth mode for.
type client struct {
	base string
	http *http.Client
	jar  *cookiejar.Jar
}

func sessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".worldctl_session")
}

func newClient() (*client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &client{base: strings.TrimRight(getServerURL(), "/"), http: &http.Client{Jar: jar}, jar: jar}
	c.loadCookie()
	return c, nil
}

func (c *client) loadCookie() {
	raw, err := os.ReadFile(sessionFile())
	if err != nil || len(raw) == 0 {
		return
	}
	c.http.Transport = &cookieInjector{cookie: string(raw), base: http.DefaultTransport}
}

func (c *client) saveCookie(resp *http.Response) {
	for _, ck := range resp.Cookies() {
		if ck.Name == "atlascore_session" {
			os.WriteFile(sessionFile(), []byte(ck.String()), 0600)
			c.http.Transport = &cookieInjector{cookie: ck.String(), base: http.DefaultTransport}
			return
		}
	}
}

// cookieInjector attaches the persisted session cookie to every
// outgoing request, since each worldctl invocation is a fresh process
// with an empty in-memory cookiejar.
type cookieInjector struct {
	cookie string
	base   http.RoundTripper
}

func (t *cookieInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.cookie != "" {
		req.Header.Add("Cookie", t.cookie)
	}
	return t.base.RoundTrip(req)
}

func (c *client) do(method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "[VERBOSE] %s %s\n", method, req.URL)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	c.saveCookie(resp)
	return resp, nil
}

// decode reads an HTTP response into v, returning the server's error
// envelope as a Go error on non-2xx status.
func decode(resp *http.Response, v any) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
		}
		return fmt.Errorf("server returned %s: %s", resp.Status, string(raw))
	}
	if v == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// streamSSE reads the "event: progress\ndata: ...\n\n" frames
// handleResolveTurn emits and invokes onFrame for each one.
func streamSSE(resp *http.Response, onFrame func(data []byte)) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %s: %s", resp.Status, string(raw))
	}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			onFrame([]byte(strings.TrimPrefix(line, "data: ")))
		}
	}
	return scanner.Err()
}

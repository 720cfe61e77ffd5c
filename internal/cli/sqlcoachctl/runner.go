package sqlcoachctl

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
	Stdin      io.Reader
}

// Run executes one CLI command against a running sqlcoach API and returns the
// process exit code. Commands that take SQL read it from the remaining
// arguments, or from stdin when the argument is "-".
func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	stdin := defaults.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	fs := flag.NewFlagSet("sqlcoachctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	baseURL := fs.String("base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "sqlcoach API base URL")
	timeout := fs.Duration("timeout", durationOr(defaults.Timeout, 30*time.Second), "HTTP timeout (e.g. 30s)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		writeUsage(stderr)
		return 2
	}

	client := defaults.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: *timeout}
	}

	command := strings.TrimSpace(fs.Arg(0))
	rest := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))

	method := ""
	path := ""
	var payload any
	switch command {
	case "health":
		method, path = http.MethodGet, "/v1/health"
	case "tables":
		method, path = http.MethodGet, "/tables"
	case "reset":
		method, path = http.MethodPost, "/reset"
	case "generate":
		if rest == "" {
			_, _ = fmt.Fprintln(stderr, "generate needs a prompt argument")
			return 2
		}
		method, path = http.MethodPost, "/generate-schema"
		payload = map[string]string{"prompt": rest}
	case "load":
		sqlText, err := readArgument(rest, stdin)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "reading schema: %v\n", err)
			return 1
		}
		if sqlText == "" {
			_, _ = fmt.Fprintln(stderr, "load needs schema SQL as an argument, or \"-\" to read stdin")
			return 2
		}
		method, path = http.MethodPost, "/load-schema"
		payload = map[string]string{"database": sqlText}
	case "query":
		sqlText, err := readArgument(rest, stdin)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "reading query: %v\n", err)
			return 1
		}
		if sqlText == "" {
			_, _ = fmt.Fprintln(stderr, "query needs SQL as an argument, or \"-\" to read stdin")
			return 2
		}
		method, path = http.MethodPost, "/query"
		payload = map[string]string{"sql": sqlText}
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		writeUsage(stderr)
		return 2
	}

	endpoint := strings.TrimRight(*baseURL, "/") + path
	code, responseBody, err := doRequest(ctx, client, method, endpoint, payload)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
		return 1
	}

	if code >= 400 {
		_, _ = fmt.Fprintf(stderr, "http %d: %s\n", code, strings.TrimSpace(string(responseBody)))
		return 1
	}

	if pretty, ok := prettyJSON(responseBody); ok {
		_, _ = fmt.Fprintln(stdout, pretty)
		return 0
	}
	if len(responseBody) > 0 {
		_, _ = fmt.Fprintln(stdout, string(responseBody))
	}
	return 0
}

func readArgument(raw string, stdin io.Reader) (string, error) {
	if raw != "-" {
		return raw, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func doRequest(ctx context.Context, client *http.Client, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, responseBody, nil
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func writeUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: sqlcoachctl [flags] <command> [args]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "commands:")
	_, _ = fmt.Fprintln(w, "  health              GET /v1/health")
	_, _ = fmt.Fprintln(w, "  generate <prompt>   POST /generate-schema")
	_, _ = fmt.Fprintln(w, "  load <sql|->        POST /load-schema (\"-\" reads stdin)")
	_, _ = fmt.Fprintln(w, "  query <sql|->       POST /query (\"-\" reads stdin)")
	_, _ = fmt.Fprintln(w, "  tables              GET /tables")
	_, _ = fmt.Fprintln(w, "  reset               POST /reset")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/dispatch/client"
)

// SendOptions holds options for the send command.
type SendOptions struct {
	*GlobalOptions

	Data    string
	Headers []string
	Query   []string
}

// apiError accepts any JSON object as the expected error model.
type apiError map[string]any

// rawRequest is a descriptor whose payload is supplied verbatim.
type rawRequest struct {
	client.Endpoint[json.RawMessage]

	method  client.Method
	path    string
	headers map[string]string
	payload json.RawMessage
}

func (r rawRequest) Method() client.Method      { return r.method }
func (r rawRequest) Path() string               { return r.path }
func (r rawRequest) Headers() map[string]string { return r.headers }

func (r rawRequest) MarshalJSON() ([]byte, error) {
	return r.payload, nil
}

func newRawRequest(method, path, data string, headers []string) (rawRequest, error) {
	hdrs, err := parsePairs(headers)
	if err != nil {
		return rawRequest{}, fmt.Errorf("parsing headers: %w", err)
	}

	payload := json.RawMessage(`{}`)
	if strings.TrimSpace(data) != "" {
		if !json.Valid([]byte(data)) {
			return rawRequest{}, errors.New("data is not valid JSON")
		}
		payload = json.RawMessage(data)
	}

	return rawRequest{
		method:  client.Method(strings.ToUpper(method)),
		path:    path,
		headers: hdrs,
		payload: payload,
	}, nil
}

// NewSendCommand creates the send command.
func NewSendCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &SendOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "send METHOD PATH",
		Short: "Send a request and print the response",
		Long: `Send a request built from a JSON object and print the status, the outcome
and the decoded body.

For GET and DELETE the object's fields become query parameters; for POST
and PUT the object is sent as the body.`,
		Example: `  # Query parameters from a JSON object
  dispatchctl send GET /weather --data '{"q":"Tokyo"}' --query appid=KEY

  # JSON body with a per-request header
  dispatchctl send POST /users --data '{"name":"alice"}' -H 'X-Trace=on'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), cmd.OutOrStdout(), opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "JSON payload")
	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, "request header as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Query, "query", "q", nil, "session query parameter as key=value (repeatable)")

	return cmd
}

func runSend(ctx context.Context, w io.Writer, opts *SendOptions, method, path string) error {
	cfg := opts.config
	if cfg.Host == "" {
		return errors.New("host is required: set --host, DISPATCH_HOST or host in the config file")
	}

	req, err := newRawRequest(method, path, opts.Data, opts.Headers)
	if err != nil {
		return err
	}

	session, err := newSession(cfg, opts.Query)
	if err != nil {
		return err
	}

	c, err := client.Build[apiError](session, clientOptions(cfg, opts.logger)...)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	resp, err := client.Send[json.RawMessage](ctx, c, req)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrCancelled
	}

	return printResponse(w, resp)
}

func newSession(cfg Config, query []string) (*client.Session, error) {
	session := client.NewSession(cfg.Host)

	headers, err := parsePairs(cfg.Headers)
	if err != nil {
		return nil, fmt.Errorf("parsing configured headers: %w", err)
	}
	for k, v := range headers {
		session.SetHeader(k, v)
	}

	params, err := parsePairs(slices.Concat(cfg.Query, query))
	if err != nil {
		return nil, fmt.Errorf("parsing query parameters: %w", err)
	}
	for k, v := range params {
		session.SetQueryParam(k, v)
	}

	return session, nil
}

func clientOptions(cfg Config, logger *slog.Logger) []client.Option {
	optFns := []client.Option{
		client.WithTimeout(cfg.Timeout),
	}

	if logger != nil {
		optFns = append(optFns, client.WithLogger(logger))
	}
	if cfg.UserAgent != "" {
		optFns = append(optFns, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.RequestID {
		optFns = append(optFns, client.WithRequestID())
	}
	if cfg.RPS > 0 {
		optFns = append(optFns, client.WithThrottle(cfg.RPS, cfg.Burst))
	}

	return optFns
}

func printResponse(w io.Writer, resp *client.Response[json.RawMessage, apiError]) error {
	if _, err := fmt.Fprintf(w, "%d %s\n", resp.Code, resp.Outcome()); err != nil {
		return err
	}

	var body []byte
	switch resp.Outcome() {
	case client.Success:
		body = *resp.Model
	case client.Failure:
		b, err := json.Marshal(resp.Error)
		if err != nil {
			return fmt.Errorf("encoding error model: %w", err)
		}
		body = b
	default:
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		buf.Reset()
		buf.Write(body)
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Builder turns a [Descriptor] and a [SessionSnapshot] into an *http.Request.
// A custom Builder can be installed with [WithBuilder].
type Builder interface {
	Build(ctx context.Context, d Descriptor, s SessionSnapshot) (*http.Request, error)
}

// RequestBuilder is the default [Builder]. The zero value encodes with
// [JSONCodec].
type RequestBuilder struct {
	Codec Codec
}

// queryItem is a single key/value pair. Items keep the order they were
// produced in, unlike url.Values.
type queryItem struct {
	key   string
	value string
}

// Build composes the request URL, query, body and headers.
//
// Headers are layered: Content-Type application/json first, then session
// headers, then descriptor headers. Keys are matched case-sensitively and
// written to the request verbatim.
func (b RequestBuilder) Build(ctx context.Context, d Descriptor, s SessionSnapshot) (*http.Request, error) {
	codec := b.Codec
	if codec == nil {
		codec = JSONCodec{}
	}

	method := d.Method()
	if !method.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	path := d.Path()
	if path == "" {
		return nil, ErrEmptyPath
	}

	endpoint, err := ResolveURL(s.Host, path)
	if err != nil {
		return nil, err
	}

	var items []queryItem
	if method.carriesQuery() {
		items, err = descriptorQuery(codec, d)
		if err != nil {
			return nil, err
		}
	}
	items = append(items, sortedItems(s.QueryParams)...)
	endpoint.RawQuery = encodeQuery(items)

	var body []byte
	if method.carriesBody() {
		body, err = codec.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, string(method), endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	if body == nil {
		req.Body = http.NoBody
		req.ContentLength = 0
		req.GetBody = nil
	}

	for k, v := range MergeHeaders(s.Headers, d.Headers()) {
		req.Header[k] = []string{v}
	}

	return req, nil
}

// MergeHeaders layers the default Content-Type, the session headers and the
// descriptor headers, later layers winning on identical keys.
func MergeHeaders(session, descriptor map[string]string) map[string]string {
	merged := map[string]string{"Content-Type": defaultContentType}

	for k, v := range session {
		merged[k] = v
	}
	for k, v := range descriptor {
		merged[k] = v
	}

	return merged
}

// ResolveURL joins host and path into an absolute URL. A host without a
// scheme is treated as https. Exactly one slash separates host and path:
// a trailing slash on host strips every leading slash from path, and a
// missing slash on both sides is inserted.
func ResolveURL(host, path string) (*url.URL, error) {
	raw := host
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrURLComponents, err)
	}
	if endpoint.Scheme == "" {
		endpoint.Scheme = "https"
	}

	switch {
	case !strings.HasSuffix(host, "/") && !strings.HasPrefix(path, "/"):
		path = "/" + path
	case strings.HasSuffix(host, "/"):
		path = strings.TrimLeft(path, "/")
	}

	endpoint.Path += path
	endpoint.RawPath = ""

	if endpoint.Host == "" {
		return nil, &URLCreationError{Path: endpoint.Path}
	}

	return endpoint, nil
}

// descriptorQuery flattens the encoded descriptor into query items sorted
// by key. Nested objects and arrays are carried as one compact JSON value;
// null values are dropped.
func descriptorQuery(codec Codec, d Descriptor) ([]queryItem, error) {
	data, err := codec.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}

	fields, ok := decoded.(map[string]any)
	if !ok {
		return nil, ErrTypeMismatch
	}

	items := make([]queryItem, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		v, ok, err := queryValue(fields[k])
		if err != nil {
			return nil, fmt.Errorf("encoding query item %q: %w", k, err)
		}
		if !ok {
			continue
		}
		items = append(items, queryItem{key: k, value: v})
	}

	return items, nil
}

func queryValue(v any) (string, bool, error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case json.Number:
		return val.String(), true, nil
	case bool:
		if val {
			return "true", true, nil
		}
		return "false", true, nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return "", false, err
		}
		return strings.TrimSuffix(buf.String(), "\n"), true, nil
	}
}

func sortedItems(m map[string]string) []queryItem {
	items := make([]queryItem, 0, len(m))
	for _, k := range sortedKeys(m) {
		items = append(items, queryItem{key: k, value: m[k]})
	}

	return items
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

func encodeQuery(items []queryItem) string {
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(item.value))
	}

	return sb.String()
}

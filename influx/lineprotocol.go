package influx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Point is one line-protocol measurement sample.
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]any
	Time        time.Time // zero time omits the timestamp
}

// escapers per the v1 line-protocol spec. Measurements escape commas and
// spaces; tag/field keys and tag values additionally escape equals signs.
var (
	measurementEscaper = strings.NewReplacer(",", `\,`, " ", `\ `)
	keyEscaper         = strings.NewReplacer(",", `\,`, " ", `\ `, "=", `\=`)
	stringFieldEscaper = strings.NewReplacer(`"`, `\"`, `\`, `\\`)
)

func appendFieldValue(b *strings.Builder, v any) error {
	switch v := v.(type) {
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case float32:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
		b.WriteByte('i')
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('i')
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
		b.WriteByte('u')
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case string:
		b.WriteByte('"')
		b.WriteString(stringFieldEscaper.Replace(v))
		b.WriteByte('"')
	default:
		return fmt.Errorf("unsupported field type %T", v)
	}
	return nil
}

// Encode renders the point as one line of line protocol (no trailing
// newline). At least one field is required.
func (p Point) Encode() (string, error) {
	if p.Measurement == "" {
		return "", fmt.Errorf("point has no measurement")
	}
	if len(p.Fields) == 0 {
		return "", fmt.Errorf("point %q has no fields", p.Measurement)
	}

	var b strings.Builder
	b.WriteString(measurementEscaper.Replace(p.Measurement))

	tagKeys := make([]string, 0, len(p.Tags))
	for k := range p.Tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Strings(tagKeys)
	for _, k := range tagKeys {
		b.WriteByte(',')
		b.WriteString(keyEscaper.Replace(k))
		b.WriteByte('=')
		b.WriteString(keyEscaper.Replace(p.Tags[k]))
	}

	fieldKeys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		fieldKeys = append(fieldKeys, k)
	}
	sort.Strings(fieldKeys)
	for i, k := range fieldKeys {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteByte(',')
		}
		b.WriteString(keyEscaper.Replace(k))
		b.WriteByte('=')
		if err := appendFieldValue(&b, p.Fields[k]); err != nil {
			return "", fmt.Errorf("point %q: %w", p.Measurement, err)
		}
	}

	if !p.Time.IsZero() {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(p.Time.UnixNano(), 10))
	}
	return b.String(), nil
}

// Write posts the points to db via /write. InfluxDB acknowledges a
// successful write with 204.
func (c *Client) Write(ctx context.Context, db string, points ...Point) error {
	if len(points) == 0 {
		return nil
	}
	var body strings.Builder
	for _, p := range points {
		line, err := p.Encode()
		if err != nil {
			return err
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}

	endpoint := c.baseURL + "/write?db=" + url.QueryEscape(db)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("influx write: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

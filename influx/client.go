// Package influx is a minimal InfluxDB 1.x HTTP client: ping, query,
// database/retention-policy introspection, and line-protocol writes.
package influx

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults for a local InfluxDB instance.
const (
	DefaultHost = "localhost"
	DefaultPort = 8086
)

// Scheme selects the transport protocol for a connection.
type Scheme string

const (
	HTTP  Scheme = "http"
	HTTPS Scheme = "https"
)

// ConnectionParams describes where the InfluxDB server lives. The zero
// value connects to http://localhost:8086.
type ConnectionParams struct {
	Host   string
	Port   int
	Scheme Scheme
}

func (p ConnectionParams) GetHost() string {
	if p.Host == "" {
		return DefaultHost
	}
	return p.Host
}

func (p ConnectionParams) GetPort() int {
	if p.Port == 0 {
		return DefaultPort
	}
	return p.Port
}

func (p ConnectionParams) GetScheme() Scheme {
	if p.Scheme == "" {
		return HTTP
	}
	return p.Scheme
}

// Client talks to a single InfluxDB 1.x server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Open connects using the given parameters.
func Open(params ConnectionParams) (*Client, error) {
	base := fmt.Sprintf("%s://%s:%d", params.GetScheme(), params.GetHost(), params.GetPort())
	return OpenURL(base)
}

// OpenDefault connects to http://localhost:8086.
func OpenDefault() (*Client, error) {
	return Open(ConnectionParams{})
}

// OpenURL connects to the server at baseURL, e.g. "http://db.local:8086".
func OpenURL(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing influx URL %q: %w", baseURL, err)
	}
	if u.Scheme != string(HTTP) && u.Scheme != string(HTTPS) {
		return nil, fmt.Errorf("unsupported influx scheme %q", u.Scheme)
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Ping checks that the server is up. InfluxDB answers 204 (or 200 on
// older versions).
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("influx ping: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("influx ping: unexpected status %d", resp.StatusCode)
	}
}

// query POSTs q as form data against /query, optionally scoped to db.
func (c *Client) query(ctx context.Context, q, db, accept string) (string, error) {
	endpoint := c.baseURL + "/query"
	if db != "" {
		endpoint += "?db=" + url.QueryEscape(db)
	}
	form := url.Values{"q": {q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("influx query: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("influx query: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("influx query: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

// Query runs an InfluxQL statement and returns the raw JSON response.
// db scopes the query to a database; empty means unscoped.
func (c *Client) Query(ctx context.Context, q, db string) (string, error) {
	return c.query(ctx, q, db, "")
}

// QueryCSV runs an InfluxQL statement and returns the response in CSV form.
func (c *Client) QueryCSV(ctx context.Context, q, db string) (string, error) {
	return c.query(ctx, q, db, "application/csv")
}

// csvRows parses an InfluxDB CSV response into per-row column maps. When
// a column name repeats (the leading measurement column is also called
// "name"), the rightmost value wins.
func csvRows(data string) ([]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing influx CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListDatabases returns the database names on the server.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	res, err := c.QueryCSV(ctx, "SHOW DATABASES", "")
	if err != nil {
		return nil, err
	}
	rows, err := csvRows(res)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range rows {
		if name := row["name"]; name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

// RetentionPolicy is one row of SHOW RETENTION POLICIES.
type RetentionPolicy struct {
	Name               string
	Duration           string
	ShardGroupDuration string
	Replicas           int
	Default            bool
}

// ShowRetentionPolicies lists the retention policies, optionally for a
// single database.
func (c *Client) ShowRetentionPolicies(ctx context.Context, db string) ([]RetentionPolicy, error) {
	q := "SHOW RETENTION POLICIES"
	if db != "" {
		q += " ON " + db
	}
	res, err := c.QueryCSV(ctx, q, "")
	if err != nil {
		return nil, err
	}
	rows, err := csvRows(res)
	if err != nil {
		return nil, err
	}
	out := make([]RetentionPolicy, 0, len(rows))
	for _, row := range rows {
		rp := RetentionPolicy{
			Name:               row["name"],
			Duration:           row["duration"],
			ShardGroupDuration: row["shardGroupDuration"],
			Default:            row["default"] == "true",
		}
		rp.Replicas, _ = strconv.Atoi(row["replicaN"])
		out = append(out, rp)
	}
	return out, nil
}

// ShowTagKeys lists the tag keys, optionally for a single database.
func (c *Client) ShowTagKeys(ctx context.Context, db string) ([]string, error) {
	q := "SHOW TAG KEYS"
	if db != "" {
		q += " ON " + db
	}
	res, err := c.QueryCSV(ctx, q, "")
	if err != nil {
		return nil, err
	}
	rows, err := csvRows(res)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range rows {
		if key := row["tagKey"]; key != "" {
			out = append(out, key)
		}
	}
	return out, nil
}

package fluxer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// Query executes q without a database context.
//
// Used for server-level statements such as SHOW DATABASES or CREATE
// DATABASE. Success is HTTP 200 with a JSON body; the body is decoded
// into a Response. A server-side statement failure still arrives as a
// successful Response, check Response.Error for it.
func (c *Client) Query(ctx context.Context, q string) (*Response, error) {
	return c.readQuery(ctx, QueryPath("", q))
}

// QueryDB executes q against the database db.
func (c *Client) QueryDB(ctx context.Context, db, q string) (*Response, error) {
	return c.readQuery(ctx, QueryPath(db, q))
}

// QueryEpochMS executes q against db with timestamps rendered as
// millisecond epochs instead of RFC3339 text.
func (c *Client) QueryEpochMS(ctx context.Context, db, q string) (*Response, error) {
	return c.readQuery(ctx, QueryPathEpochMS(db, q))
}

// CreateDatabase creates the named database.
//
// Fails if the database already exists on servers that enforce it; use
// CreateDatabaseIfNotExists for idempotent setup.
func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	return c.createDatabase(ctx, "CREATE DATABASE "+name, name)
}

// CreateDatabaseIfNotExists creates the named database if it is not
// already present. Safe to run on every startup.
func (c *Client) CreateDatabaseIfNotExists(ctx context.Context, name string) error {
	return c.createDatabase(ctx, "CREATE DATABASE IF NOT EXISTS "+name, name)
}

// createDatabase routes a CREATE DATABASE statement through the no-db
// query path and folds server-side failures into the returned error.
func (c *Client) createDatabase(ctx context.Context, q, name string) error {
	resp, err := c.Query(ctx, q)
	if err != nil {
		return fmt.Errorf("creating database %q: %w", name, err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("creating database %q: %w", name, err)
	}
	return nil
}

// readQuery GETs one query path and decodes the response.
func (c *Client) readQuery(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}

	return decodeResponse(bytes.NewReader(body))
}

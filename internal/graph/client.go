package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Client wraps a process-wide Neo4j driver. It is established once,
// injected where graph access is needed, and reused; a connection
// failure surfaces to the caller rather than being retried here.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewClient(ctx context.Context, uri, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: database}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
}

// EnsureIndexes (re)creates the title index and the full-text search
// index over article titles and content. Run at init; safe to rerun.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	statements := []string{
		`DROP INDEX article_title_idx IF EXISTS`,
		`DROP INDEX article_text_idx IF EXISTS`,
		`CREATE INDEX article_title_idx FOR (a:Article) ON (a.title)`,
		`CREATE FULLTEXT INDEX article_text_idx FOR (a:Article) ON EACH [a.title, a.content]`,
	}

	for _, stmt := range statements {
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, stmt, nil)
			return nil, err
		}); err != nil {
			return fmt.Errorf("ensuring indexes: %w", err)
		}
	}

	return nil
}

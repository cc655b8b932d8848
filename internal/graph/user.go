package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// User is the identity projection kept in the graph.
type User struct {
	Name    string
	Icon    string
	IsAdmin bool
}

// UpsertUser records an authenticated identity, refreshing the icon on
// every login. The isAdmin flag is owned by operators and is never
// overwritten by the upsert.
func (c *Client) UpsertUser(ctx context.Context, name, icon string) (*User, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`MERGE (u:User {name: $name})
ON CREATE SET u.icon = $icon, u.isAdmin = false
ON MATCH SET u.icon = $icon
RETURN u.name AS name, u.icon AS icon, u.isAdmin AS isAdmin`,
			map[string]any{"name": name, "icon": icon})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			record := res.Record()
			nameVal, _ := record.Get("name")
			iconVal, _ := record.Get("icon")
			adminVal, _ := record.Get("isAdmin")
			return &User{
				Name:    asString(nameVal),
				Icon:    asString(iconVal),
				IsAdmin: asBool(adminVal),
			}, nil
		}
		return nil, res.Err()
	})
	if err != nil {
		return nil, queryError(err)
	}
	user, _ := result.(*User)
	return user, nil
}

// SetAdmin flips the operator flag on a user. Not part of the login
// upsert on purpose.
func (c *Client) SetAdmin(ctx context.Context, name string, admin bool) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MATCH (u:User {name: $name}) SET u.isAdmin = $admin`,
			map[string]any{"name": name, "admin": admin})
		return nil, err
	})
	return queryError(err)
}

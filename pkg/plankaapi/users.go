package plankaapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
)

// User is the subset of a Planka user needed for lookups.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// GetUsers lists all users visible to the session.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	raw, err := c.call(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	items, err := itemsOf(raw)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(items))
	for _, item := range items {
		var u User
		if err := json.Unmarshal(item, &u); err != nil {
			return nil, errors.Wrap(err, "decode user")
		}
		users = append(users, u)
	}
	return users, nil
}

// FindUserByEmail looks a user up by exact email. found is false when no
// user matches; err is only set when the lookup itself failed.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (User, bool, error) {
	return c.findUser(ctx, func(u User) bool { return u.Email == email })
}

// FindUserByUsername looks a user up by exact username.
func (c *Client) FindUserByUsername(ctx context.Context, username string) (User, bool, error) {
	return c.findUser(ctx, func(u User) bool { return u.Username == username })
}

func (c *Client) findUser(ctx context.Context, match func(User) bool) (User, bool, error) {
	users, err := c.GetUsers(ctx)
	if err != nil {
		return User{}, false, errors.Wrap(err, "list users")
	}
	for _, u := range users {
		if match(u) {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

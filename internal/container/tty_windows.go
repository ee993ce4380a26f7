package container

import "context"

// monitorTTYSize resizes once; there is no resize signal to follow.
func (c *Client) monitorTTYSize(ctx context.Context, id string, out any) func() {
	c.resizeTTY(ctx, id, out)
	return func() {}
}

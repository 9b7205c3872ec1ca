package fineract

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"
)

// PreloadTemplates fetches the option metadata for several resources
// concurrently, the way the console fires template requests in parallel when
// a screen opens. The first failure cancels the remaining fetches and is
// returned; partial results are discarded.
func (c *Client) PreloadTemplates(ctx context.Context, resources ...string) (map[string]json.RawMessage, error) {
	for _, r := range resources {
		if err := validResource(r); err != nil {
			return nil, err
		}
	}

	results := make([]json.RawMessage, len(resources))
	g, ctx := errgroup.WithContext(ctx)
	for i, resource := range resources {
		g.Go(func() error {
			tpl, err := c.Template(ctx, resource)
			if err != nil {
				return err
			}
			results[i] = tpl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	templates := make(map[string]json.RawMessage, len(resources))
	for i, resource := range resources {
		templates[resource] = results[i]
	}
	return templates, nil
}

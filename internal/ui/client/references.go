package client

import (
	"context"
	"net/url"

	"github.com/emasmetal/website/internal/ui/types"
)

const referencesPath = "/api/references"

// ListReferences returns the portfolio references.
// When industry is not empty it is sent as the industry query parameter and the API does the filtering.
func (c *Client) ListReferences(ctx context.Context, industry string) ([]types.Reference, error) {
	var refs []types.Reference
	if err := c.getJSON(ctx, referencesPath, url.Values{"industry": {industry}}, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// GetReference returns a single reference
func (c *Client) GetReference(ctx context.Context, id string) (*types.Reference, error) {
	var ref types.Reference
	if err := c.getJSON(ctx, referencesPath+"/"+url.PathEscape(id), nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

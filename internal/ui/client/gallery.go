package client

import (
	"context"
	"net/url"

	"github.com/emasmetal/website/internal/ui/types"
)

const galleryPath = "/api/gallery"

// ListGalleryItems returns the gallery images.
// When category is not empty it is sent verbatim as the category query parameter.
func (c *Client) ListGalleryItems(ctx context.Context, category string) ([]types.GalleryItem, error) {
	var items []types.GalleryItem
	if err := c.getJSON(ctx, galleryPath, url.Values{"category": {category}}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetGalleryItem returns a single gallery image
func (c *Client) GetGalleryItem(ctx context.Context, id string) (*types.GalleryItem, error) {
	var item types.GalleryItem
	if err := c.getJSON(ctx, galleryPath+"/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

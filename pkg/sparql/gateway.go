package sparql

import "context"

// Gateway runs the canned catalog queries and returns their N3 text.
type Gateway struct {
	client  *Client
	creator string
}

// NewGateway wraps client. An empty creator selects DefaultCreator.
func NewGateway(client *Client, creator string) *Gateway {
	if creator == "" {
		creator = DefaultCreator
	}
	return &Gateway{client: client, creator: creator}
}

func (g *Gateway) FetchCatalogDescriptions(ctx context.Context) (string, error) {
	return g.construct(ctx, CatalogDescriptionsQuery(g.creator))
}

func (g *Gateway) FetchCubeSample(ctx context.Context, cube string) (string, error) {
	return g.construct(ctx, CubeSampleQuery(cube))
}

func (g *Gateway) FetchDimensionLabels(ctx context.Context, cube string) (string, error) {
	return g.construct(ctx, DimensionLabelsQuery(cube))
}

func (g *Gateway) construct(ctx context.Context, query string) (string, error) {
	raw, err := g.client.Execute(ctx, query, FormatN3)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

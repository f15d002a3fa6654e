// Package graphclient reads knowledge graph neighborhoods from the
// graph indexing upstream.
package graphclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/the-beginners-2025/backend-go/cmd/api/httpclient"
)

// NodeProperties describes one extracted entity.
type NodeProperties struct {
	Description string `json:"description"`
	EntityID    string `json:"entity_id"`
	EntityType  string `json:"entity_type"`
	FilePath    string `json:"file_path"`
	SourceID    string `json:"source_id"`
}

// Node is one entity in the graph.
type Node struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties NodeProperties `json:"properties"`
}

// EdgeProperties describes one extracted relation.
type EdgeProperties struct {
	Description string  `json:"description"`
	FilePath    string  `json:"file_path"`
	Keywords    string  `json:"keywords"`
	SourceID    string  `json:"source_id"`
	Weight      float64 `json:"weight"`
}

// Edge is one relation between two entities.
type Edge struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Properties EdgeProperties `json:"properties"`
}

// Graph is the neighborhood around a label. IsTruncated reports that
// the node budget cut the traversal short.
type Graph struct {
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
	IsTruncated bool   `json:"is_truncated"`
}

// Client reads from the graph upstream.
type Client struct {
	base *httpclient.BaseClient
}

func New(endpoint string) *Client {
	return &Client{base: httpclient.NewBaseClient(endpoint)}
}

// Fetch returns the neighborhood around label, bounded by depth and
// node count.
func (c *Client) Fetch(ctx context.Context, label string, maxDepth, maxNodes int) (Graph, error) {
	query := url.Values{
		"label":     {label},
		"max_depth": {strconv.Itoa(maxDepth)},
		"max_nodes": {strconv.Itoa(maxNodes)},
	}
	req, err := c.base.NewRequest(ctx, http.MethodGet, "graphs", query, nil)
	if err != nil {
		return Graph{}, err
	}
	resp, err := c.base.Do(req)
	if err != nil {
		return Graph{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Graph{}, fmt.Errorf("graphclient: upstream returned status %d", resp.StatusCode)
	}

	var graph Graph
	if err := json.NewDecoder(resp.Body).Decode(&graph); err != nil {
		return Graph{}, fmt.Errorf("graphclient: decode graph: %w", err)
	}
	return graph, nil
}

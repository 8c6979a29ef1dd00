package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

const keyPrefix = "docoutline/outlines/by_hash/"

// Pathstore caches results as pathstore nodes.
type Pathstore struct {
	client *pathstore.Client
}

func NewPathstore(client *pathstore.Client) *Pathstore {
	return &Pathstore{client: client}
}

func (p *Pathstore) Get(ctx context.Context, key string) (outline.Result, bool, error) {
	node, err := p.client.GetNode(ctx, keyPrefix+key)
	if err != nil {
		return outline.Result{}, false, err
	}
	if node == nil {
		return outline.Result{}, false, nil
	}
	var res outline.Result
	if err := json.Unmarshal(node.Value, &res); err != nil {
		return outline.Result{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return res, true, nil
}

func (p *Pathstore) Put(ctx context.Context, key string, res outline.Result) error {
	return p.client.PutNode(ctx, keyPrefix+key, pathstore.NodeRequest{
		Value:  res,
		Source: "docoutline",
	})
}

func (p *Pathstore) Purge(ctx context.Context) (int, error) {
	nodes, err := p.client.ListChildren(ctx, strings.TrimSuffix(keyPrefix, "/"), 0)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, n := range nodes {
		if !strings.HasPrefix(n.Key, keyPrefix) {
			continue
		}
		if err := p.client.DeleteNode(ctx, n.Key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (p *Pathstore) Close() error {
	p.client.Close()
	return nil
}

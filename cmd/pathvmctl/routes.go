package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pathvm/pathvm"
)

// routeTable is the on-disk shape of a routing table file: a flat mapping of template to a
// human-readable label, e.g.
//
//	/api/users/{id}: get-user
//	/static/*: static-assets
type routeTable map[string]string

func loadRouteTable(path string) (routeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route table: %w", err)
	}
	var rt routeTable
	if err := yaml.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("parse route table %s: %w", path, err)
	}
	return rt, nil
}

func buildEngine(rt routeTable) (*pathvm.Engine[string], error) {
	e, err := pathvm.New[string]()
	if err != nil {
		return nil, err
	}
	if err := e.InsertBatchFromMap(rt); err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return e, nil
}

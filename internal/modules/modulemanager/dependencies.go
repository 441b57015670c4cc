package modulemanager

import (
	"fmt"
	"sort"
)

// dependencyNode represents a module in the dependency graph
type dependencyNode struct {
	module       Module
	dependencies []string
	visited      bool
	inStack      bool
}

// ModuleDependencyGraph represents the dependency relationships between modules
type ModuleDependencyGraph struct {
	nodes map[string]*dependencyNode
}

// BuildDependencyGraph creates a dependency graph from the enabled modules.
// A dependency on an unknown or disabled module is an error, as is a cycle.
func BuildDependencyGraph(modules map[string]Module) (*ModuleDependencyGraph, error) {
	graph := &ModuleDependencyGraph{nodes: make(map[string]*dependencyNode, len(modules))}

	for id, module := range modules {
		node := &dependencyNode{module: module}
		if provider, ok := module.(DependencyProvider); ok {
			node.dependencies = append(node.dependencies, provider.Dependencies()...)
		}
		graph.nodes[id] = node
	}

	for id, node := range graph.nodes {
		for _, depID := range node.dependencies {
			if _, exists := graph.nodes[depID]; !exists {
				return nil, fmt.Errorf("module %s depends on unavailable module %s", id, depID)
			}
		}
	}

	for _, id := range graph.sortedIDs() {
		if !graph.nodes[id].visited {
			if err := graph.detectCyclesDFS(id, nil); err != nil {
				return nil, err
			}
		}
	}

	return graph, nil
}

func (g *ModuleDependencyGraph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *ModuleDependencyGraph) detectCyclesDFS(nodeID string, path []string) error {
	node := g.nodes[nodeID]
	node.visited = true
	node.inStack = true
	path = append(path, nodeID)

	for _, depID := range node.dependencies {
		depNode := g.nodes[depID]
		if !depNode.visited {
			if err := g.detectCyclesDFS(depID, path); err != nil {
				return err
			}
			continue
		}
		if depNode.inStack {
			for i, id := range path {
				if id == depID {
					cycle := append(append([]string{}, path[i:]...), depID)
					return fmt.Errorf("circular dependency detected: %v", cycle)
				}
			}
		}
	}

	node.inStack = false
	return nil
}

// InitializationOrder returns modules with every dependency ahead of its
// dependents. Independent modules are ordered by id so startup is repeatable.
func (g *ModuleDependencyGraph) InitializationOrder() []Module {
	order := make([]Module, 0, len(g.nodes))
	visited := make(map[string]bool, len(g.nodes))

	var visit func(string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		node := g.nodes[id]

		deps := append([]string{}, node.dependencies...)
		sort.Strings(deps)
		for _, depID := range deps {
			visit(depID)
		}
		order = append(order, node.module)
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}
	return order
}

// Dependencies returns the declared dependencies of a module.
func (g *ModuleDependencyGraph) Dependencies(moduleID string) ([]string, error) {
	node, exists := g.nodes[moduleID]
	if !exists {
		return nil, fmt.Errorf("module %s not found", moduleID)
	}
	return node.dependencies, nil
}

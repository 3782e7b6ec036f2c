package modeling

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// LinkSharedParameters re-links parameters shared across models.
//
// Models are walked in order; the first parameter seen for each ID becomes
// the canonical instance, and later occurrences are replaced by it — in the
// model's flat collection and, for composite sky models, in the nested
// spatial/spectral collections as well. Replacement is positional so slot
// order is preserved. After linking, edits to a canonical parameter are
// visible through every owning model.
func LinkSharedParameters(models []Model) {
	canonical := make(map[string]*Parameter)
	for _, m := range models {
		flat := m.Parameters()
		for i := 0; i < flat.Len(); i++ {
			p := flat.At(i)
			canon, ok := canonical[p.ID()]
			if !ok {
				canonical[p.ID()] = p
				continue
			}
			if canon == p {
				continue
			}
			flat.Replace(i, canon)
			if sky, ok := m.(*SkyModel); ok {
				for _, nested := range []*Parameters{sky.spatial.Parameters(), sky.spectral.Parameters()} {
					if j := nested.IndexOfID(p.ID()); j >= 0 {
						nested.Replace(j, canon)
					}
				}
			}
		}
	}
}

const (
	modelVertexPrefix = "model/"
	paramVertexPrefix = "param/"
)

// shareGraph builds the directed ownership graph model → parameter over a
// model list. Parameter vertices are keyed by ID, so a parameter object
// referenced from several models is a single vertex with several incoming
// edges.
func shareGraph(models []Model) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, m := range models {
		if err := addOwnership(g, m.Name(), m.Parameters().Records()); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func addOwnership(g graph.Graph[string, string], owner string, params []ParameterRecord) error {
	ownerVertex := modelVertexPrefix + owner
	err := g.AddVertex(ownerVertex, graph.VertexAttribute("label", owner), graph.VertexAttribute("shape", "box"))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add model vertex %q: %w", owner, err)
	}

	for _, p := range params {
		if p.ID == "" {
			continue
		}
		paramVertex := paramVertexPrefix + p.ID
		err := g.AddVertex(paramVertex, graph.VertexAttribute("label", p.Name))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add parameter vertex %q: %w", p.Name, err)
		}
		if err := g.AddEdge(ownerVertex, paramVertex); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to add ownership edge %q -> %q: %w", owner, p.Name, err)
		}
	}
	return nil
}

// sharedIDs returns the IDs of parameters with more than one owning model.
func sharedIDs(g graph.Graph[string, string]) (map[string]bool, error) {
	preds, err := g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("failed to compute predecessor map: %w", err)
	}
	shared := make(map[string]bool)
	for vertex, in := range preds {
		if strings.HasPrefix(vertex, paramVertexPrefix) && len(in) > 1 {
			shared[strings.TrimPrefix(vertex, paramVertexPrefix)] = true
		}
	}
	return shared, nil
}

// sharedLinks computes the explicit shared-parameter relation for a model
// list: one link per shared parameter, owners in first-occurrence order.
func sharedLinks(models []Model) ([]ParameterLink, error) {
	g, err := shareGraph(models)
	if err != nil {
		return nil, err
	}
	shared, err := sharedIDs(g)
	if err != nil {
		return nil, err
	}
	if len(shared) == 0 {
		return nil, nil
	}

	var links []ParameterLink
	index := make(map[string]int)
	for _, m := range models {
		for _, p := range m.Parameters().All() {
			if !shared[p.ID()] {
				continue
			}
			i, ok := index[p.ID()]
			if !ok {
				index[p.ID()] = len(links)
				links = append(links, ParameterLink{ID: p.ID(), Name: p.Name(), Owners: []string{m.Name()}})
				continue
			}
			if !containsString(links[i].Owners, m.Name()) {
				links[i].Owners = append(links[i].Owners, m.Name())
			}
		}
	}
	return links, nil
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

// ShareDOT writes the model/parameter ownership graph of live models in DOT
// format.
func ShareDOT(models []Model, w io.Writer) error {
	g, err := shareGraph(models)
	if err != nil {
		return err
	}
	return draw.DOT(g, w)
}

// ComponentsShareDOT writes the ownership graph of a serialized components
// dict in DOT format. Unlike ShareDOT it works purely on records, so it does
// not require template files to be readable.
func ComponentsShareDOT(c *Components, w io.Writer) error {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, rec := range c.Components {
		var params []ParameterRecord
		for _, sub := range []*ModelRecord{rec.Model, rec.Spatial, rec.Spectral} {
			if sub != nil {
				params = append(params, sub.Parameters...)
			}
		}
		if err := addOwnership(g, rec.Name, params); err != nil {
			return err
		}
	}
	return draw.DOT(g, w)
}

// Package graphml decodes GraphML documents, as exported by Gephi or
// networkx, into an attributed weighted graph.
//
// Only the subset needed for community scoring is read: typed <key>
// declarations with optional defaults, node <data> attributes, and the
// numeric edge weight. Nested graphs, hyperedges and ports are not supported.
// Edges are always treated as undirected; a directed file whose edges appear
// in both directions ends up with the summed weight.
package graphml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-conductance/pkg/graph"
)

// ErrMalformed is wrapped by every decoding failure
var ErrMalformed = errors.New("graphml: malformed document")

// DefaultWeightKey is the attr.name Gephi and networkx use for edge weights
const DefaultWeightKey = "weight"

// Options controls how edge weights are read
type Options struct {
	// WeightKey is the attr.name of the edge weight key. Empty means DefaultWeightKey.
	WeightKey string
	// DefaultWeight applies to edges without weight data or key default.
	// Zero means 1.
	DefaultWeight float64
	// Unweighted ignores weight data and gives every edge weight 1
	Unweighted bool
}

func (o Options) weightKey() string {
	if o.WeightKey == "" {
		return DefaultWeightKey
	}
	return o.WeightKey
}

func (o Options) defaultWeight() float64 {
	if o.DefaultWeight == 0 {
		return 1
	}
	return o.DefaultWeight
}

type document struct {
	XMLName xml.Name    `xml:"graphml"`
	Keys    []keyDecl   `xml:"key"`
	Graphs  []graphElem `xml:"graph"`
}

type keyDecl struct {
	ID      string  `xml:"id,attr"`
	For     string  `xml:"for,attr"`
	Name    string  `xml:"attr.name,attr"`
	Type    string  `xml:"attr.type,attr"`
	Default *string `xml:"default"`
}

type graphElem struct {
	ID          string     `xml:"id,attr"`
	EdgeDefault string     `xml:"edgedefault,attr"`
	Nodes       []nodeElem `xml:"node"`
	Edges       []edgeElem `xml:"edge"`
}

type nodeElem struct {
	ID   string     `xml:"id,attr"`
	Data []dataElem `xml:"data"`
}

type edgeElem struct {
	ID     string     `xml:"id,attr"`
	Source string     `xml:"source,attr"`
	Target string     `xml:"target,attr"`
	Data   []dataElem `xml:"data"`
}

type dataElem struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// key is a resolved <key> declaration
type key struct {
	name     string
	typ      string
	def      graph.Value
	hasDef   bool
	forNodes bool
	forEdges bool
}

// Decode reads a GraphML document from r. Only the first <graph> element is used.
func Decode(r io.Reader, opts Options) (*graph.Graph, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(doc.Graphs) == 0 {
		return nil, fmt.Errorf("%w: no <graph> element", ErrMalformed)
	}

	keys, err := resolveKeys(doc.Keys)
	if err != nil {
		return nil, err
	}

	b := graph.NewBuilder()
	g := doc.Graphs[0]

	for _, n := range g.Nodes {
		attrs, err := nodeAttributes(n, keys)
		if err != nil {
			return nil, err
		}
		if err := b.AddNode(n.ID, attrs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	def, err := weightDefault(keys, opts)
	if err != nil {
		return nil, err
	}
	for i, e := range g.Edges {
		w, err := edgeWeight(e, keys, opts, def)
		if err != nil {
			return nil, fmt.Errorf("%w: edge %d (%s-%s): %v", ErrMalformed, i, e.Source, e.Target, err)
		}
		for _, end := range []string{e.Source, e.Target} {
			if end != "" && !b.HasNode(end) {
				// GraphML readers create nodes referenced only by edges.
				if err := b.AddNode(end, defaultAttributes(keys)); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
				}
			}
		}
		if err := b.AddEdge(e.Source, e.Target, w); err != nil {
			return nil, fmt.Errorf("%w: edge %d: %w", ErrMalformed, i, err)
		}
	}

	return b.Build(), nil
}

func resolveKeys(decls []keyDecl) (map[string]key, error) {
	keys := make(map[string]key, len(decls))
	for _, d := range decls {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: <key> without id", ErrMalformed)
		}
		k := key{
			name:     d.Name,
			typ:      strings.ToLower(d.Type),
			forNodes: d.For == "" || d.For == "node" || d.For == "all",
			forEdges: d.For == "" || d.For == "edge" || d.For == "all",
		}
		if k.name == "" {
			k.name = d.ID
		}
		if k.typ == "" {
			k.typ = "string"
		}
		if d.Default != nil {
			v, err := parseValue(k.typ, *d.Default)
			if err != nil {
				return nil, fmt.Errorf("%w: default of key %q: %v", ErrMalformed, d.ID, err)
			}
			k.def, k.hasDef = v, true
		}
		keys[d.ID] = k
	}
	return keys, nil
}

func defaultAttributes(keys map[string]key) map[string]graph.Value {
	attrs := make(map[string]graph.Value)
	for _, k := range keys {
		if k.forNodes && k.hasDef {
			attrs[k.name] = k.def
		}
	}
	return attrs
}

func nodeAttributes(n nodeElem, keys map[string]key) (map[string]graph.Value, error) {
	attrs := defaultAttributes(keys)
	for _, d := range n.Data {
		k, ok := keys[d.Key]
		if !ok {
			return nil, fmt.Errorf("%w: node %q: undeclared key %q", ErrMalformed, n.ID, d.Key)
		}
		v, err := parseValue(k.typ, d.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: key %q: %v", ErrMalformed, n.ID, d.Key, err)
		}
		attrs[k.name] = v
	}
	return attrs, nil
}

// weightDefault is the weight of an edge without weight data: the weight
// key's <default> when declared, else Options.DefaultWeight.
func weightDefault(keys map[string]key, opts Options) (float64, error) {
	for id, k := range keys {
		if k.forEdges && k.name == opts.weightKey() && k.hasDef {
			f, err := k.def.AsFloat()
			if err != nil {
				return 0, fmt.Errorf("%w: default of weight key %q: %v", ErrMalformed, id, err)
			}
			return f, nil
		}
	}
	return opts.defaultWeight(), nil
}

func edgeWeight(e edgeElem, keys map[string]key, opts Options, def float64) (float64, error) {
	if opts.Unweighted {
		return 1, nil
	}
	name := opts.weightKey()

	w, found := def, false
	for _, d := range e.Data {
		k, ok := keys[d.Key]
		if !ok {
			return 0, fmt.Errorf("undeclared key %q", d.Key)
		}
		if k.name != name || !k.forEdges {
			continue
		}
		if found {
			return 0, fmt.Errorf("weight given twice")
		}
		v, err := parseValue(k.typ, d.Value)
		if err != nil {
			return 0, err
		}
		if w, err = v.AsFloat(); err != nil {
			return 0, err
		}
		found = true
	}
	return w, nil
}

func parseValue(typ, raw string) (graph.Value, error) {
	s := strings.TrimSpace(raw)
	switch typ {
	case "string":
		return graph.StringValue(raw), nil
	case "int", "long":
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return graph.Value{}, err
		}
		return graph.IntValue(i), nil
	case "float", "double":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return graph.Value{}, err
		}
		return graph.FloatValue(f), nil
	case "boolean":
		b, err := strconv.ParseBool(s)
		if err != nil {
			return graph.Value{}, err
		}
		return graph.BoolValue(b), nil
	default:
		return graph.Value{}, fmt.Errorf("unsupported attr.type %q", typ)
	}
}

package graphtest

import (
	"fmt"
	"strings"
)

// GraphML renders a Gephi-style GraphML document with the same node and
// edge layout Build takes. Labelled nodes carry an int ModularityClass.
func GraphML(ids []string, labels map[string]int64, edges []Edge) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<graphml xmlns="http://graphml.graphdrawing.org/xmlns">` + "\n")
	fmt.Fprintf(&sb, `  <key attr.name=%q attr.type="int" for="node" id="modularity_class"/>`+"\n", ModularityClass)
	sb.WriteString(`  <key attr.name="weight" attr.type="double" for="edge" id="weight"/>` + "\n")
	sb.WriteString(`  <graph edgedefault="undirected">` + "\n")
	for _, id := range ids {
		if l, ok := labels[id]; ok {
			fmt.Fprintf(&sb, `    <node id=%q><data key="modularity_class">%d</data></node>`+"\n", id, l)
		} else {
			fmt.Fprintf(&sb, `    <node id=%q/>`+"\n", id)
		}
	}
	for _, e := range edges {
		fmt.Fprintf(&sb, `    <edge source=%q target=%q><data key="weight">%g</data></edge>`+"\n", e.From, e.To, e.Weight)
	}
	sb.WriteString("  </graph>\n</graphml>\n")
	return sb.String()
}

// TwoCliquesGraphML is the GraphML form of TwoCliques
func TwoCliquesGraphML(size int) string {
	var ids []string
	labels := make(map[string]int64)
	var edges []Edge
	for c, prefix := range []string{"a", "b"} {
		for i := 0; i < size; i++ {
			id := fmt.Sprintf("%s%d", prefix, i)
			ids = append(ids, id)
			labels[id] = int64(c)
		}
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				edges = append(edges, Edge{From: fmt.Sprintf("%s%d", prefix, i), To: fmt.Sprintf("%s%d", prefix, j), Weight: 1})
			}
		}
	}
	edges = append(edges, Edge{From: "a0", To: "b0", Weight: 1})
	return GraphML(ids, labels, edges)
}

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gemtract/core/internal/models"
)

// encodeDOT writes a Graphviz digraph with one statement per node and per
// edge. Enzyme networks are still written as a digraph; edge direction there
// carries no meaning.
func encodeDOT(buf *bytes.Buffer, network *models.Network) error {
	fmt.Fprintf(buf, "digraph %s {\n", dotID(modelID(network)))

	for _, node := range network.Nodes {
		fmt.Fprintf(buf, "  %s [label=%s, type=%s];\n",
			dotID(node.ID), dotID(node.Label()), dotID(string(node.Type)))
	}
	for _, edge := range network.Edges {
		if edge.Reaction != "" {
			fmt.Fprintf(buf, "  %s -> %s [reaction=%s];\n",
				dotID(edge.Source), dotID(edge.Target), dotID(edge.Reaction))
			continue
		}
		fmt.Fprintf(buf, "  %s -> %s;\n", dotID(edge.Source), dotID(edge.Target))
	}

	buf.WriteString("}\n")
	return nil
}

var dotEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", " ",
)

func dotID(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gemtract/core/internal/models"
)

// encodeGML writes a GML graph. Nodes get consecutive integer ids; the
// original identifier travels in the label attribute.
func encodeGML(buf *bytes.Buffer, network *models.Network) error {
	directed := 1
	if network.Kind == models.EnzymeNetwork {
		directed = 0
	}

	fmt.Fprintf(buf, "graph [\n  directed %d\n", directed)
	if network.Name != "" {
		fmt.Fprintf(buf, "  name %s\n", gmlString(network.Name))
	}

	index := make(map[string]int, len(network.Nodes))
	for i, node := range network.Nodes {
		index[node.ID] = i
		buf.WriteString("  node [\n")
		fmt.Fprintf(buf, "    id %d\n", i)
		fmt.Fprintf(buf, "    label %s\n", gmlString(node.ID))
		fmt.Fprintf(buf, "    name %s\n", gmlString(node.Label()))
		fmt.Fprintf(buf, "    type %s\n", gmlString(string(node.Type)))
		buf.WriteString("  ]\n")
	}

	for _, edge := range network.Edges {
		buf.WriteString("  edge [\n")
		fmt.Fprintf(buf, "    source %d\n", index[edge.Source])
		fmt.Fprintf(buf, "    target %d\n", index[edge.Target])
		if edge.Reaction != "" {
			fmt.Fprintf(buf, "    reaction %s\n", gmlString(edge.Reaction))
		}
		buf.WriteString("  ]\n")
	}

	buf.WriteString("]\n")
	return nil
}

// gmlString quotes s as a GML string. GML strings are 7-bit ASCII without
// double quotes, so those and everything outside printable ASCII become
// character references.
func gmlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '"':
			b.WriteString("&quot;")
		case r < 0x20 || r > 0x7e:
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

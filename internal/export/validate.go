package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/gemtract/core/internal/apperr"
	"github.com/gemtract/core/internal/models"
)

// checkNetwork rejects networks that no codec can represent faithfully:
// identifiers that are not printable UTF-8, duplicate node ids and edges
// whose endpoints are not nodes of the network.
func checkNetwork(network *models.Network, format Format) error {
	if network == nil {
		return apperr.NewSerializationError(string(format), "no network to serialise")
	}
	fail := func(msg string, args ...any) error {
		return apperr.NewSerializationError(string(format), fmt.Sprintf(msg, args...))
	}

	if err := checkText(network.Name, true); err != nil {
		return fail("network name %q: %v", network.Name, err)
	}

	seen := make(map[string]struct{}, len(network.Nodes))
	for _, node := range network.Nodes {
		if node.ID == "" {
			return fail("node without identifier")
		}
		if err := checkText(node.ID, false); err != nil {
			return fail("node identifier %q: %v", node.ID, err)
		}
		if err := checkText(node.Name, true); err != nil {
			return fail("name of node %q: %v", node.ID, err)
		}
		if err := checkText(node.Compartment, false); err != nil {
			return fail("compartment of node %q: %v", node.ID, err)
		}
		if _, dup := seen[node.ID]; dup {
			return fail("duplicate node identifier %q", node.ID)
		}
		seen[node.ID] = struct{}{}
	}

	for i, edge := range network.Edges {
		if _, ok := seen[edge.Source]; !ok {
			return fail("edge %d: unknown source %q", i, edge.Source)
		}
		if _, ok := seen[edge.Target]; !ok {
			return fail("edge %d: unknown target %q", i, edge.Target)
		}
		if err := checkText(edge.Reaction, false); err != nil {
			return fail("edge %d reaction %q: %v", i, edge.Reaction, err)
		}
	}
	return nil
}

// checkText accepts valid UTF-8 free of control characters. Names may also
// carry tab, line feed and carriage return.
func checkText(s string, whitespace bool) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid UTF-8")
	}
	for _, r := range s {
		switch {
		case whitespace && (r == '\t' || r == '\n' || r == '\r'):
		case r < 0x20, r == 0x7f:
			return fmt.Errorf("control character %U", r)
		case r >= 0x80 && r < 0xa0:
			return fmt.Errorf("control character %U", r)
		case r == 0xfffe, r == 0xffff:
			return fmt.Errorf("non-character %U", r)
		}
	}
	return nil
}

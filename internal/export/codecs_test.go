package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemtract/core/internal/models"
)

func quotedNetwork() *models.Network {
	return &models.Network{
		Kind: models.EnzymeNetwork,
		Name: `odd "names"`,
		Nodes: []models.Node{
			{ID: "x", Name: `say "hi" & leave`, Type: models.NodeEnzyme},
			{ID: "é", Name: "café", Type: models.NodeEnzyme},
		},
		Edges: []models.Edge{{Source: "x", Target: "é", Reaction: `r\1`}},
	}
}

func TestGraphML(t *testing.T) {
	t.Run("edge direction follows the view", func(t *testing.T) {
		assert.Contains(t, render(t, metabolicFixture(), FormatGraphML), `edgedefault="directed"`)
		assert.Contains(t, render(t, enzymeFixture(nil), FormatGraphML), `edgedefault="undirected"`)
	})

	t.Run("well formed with escaped names", func(t *testing.T) {
		out := render(t, quotedNetwork(), FormatGraphML)

		dec := xml.NewDecoder(strings.NewReader(out))
		for {
			_, err := dec.Token()
			if err != nil {
				assert.Equal(t, "EOF", err.Error())
				break
			}
		}
		assert.Contains(t, out, `<data key="d2">r\1</data>`)
		assert.Contains(t, out, `say &#34;hi&#34; &amp; leave`)
	})

	t.Run("enzyme edges carry their reaction", func(t *testing.T) {
		out := render(t, enzymeFixture(nil), FormatGraphML)
		assert.Equal(t, 8, strings.Count(out, `<data key="d2">`))
	})
}

func TestGML(t *testing.T) {
	t.Run("directed flag", func(t *testing.T) {
		assert.Contains(t, render(t, metabolicFixture(), FormatGML), "directed 1\n")
		assert.Contains(t, render(t, enzymeFixture(nil), FormatGML), "directed 0\n")
	})

	t.Run("edges reference integer node ids", func(t *testing.T) {
		out := render(t, quotedNetwork(), FormatGML)
		assert.Contains(t, out, "    source 0\n    target 1\n")
	})

	t.Run("strings are ascii", func(t *testing.T) {
		out := render(t, quotedNetwork(), FormatGML)

		assert.Contains(t, out, `name "say &quot;hi&quot; &amp; leave"`)
		assert.Contains(t, out, `label "&#233;"`)
		assert.Contains(t, out, `name "caf&#233;"`)
		for _, r := range out {
			assert.Less(t, r, rune(0x80))
		}
	})
}

func TestDOT(t *testing.T) {
	out := render(t, quotedNetwork(), FormatDOT)

	assert.True(t, strings.HasPrefix(out, `digraph "odd \"names\"" {`))
	assert.Contains(t, out, `"x" [label="say \"hi\" & leave", type="enzyme"];`)
	assert.Contains(t, out, `"x" -> "é" [reaction="r\\1"];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestDOTMetabolicEdges(t *testing.T) {
	out := render(t, metabolicFixture(), FormatDOT)

	assert.Contains(t, out, `  "s1" -> "r1";`)
	assert.Contains(t, out, `  "r1" -> "s2";`)
	assert.Contains(t, out, `"r7" [label="spontaneous", type="reaction"];`)
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, checkText("plain", false))
	assert.NoError(t, checkText("two\nlines", true))
	assert.Error(t, checkText("two\nlines", false))
	assert.Error(t, checkText("bell\a", true))
	assert.Error(t, checkText("\u0085", true))
	assert.Error(t, checkText("\xc3", true))
}

func TestSIDAllocator(t *testing.T) {
	ids := newSIDAllocator()

	assert.Equal(t, "a___b", ids.assign("a + b"))
	assert.Equal(t, "a___b", ids.assign("a + b"))
	assert.Equal(t, "a___b_2", ids.assign("a - b"))
	assert.Equal(t, "a___b_3", ids.fresh("a + b"))
	assert.Equal(t, "_9lives", ids.assign("9lives"))
	assert.Equal(t, "_", ids.assign(""))

	require.Equal(t, "_", toSID(""))
	assert.Equal(t, "caf_", toSID("café"))
}

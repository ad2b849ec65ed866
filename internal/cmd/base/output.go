package base

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func (c *Command) checkFormat() error {
	switch c.flagFormat {
	case "", FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, expected json or yaml", c.flagFormat)
	}
}

// OutputResource writes a resource to the UI in the selected format.
func (c *Command) OutputResource(r imeji.Resource) error {
	return c.output(r.Document())
}

// OutputReferences writes list results as an object keyed by identifier.
func (c *Command) OutputReferences(refs *imeji.References) error {
	doc := imeji.NewDocument()
	for _, id := range refs.IDs() {
		summary, _ := refs.Get(id)
		doc.Set(id, summary)
	}
	return c.output(doc)
}

func (c *Command) output(doc *imeji.Document) error {
	var (
		out string
		err error
	)
	switch c.flagFormat {
	case FormatYAML:
		out, err = toYAML(doc)
	default:
		out, err = doc.Pretty()
	}
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	c.UI.Output(out)
	return nil
}

// toYAML converts the document through its JSON form, which is valid YAML,
// keeping field order and number literals.
func toYAML(doc *imeji.Document) (string, error) {
	js, err := doc.Dumps()
	if err != nil {
		return "", err
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(js), &node); err != nil {
		return "", err
	}
	blockStyle(&node)
	b, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

// blockStyle drops the flow and quoting styles the JSON input carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

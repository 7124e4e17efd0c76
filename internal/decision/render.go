package decision

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// unknownLabel is printed for leaves with no entity.
const unknownLabel = "(desconocido)"

// Render draws the tree as indented text, one node per line.
func Render(root Node) string {
	var b strings.Builder
	renderNode(&b, root, "", "")
	return b.String()
}

func renderNode(b *strings.Builder, n Node, label, prefix string) {
	switch n := n.(type) {
	case *Leaf:
		name := n.Answer
		if !n.Known {
			name = unknownLabel
		}
		fmt.Fprintf(b, "%s%s\n", label, name)
	case *Split:
		fmt.Fprintf(b, "%s%s?\n", label, n.Characteristic)
		renderNode(b, n.Yes, prefix+"├─ sí: ", prefix+"│  ")
		renderNode(b, n.No, prefix+"└─ no: ", prefix+"   ")
	}
}

// yamlNode is the serialized form of a Node.
type yamlNode struct {
	Answer         string    `yaml:"answer,omitempty"`
	Unknown        bool      `yaml:"unknown,omitempty"`
	Characteristic string    `yaml:"characteristic,omitempty"`
	Yes            *yamlNode `yaml:"yes_branch,omitempty"`
	No             *yamlNode `yaml:"no_branch,omitempty"`
}

func toYAMLNode(n Node) *yamlNode {
	switch n := n.(type) {
	case *Leaf:
		if !n.Known {
			return &yamlNode{Unknown: true}
		}
		return &yamlNode{Answer: n.Answer}
	case *Split:
		return &yamlNode{
			Characteristic: n.Characteristic,
			Yes:            toYAMLNode(n.Yes),
			No:             toYAMLNode(n.No),
		}
	}
	return nil
}

// MarshalYAML encodes the tree as nested YAML mappings.
func MarshalYAML(root Node) ([]byte, error) {
	out, err := yaml.Marshal(toYAMLNode(root))
	if err != nil {
		return nil, fmt.Errorf("marshal tree: %w", err)
	}
	return out, nil
}

package iniconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler. Keys keep their insertion order.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range n.Keys() {
		v, _ := n.Lookup(k)
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		if v.IsSection() {
			m.Content = append(m.Content, kn, v.Node().yamlNode())

			continue
		}
		vn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Text()}
		if o, found := n.Origin(k); found {
			vn.LineComment = "# " + o.String()
		}
		m.Content = append(m.Content, kn, vn)
	}

	return m
}

// EncodeYAML writes n as a YAML document. The origin of every value is
// emitted as a line comment.
func (n *Node) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}

	return enc.Close()
}

// EncodeTOML writes n as a TOML document. TOML has no key order, so keys
// are written sorted.
func (n *Node) EncodeTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(n.ToMap()); err != nil {
		return fmt.Errorf("failed to encode toml: %w", err)
	}

	return nil
}

// MarshalJSON implements json.Marshaler. Keys keep their insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		v, _ := n.Lookup(k)
		var vb []byte
		if v.IsSection() {
			vb, err = v.Node().MarshalJSON()
		} else {
			vb, err = json.Marshal(v.Text())
		}
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

package schema

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the schema back into its document form.
func (s Schema) MarshalYAML() (any, error) {
	return s.node()
}

func (s Schema) node() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range s {
		var v *yaml.Node
		switch sp := f.Spec.(type) {
		case Nested:
			sub, err := sp.Schema.node()
			if err != nil {
				return nil, err
			}
			v = sub
		case Leaf:
			leaf, err := sp.node()
			if err != nil {
				return nil, err
			}
			v = leaf
		default:
			v = str("")
		}
		n.Content = append(n.Content, str(f.Name), v)
	}
	return n, nil
}

func (l Leaf) node() (*yaml.Node, error) {
	if l.Params == nil {
		return str(l.Tag), nil
	}
	p := l.Params
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, str("type"), str(l.Tag))
	if p.Options != nil {
		var opts yaml.Node
		if err := opts.Encode(p.Options); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, str("options"), &opts)
	}
	for _, kv := range []struct {
		key string
		val *float64
	}{{"min", p.Min}, {"max", p.Max}, {"precision", p.Precision}} {
		if kv.val != nil {
			n.Content = append(n.Content, str(kv.key), num(strconv.FormatFloat(*kv.val, 'f', -1, 64)))
		}
	}
	if p.StartDate != "" {
		n.Content = append(n.Content, str("startDate"), str(p.StartDate))
	}
	if p.EndDate != "" {
		n.Content = append(n.Content, str("endDate"), str(p.EndDate))
	}
	if p.Length != nil {
		n.Content = append(n.Content, str("length"), num(strconv.Itoa(*p.Length)))
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var v yaml.Node
		if err := v.Encode(p.Extra[k]); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, str(k), &v)
	}
	return n, nil
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func num(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

package colfmt

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlRow builds a node so mappings keep the column order.
func yamlRow(header []string, row Row) (*yaml.Node, error) {
	if len(header) == 0 || len(header) != len(row) {
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range row {
			var item yaml.Node
			if err := item.Encode(jsonValue(v)); err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &item)
		}
		return n, nil
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i, key := range header {
		var k, v yaml.Node
		if err := k.Encode(key); err != nil {
			return nil, err
		}
		if err := v.Encode(jsonValue(row[i])); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &k, &v)
	}
	return n, nil
}

func writeYAML(w io.Writer, layout Layout, rows []Row) error {
	enc := yaml.NewEncoder(w)
	if layout.Indent != "" {
		enc.SetIndent(len(layout.Indent))
	}
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		n, err := yamlRow(layout.Header, row)
		if err != nil {
			return err
		}
		doc.Content = append(doc.Content, n)
	}
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

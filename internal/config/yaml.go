package config

import (
	"gopkg.in/yaml.v3"

	"github.com/rv178/baker/internal/recipe"
)

// ParseYAML decodes a YAML recipe with the same shape as the TOML one:
//
//	build:
//	  cmd: go build ./...
//	custom:
//	  deploy: {cmd: ./deploy.sh, run: false}
func ParseYAML(data []byte) (*recipe.Recipe, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		// Empty document.
		return (&file{}).toRecipe(declOrder{}), nil
	}

	var f file
	if err := doc.Decode(&f); err != nil {
		return nil, err
	}
	return f.toRecipe(yamlOrder(doc.Content[0])), nil
}

func yamlOrder(root *yaml.Node) declOrder {
	order := declOrder{}
	if root.Kind != yaml.MappingNode {
		return order
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		section, body := root.Content[i].Value, root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			order.add([]string{section, body.Content[j].Value})
		}
	}
	return order
}

package config

import (
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/rv178/baker/internal/recipe"
)

// ParseTOML decodes a TOML recipe.
func ParseTOML(data []byte) (*recipe.Recipe, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	order, err := tomlOrder(data)
	if err != nil {
		return nil, err
	}
	return f.toRecipe(order), nil
}

// tomlOrder walks the document's expressions and records the declaration
// order of pre, custom and env keys. It understands table headers
// ([custom.deploy]), dotted keys (custom.deploy = {...}) and inline tables.
func tomlOrder(data []byte) (declOrder, error) {
	order := declOrder{}

	var p unstable.Parser
	p.Reset(data)

	var table []string
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyPath(e.Key())
			order.add(table)
		case unstable.KeyValue:
			addKeyValue(order, table, e)
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func addKeyValue(order declOrder, prefix []string, kv *unstable.Node) {
	path := append(slices.Clone(prefix), keyPath(kv.Key())...)
	order.add(path)

	v := kv.Value()
	if v == nil || v.Kind != unstable.InlineTable {
		return
	}
	it := v.Children()
	for it.Next() {
		if child := it.Node(); child.Kind == unstable.KeyValue {
			addKeyValue(order, path, child)
		}
	}
}

func keyPath(it unstable.Iterator) []string {
	var path []string
	for it.Next() {
		path = append(path, string(it.Node().Data))
	}
	return path
}

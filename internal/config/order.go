package config

const (
	sectionPre    = "pre"
	sectionCustom = "custom"
	sectionEnv    = "env"
)

// declOrder records the order in which keys of the ordered sections first
// appear in a recipe document.
type declOrder map[string][]string

// add records the key named by path if path addresses an entry of an
// ordered section, e.g. ["custom", "deploy", "cmd"] records "deploy".
func (o declOrder) add(path []string) {
	if len(path) < 2 {
		return
	}
	section := path[0]
	switch section {
	case sectionPre, sectionCustom, sectionEnv:
	default:
		return
	}
	for _, k := range o[section] {
		if k == path[1] {
			return
		}
	}
	o[section] = append(o[section], path[1])
}

// names returns keys in declaration order. Keys the document scan did not
// see are appended in the order given.
func (o declOrder) names(section string, keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	out := make([]string, 0, len(keys))
	for _, k := range o[section] {
		if present[k] {
			out = append(out, k)
			delete(present, k)
		}
	}
	for _, k := range keys {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}

package grammar

// setKey identifies a rule set across modes.
type setKey struct {
	mode string
	set  string
}

func (k setKey) String() string {
	return k.mode + qualifiedSeparator + k.set
}

// flatRule is a rule definition together with the mode it was declared in,
// which is where its delegate reference is resolved.
type flatRule struct {
	mode string
	def  RuleDef
}

// flatSet is the import closure of one rule set.
type flatSet struct {
	rules    []flatRule
	keywords []keywordGroup // own keywords first, then imported ones
	imports  []setKey       // every set visited, in visiting order
}

type keywordGroup struct {
	kind  string
	words []string
}

// graph resolves set keys against the documents reachable from a mode.
type graph struct {
	docs map[string]*Document
}

func (g *graph) lookup(key setKey) (*RuleSetDef, bool) {
	doc, ok := g.docs[key.mode]
	if !ok || doc == nil {
		return nil, false
	}
	return doc.Set(key.set)
}

// flatten computes the import closure of root without touching the source
// documents: root's own rules come first, then those of each import in
// declaration order, depth first. A set is included at most once, which
// also makes mutual imports terminate. Every root sees the same closure no
// matter which other sets were flattened before it.
func (g *graph) flatten(root setKey, missing func(from, ref setKey)) flatSet {
	var out flatSet
	visited := map[setKey]bool{root: true}

	var visit func(key setKey, def *RuleSetDef)
	visit = func(key setKey, def *RuleSetDef) {
		for _, rule := range def.Rules {
			out.rules = append(out.rules, flatRule{mode: key.mode, def: rule})
		}
		for _, kindName := range sortedKeys(def.Keywords) {
			out.keywords = append(out.keywords, keywordGroup{kind: kindName, words: def.Keywords[kindName]})
		}
		for _, ref := range def.Imports {
			mode, set := splitRef(key.mode, ref)
			child := setKey{mode: mode, set: set}
			if visited[child] {
				continue
			}
			childDef, ok := g.lookup(child)
			if !ok {
				missing(key, child)
				continue
			}
			visited[child] = true
			out.imports = append(out.imports, child)
			visit(child, childDef)
		}
	}

	if def, ok := g.lookup(root); ok {
		visit(root, def)
	}
	return out
}

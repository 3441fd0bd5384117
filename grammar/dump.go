package grammar

import (
	"fmt"
	"io"
	"sort"
	"text/template"
)

// dumpTemplate renders a ProductionTable's generated state set as XML,
// following the same text/template-over-a-flattened-view approach the
// teacher's cmd/vartan/describe.go uses to render a compiled grammar as
// Markdown: walk the live data structures once into a small set of
// already-sorted plain structs, then let a template do the formatting.
var dumpTemplate = template.Must(template.New("dump").Parse(`<productionTable id="{{ .ID }}"{{ range $k, $v := .Attrs }} {{ $k }}="{{ $v }}"{{ end }}>
  <operators>
{{- range .Operators }}
    <operator nodeType="{{ .NodeType }}" arity="{{ .Arity }}"{{ if .VarArgs }} varArgs="true"{{ end }}>
{{- if ge .LeafState 0 }}
      <leafState number="{{ .LeafState }}"/>
{{- end }}
{{- range .Transitions }}
      <transition path="{{ range $i, $p := .Path }}{{ if $i }}/{{ end }}{{ $p }}{{ end }}"{{ if .SelfLoop }}><variadic/></transition{{ else }} result="{{ .Result }}"/{{ end }}>
{{- end }}
    </operator>
{{- end }}
  </operators>
  <states>
{{- range .States }}
    <state number="{{ .Number }}"{{ if .HasNodeType }} nodeType="{{ .NodeType }}"{{ end }}>
{{- range .Patterns }}
      <pattern target="{{ .Target }}" cost="{{ .Cost }}"/>
{{- end }}
{{- range .Closures }}
      <closure target="{{ .Target }}" cost="{{ .Cost }}"/>
{{- end }}
    </state>
{{- end }}
  </states>
</productionTable>
`))

type dumpTransition struct {
	Path     []string
	Result   int
	SelfLoop bool
}

type dumpOperator struct {
	NodeType    string
	Arity       int
	VarArgs     bool
	LeafState   int
	Transitions []dumpTransition
}

type dumpProduction struct {
	Target string
	Cost   Cost
}

type dumpState struct {
	Number      int
	NodeType    string
	HasNodeType bool
	Patterns    []dumpProduction
	Closures    []dumpProduction
}

type dumpDoc struct {
	ID        string
	Attrs     map[string]string
	Operators []dumpOperator
	States    []dumpState
}

// Dump renders the generated production table to w in the given format.
// "xml" is the only format this package implements; any other value is
// ErrUnsupportedFormat, not a pluggable registry lookup. attrs is merged
// into the root element's attribute list (e.g. a grammar name or version a
// caller wants stamped alongside the generation id); it may be nil.
// GenerateStates must have already run.
func (pt *ProductionTable[N, T]) Dump(w io.Writer, format string, attrs map[string]string) error {
	if !pt.generated {
		return fmt.Errorf("Dump requires GenerateStates to have run first")
	}
	if format != "xml" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return dumpTemplate.Execute(w, pt.dumpView(attrs))
}

func (pt *ProductionTable[N, T]) dumpView(attrs map[string]string) dumpDoc {
	doc := dumpDoc{
		ID:    pt.id.String(),
		Attrs: attrs,
	}

	opKeys := make([]operatorKey[T], 0, len(pt.operators))
	for k := range pt.operators {
		opKeys = append(opKeys, k)
	}
	sort.Slice(opKeys, func(i, j int) bool {
		ni, nj := fmt.Sprint(opKeys[i].nodeType), fmt.Sprint(opKeys[j].nodeType)
		if ni != nj {
			return ni < nj
		}
		return opKeys[i].arity < opKeys[j].arity
	})
	for _, k := range opKeys {
		op := pt.operators[k]
		leaf := -1
		if op.leafState != nil {
			leaf = op.leafState.Number()
		}
		d := dumpOperator{
			NodeType:  fmt.Sprint(op.nodeType),
			Arity:     op.arity,
			VarArgs:   op.isVarArgs,
			LeafState: leaf,
		}
		if op.root != nil {
			d.Transitions = dumpHyperPlane(op.root, nil)
		}
		doc.Operators = append(doc.Operators, d)
	}

	for _, s := range pt.statesByNumber {
		ds := dumpState{Number: s.number}
		if nt, ok := s.NodeType(); ok {
			ds.HasNodeType = true
			ds.NodeType = fmt.Sprint(nt)
		}
		for n, p := range s.patterns {
			ds.Patterns = append(ds.Patterns, dumpProduction{Target: fmt.Sprint(n), Cost: p.Cost()})
		}
		sort.Slice(ds.Patterns, func(i, j int) bool { return ds.Patterns[i].Target < ds.Patterns[j].Target })
		for n, c := range s.closures {
			ds.Closures = append(ds.Closures, dumpProduction{Target: fmt.Sprint(n), Cost: c.Cost()})
		}
		sort.Slice(ds.Closures, func(i, j int) bool { return ds.Closures[i].Target < ds.Closures[j].Target })
		doc.States = append(doc.States, ds)
	}

	return doc
}

func dumpHyperPlane[N comparable, T comparable](hp *HyperPlane[N, T], prefix []string) []dumpTransition {
	var out []dumpTransition
	for key, s := range hp.finalDimension {
		path := append(append([]string(nil), prefix...), string(key))
		out = append(out, dumpTransition{Path: path, Result: s.Number()})
	}
	for key, next := range hp.nextDimension {
		if next == hp {
			path := append(append([]string(nil), prefix...), string(key))
			out = append(out, dumpTransition{Path: path, SelfLoop: true})
			continue
		}
		out = append(out, dumpHyperPlane(next, append(append([]string(nil), prefix...), string(key)))...)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Path, out[j].Path
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

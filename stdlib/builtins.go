package stdlib

import (
	"math/big"

	"github.com/rivo/uniseg"

	"github.com/juno-r1/sophia/interp"
)

// returnMethods implements the `return` built-in: it sets the running
// Task's Path to 0, which is the VM's own termination condition (see
// Task.Run), and yields whatever value it was given (or none for a bare
// `return`). It is registered at two arities so both forms dispatch.
func returnMethods() []interp.Method {
	zero := interp.NewStdMethod("return", func(t *interp.Task, args []interp.Value) interp.Value {
		t.Path = 0
		return interp.NewNone()
	}, interp.TypeDef{}, nil)
	one := interp.NewStdMethod("return", func(t *interp.Task, args []interp.Value) interp.Value {
		t.Path = 0
		return args[0]
	}, interp.TypeDef{}, []interp.TypeDef{interp.StdAny()})
	return []interp.Method{zero, one}
}

// constraintMethod backs the Command("constraint", "0", []) a type
// statement closes with. Full constraint-body evaluation (the type's own
// `=> expr` predicate, if any) is not wired into dispatch — see
// DESIGN.md — so this is a no-op marker the VM steps past.
func constraintMethod() interp.Method {
	return interp.NewStdMethod("constraint", func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewNone()
	}, interp.TypeDef{}, nil)
}

// indexMethods implements the "[" operator the Index token lowers to:
// list element access by integer position, record access by key lookup,
// string access by grapheme position, and slicing by a range value.
func indexMethods() []interp.Method {
	listGet := interp.NewStdMethod("[", func(t *interp.Task, args []interp.Value) interp.Value {
		list, idx := args[0], args[1]
		i, ok := intIndex(idx.Num, len(list.List))
		if !ok {
			return interp.NewErr(interp.TYPE)
		}
		return list.List[i].Clone()
	}, interp.StdAny(), []interp.TypeDef{interp.StdList(), interp.StdInteger()})

	recordGet := interp.NewStdMethod("[", func(t *interp.Task, args []interp.Value) interp.Value {
		rec, key := args[0], args[1]
		for _, e := range rec.Record {
			if interp.Equal(e.Key, key) {
				return e.Value.Clone()
			}
		}
		return interp.NewErr(interp.TYPE)
	}, interp.StdAny(), []interp.TypeDef{interp.StdRecord(), interp.StdAny()})

	stringGet := interp.NewStdMethod("[", func(t *interp.Task, args []interp.Value) interp.Value {
		str, idx := args[0], args[1]
		clusters := graphemes(str.Str)
		i, ok := intIndex(idx.Num, len(clusters))
		if !ok {
			return interp.NewErr(interp.TYPE)
		}
		return interp.NewString(clusters[i])
	}, interp.StdString(), []interp.TypeDef{interp.StdString(), interp.StdInteger()})

	listSlice := interp.NewStdMethod("[", func(t *interp.Task, args []interp.Value) interp.Value {
		list, rng := args[0], args[1]
		var out []interp.Value
		for _, r := range rng.Rng.Elements() {
			i, ok := intIndex(r, len(list.List))
			if ok {
				out = append(out, list.List[i].Clone())
			}
		}
		return interp.NewList(out)
	}, interp.StdList(), []interp.TypeDef{interp.StdList(), interp.StdRange()})

	return []interp.Method{listGet, recordGet, stringGet, listSlice}
}

func intIndex(n *big.Rat, length int) (int, bool) {
	if !n.IsInt() {
		return 0, false
	}
	i := int(n.Num().Int64())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

func graphemes(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

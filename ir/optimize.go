package ir

import "github.com/juno-r1/sophia/interp"

// FoldBinds collapses the naive per-name .check/.bind sequence an Assign
// statement lowers to (see lower.assignEnd) into a single .bind per
// BIND-labelled group: every individual ".bind" "0" [src] [name] between a
// Label("BIND") and the next non-matching instruction is merged into one
// instruction carrying all the (src, name) pairs, in order. The .check
// instructions themselves are left untouched — they still perform the
// per-name runtime type check — only the redundant one-bind-per-name tail
// is folded away.
func FoldBinds(instrs []interp.Instruction) []interp.Instruction {
	out := make([]interp.Instruction, 0, len(instrs))
	i := 0
	for i < len(instrs) {
		in := instrs[i]
		if in.Kind != interp.InstrLabel || in.Name != "BIND" {
			out = append(out, in)
			i++
			continue
		}
		out = append(out, in)
		i++
		var args, labels []string
		for i < len(instrs) {
			cur := instrs[i]
			if cur.Kind == interp.InstrInternal && cur.Name == ".check" {
				out = append(out, cur)
				i++
				continue
			}
			if cur.Kind == interp.InstrInternal && cur.Name == ".bind" && len(cur.Args) == 1 && len(cur.Labels) == 1 {
				args = append(args, cur.Args[0])
				labels = append(labels, cur.Labels[0])
				i++
				continue
			}
			break
		}
		if len(args) > 0 {
			out = append(out, interp.Internal(".bind", "0", args, labels))
		}
	}
	return out
}

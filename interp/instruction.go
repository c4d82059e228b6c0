package interp

import "strings"

// InstrKind tags the three Instruction shapes the lowering pass emits.
type InstrKind uint8

const (
	InstrCommand InstrKind = iota
	InstrInternal
	InstrLabel
)

// Instruction is one entry of the linear program the VM executes.
//
// Command is dispatched through the namespace (user-visible operators and
// functions; Name is itself a value lookup key). Internal is a runtime
// primitive, name conventionally prefixed with '.'. Label is a marker,
// never executed.
//
// Target is not part of the specified instruction shape — it is filled in
// by ir.ResolveJumps as a resolved absolute program-counter value for the
// handful of control-flow internals (if, .loop, .next, .continue,
// .break) that need to jump around the label they're paired with. The
// textual IR form (Instruction.String) never shows it: it is advisory
// and need not round-trip.
type Instruction struct {
	Kind    InstrKind
	Name    string
	Address string
	Args    []string
	Labels  []string
	Arity   int
	Count   int
	Target  int
}

func Command(name, address string, args []string) Instruction {
	return Instruction{Kind: InstrCommand, Name: name, Address: address, Args: args, Arity: len(args), Target: -1}
}

func Internal(name, address string, args, labels []string) Instruction {
	return Instruction{Kind: InstrInternal, Name: name, Address: address, Args: args, Labels: labels, Arity: len(args), Count: len(labels), Target: -1}
}

func Label(name string) Instruction {
	return Instruction{Kind: InstrLabel, Name: name, Target: -1}
}

// String renders the diagnostic textual IR form: "name address [args...]"
// for Command, plus a ";[labels...]" tail for Internal, or "name;" alone
// for Label.
func (in Instruction) String() string {
	var b strings.Builder
	switch in.Kind {
	case InstrCommand:
		b.WriteString(in.Name)
		b.WriteByte(' ')
		b.WriteString(in.Address)
		if in.Arity != 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(in.Args, " "))
		}
	case InstrInternal:
		b.WriteString(in.Name)
		b.WriteByte(' ')
		b.WriteString(in.Address)
		if in.Arity != 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(in.Args, " "))
		}
		b.WriteByte(';')
		if in.Count != 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(in.Labels, " "))
		}
	case InstrLabel:
		b.WriteString(in.Name)
		b.WriteByte(';')
	}
	return b.String()
}

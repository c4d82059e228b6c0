package ir

import "github.com/juno-r1/sophia/interp"

// loopFrame tracks one open START/ELSE..END span while the resolver walks
// forward: whether it's a loop (its closing instruction, right before END,
// is .loop) and, if so, where "continue" should land.
type loopFrame struct {
	opener  int
	end     int
	isLoop  bool
	reentry int
}

// ResolveJumps is the two-pass jump-resolution algorithm: pass one pairs
// every Label("START"/"ELSE") opener with its matching Label("END") closer
// via a stack (nesting, not adjacency, decides the match); pass two walks
// the program again, now with that pairing available, to fill in
// Instruction.Target for every control-flow internal that needs to jump
// around the label it's paired with. It returns the opener->end table so
// Task can use the same pairing when it extracts a function body's
// instructions at ".function" time.
func ResolveJumps(instructions []interp.Instruction) map[int]int {
	endOf := map[int]int{}
	var openers []int
	for i, in := range instructions {
		if in.Kind != interp.InstrLabel {
			continue
		}
		switch in.Name {
		case "START", "ELSE":
			openers = append(openers, i)
		case "END":
			if len(openers) == 0 {
				continue
			}
			opener := openers[len(openers)-1]
			openers = openers[:len(openers)-1]
			endOf[opener] = i
		}
	}

	var stack []int
	var loops []loopFrame
	for i := range instructions {
		in := &instructions[i]
		switch {
		case in.Kind == interp.InstrLabel && (in.Name == "START" || in.Name == "ELSE"):
			stack = append(stack, i)
			end := endOf[i]
			isLoop := end > 0 && instructions[end-1].Kind == interp.InstrInternal && instructions[end-1].Name == ".loop"
			reentry := i
			if isLoop {
				reentry = i // Default: while re-enters at its condition check.
				for j := i + 1; j < end; j++ {
					if instructions[j].Kind == interp.InstrInternal && instructions[j].Name == ".next" {
						reentry = j
						break
					}
				}
			}
			loops = append(loops, loopFrame{opener: i, end: end, isLoop: isLoop, reentry: reentry})

		case in.Kind == interp.InstrLabel && in.Name == "END":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(loops) > 0 {
				loops = loops[:len(loops)-1]
			}

		case in.Kind == interp.InstrInternal && in.Name == "if" && in.Arity == 1:
			if opener, ok := topOf(stack); ok {
				in.Target = endOf[opener] + 1
			}

		case in.Kind == interp.InstrInternal && in.Name == "if" && in.Arity == 0:
			if opener, ok := topOf(stack); ok {
				end := endOf[opener]
				in.Target = -1
				if end+1 < len(instructions) && instructions[end+1].Kind == interp.InstrLabel && instructions[end+1].Name == "ELSE" {
					in.Target = endOf[end+1] + 1
				}
			}

		case in.Kind == interp.InstrInternal && in.Name == ".loop":
			if f, ok := nearestLoop(loops); ok {
				in.Target = f.reentry
			}

		case in.Kind == interp.InstrInternal && in.Name == ".continue":
			if f, ok := nearestLoop(loops); ok {
				in.Target = f.reentry
			}

		case in.Kind == interp.InstrInternal && in.Name == ".break":
			if f, ok := nearestLoop(loops); ok {
				in.Target = f.end + 1
			}

		case in.Kind == interp.InstrInternal && in.Name == ".next":
			if opener, ok := topOf(stack); ok {
				in.Target = endOf[opener] + 1
			}
		}
	}
	return endOf
}

func topOf(stack []int) (int, bool) {
	if len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}

func nearestLoop(loops []loopFrame) (loopFrame, bool) {
	for i := len(loops) - 1; i >= 0; i-- {
		if loops[i].isLoop {
			return loops[i], true
		}
	}
	return loopFrame{}, false
}

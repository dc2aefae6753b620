package core

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the fiber subtree rooted at f, one fiber per line, indented by
// depth. Effect flags are shown when set.
func Dump(w io.Writer, f *Fiber) error {
	return dump(w, f, 0)
}

// DumpString returns the output of Dump as a string.
func DumpString(f *Fiber) string {
	var sb strings.Builder
	_ = Dump(&sb, f)
	return sb.String()
}

func dump(w io.Writer, f *Fiber, depth int) error {
	if f == nil {
		return nil
	}
	line := strings.Repeat("  ", depth) + f.String()
	if f.flags&^StaticMask != NoFlags {
		line += " [" + (f.flags &^ StaticMask).String() + "]"
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for child := f.child; child != nil; child = child.sibling {
		if err := dump(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Copyright 2018 The ZikiChombo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sfx

import (
	"fmt"
	"io"
)

// Dump writes the tree's structure as a Graphviz dot digraph to w: one node
// per transform, edges from parent to child, named features labeled.
// Useful for inspecting how much sharing AddFeature achieved across
// features. Valid before or after PrepareForExecution.
func (t *Tree) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph sfx {"); err != nil {
		return err
	}
	if err := dumpNode(w, t.root, "root"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

func dumpNode(w io.Writer, n *node, label string) error {
	shape := "ellipse"
	if n.isLeafFeature() {
		shape = "box"
		label = fmt.Sprintf("%s\\n[%s]", label, n.featureName)
	}
	if _, err := fmt.Fprintf(w, "  n%p [label=%q shape=%s];\n", n, label, shape); err != nil {
		return err
	}
	for _, c := range n.childOrder {
		if _, err := fmt.Fprintf(w, "  n%p -> n%p;\n", n, c); err != nil {
			return err
		}
		if err := dumpNode(w, c, c.tr.Name()); err != nil {
			return err
		}
	}
	return nil
}

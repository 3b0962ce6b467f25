package types

// Walk visits root and every item below it depth first: contents sorted by
// name, then slot occupants in slot-name order. Returning false from fn
// skips the visited item's subtree.
func Walk(root *Item, fn func(it *Item, depth int) bool) {
	walk(root, 0, fn)
}

func walk(it *Item, depth int, fn func(*Item, int) bool) {
	if !fn(it, depth) {
		return
	}
	for _, c := range it.Contents() {
		walk(c, depth+1, fn)
	}
	for _, s := range it.Slots() {
		if s.installed != nil {
			walk(s.installed, depth+1, fn)
		}
	}
}

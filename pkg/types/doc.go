// Package types defines the inventory entity types, their mutation protocol,
// and the standard errors for the inventory system.
//
// Items form a composite tree. An item is either unplaced, contained in a
// parent item, or installed in exactly one typed slot exposed by another
// item. Every install and remove attempt, successful or not, is recorded in
// an append-only history kept on both the item and the slot.
//
// Item specifications are immutable templates used to stamp out new items
// with a fixed slot layout.
package types

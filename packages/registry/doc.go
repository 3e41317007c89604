// Package registry provides generic insertion-ordered containers.
//
// Registry is an ordered map where replacing a value keeps its original
// position. AutoKeyRegistry derives keys from values, SuperRegistry holds
// one AutoKeyRegistry per key, and Set is an ordered set.
//
// Iteration always walks a snapshot of the keys, so callers may register or
// unregister entries while ranging.
package registry

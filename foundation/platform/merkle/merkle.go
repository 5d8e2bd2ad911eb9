// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides a merkle tree implementation used to derive the
// merkle root for the work records aggregated into a productive block.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() ([]byte, error)
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits
// the behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root       *Node[T]
	Leafs      []*Node[T]
	MerkleRoot []byte
}

// NewTree constructs a new merkle tree from the specified values.
func NewTree[T Hashable[T]](values []T) (*Tree[T], error) {
	var t Tree[T]

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return errors.New("cannot construct tree with no content")
	}

	var leafs []*Node[T]
	for _, value := range values {
		hash, err := value.Hash()
		if err != nil {
			return err
		}

		leafs = append(leafs, &Node[T]{
			Hash:  hash,
			Value: value,
			leaf:  true,
		})
	}

	// An odd number of leafs duplicates the last leaf so every node
	// has two children.
	if len(leafs)%2 == 1 {
		duplicate := &Node[T]{
			Hash:  leafs[len(leafs)-1].Hash,
			Value: leafs[len(leafs)-1].Value,
			leaf:  true,
			dup:   true,
		}
		leafs = append(leafs, duplicate)
	}

	root, err := buildIntermediate(leafs)
	if err != nil {
		return err
	}

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = root.Hash

	return nil
}

// Verify validates the hashes at each level of the tree and returns an error
// if the resulting hash at the root of the tree doesn't match the stored root.
func (t *Tree[T]) Verify() error {
	calculatedMerkleRoot, err := t.Root.verify()
	if err != nil {
		return err
	}

	if !bytes.Equal(t.MerkleRoot, calculatedMerkleRoot) {
		return errors.New("root hash invalid")
	}

	return nil
}

// Values returns a slice of unique values stored in the tree.
func (t *Tree[T]) Values() []T {
	var values []T
	for _, node := range t.Leafs {
		values = append(values, node.Value)
	}

	l := len(t.Leafs)
	if t.Leafs[l-1].dup {
		return values[:l-1]
	}

	return values
}

// RootHex converts the merkle root byte hash to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return hexutil.Encode(t.MerkleRoot)
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to
// its immediate relationships, a hash, and the data if it is a leaf.
type Node[T Hashable[T]] struct {
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   []byte
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the hash at
// each level and returning the resulting hash of the node.
func (n *Node[T]) verify() ([]byte, error) {
	if n.leaf {
		return n.Value.Hash()
	}

	rightBytes, err := n.Right.verify()
	if err != nil {
		return nil, err
	}

	leftBytes, err := n.Left.verify()
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(append(leftBytes, rightBytes...))
	return hash[:], nil
}

// buildIntermediate constructs the intermediate and root levels of the tree
// from a collection of leaf nodes. Returns the resulting root node.
func buildIntermediate[T Hashable[T]](nl []*Node[T]) (*Node[T], error) {
	var nodes []*Node[T]

	for i := 0; i < len(nl); i += 2 {
		left, right := i, i+1
		if i+1 == len(nl) {
			right = i
		}

		chash := append(nl[left].Hash, nl[right].Hash...)
		hash := sha256.Sum256(chash)

		n := &Node[T]{
			Left:  nl[left],
			Right: nl[right],
			Hash:  hash[:],
		}

		nodes = append(nodes, n)
		nl[left].Parent = n
		nl[right].Parent = n

		if len(nl) == 2 {
			return n, nil
		}
	}

	return buildIntermediate(nodes)
}

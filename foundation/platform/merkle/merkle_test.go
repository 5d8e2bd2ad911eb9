package merkle_test

import (
	"crypto/sha256"
	"testing"

	"github.com/beanapologist/productive-mining/foundation/platform/merkle"
)

// item implements the Hashable interface for testing.
type item struct {
	Value string
}

func (i item) Hash() ([]byte, error) {
	hash := sha256.Sum256([]byte(i.Value))
	return hash[:], nil
}

func (i item) Equals(other item) bool {
	return i.Value == other.Value
}

func Test_Tree(t *testing.T) {
	tests := []struct {
		name  string
		items []item
	}{
		{"single", []item{{"a"}}},
		{"even", []item{{"a"}, {"b"}, {"c"}, {"d"}}},
		{"odd", []item{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}},
	}

	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			tree, err := merkle.NewTree(tst.items)
			if err != nil {
				t.Fatalf("unable to construct tree: %v", err)
			}

			if err := tree.Verify(); err != nil {
				t.Fatalf("tree failed verification: %v", err)
			}

			if tree.RootHex() == "" {
				t.Fatal("expected a root hash")
			}

			values := tree.Values()
			if len(values) != len(tst.items) {
				t.Fatalf("expected %d values, got %d", len(tst.items), len(values))
			}
			for i, value := range values {
				if !value.Equals(tst.items[i]) {
					t.Fatalf("value %d does not match the input", i)
				}
			}
		})
	}
}

func Test_TreeEmpty(t *testing.T) {
	if _, err := merkle.NewTree([]item{}); err == nil {
		t.Fatal("expected an error for an empty tree")
	}
}

func Test_TreeDeterministicRoot(t *testing.T) {
	items := []item{{"a"}, {"b"}, {"c"}}

	first, err := merkle.NewTree(items)
	if err != nil {
		t.Fatal(err)
	}
	second, err := merkle.NewTree(items)
	if err != nil {
		t.Fatal(err)
	}

	if first.RootHex() != second.RootHex() {
		t.Fatal("expected the same root for the same input")
	}

	reordered, err := merkle.NewTree([]item{{"b"}, {"a"}, {"c"}})
	if err != nil {
		t.Fatal(err)
	}
	if first.RootHex() == reordered.RootHex() {
		t.Fatal("expected a different root for a different order")
	}
}

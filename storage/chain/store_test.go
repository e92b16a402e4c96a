package chain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/txstore/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.RunStoreSuite(t, New)
}

// reachable counts nodes from head and checks the tail invariants.
func reachable(t *testing.T, s *Store) int {
	t.Helper()
	count := 0
	var last *node
	for cur := s.head; cur != nil; cur = cur.next {
		last = cur
		count++
	}
	assert.Same(t, last, s.tail, "tail must be the last reachable node")
	if s.tail != nil {
		assert.Nil(t, s.tail.next)
	}
	return count
}

func TestAdd_ReachableNodes(t *testing.T) {
	s := New()
	assert.Equal(t, 0, reachable(t, s))
	for i := 1; i <= 20; i++ {
		s.Add(storagetest.NewRecord(fmt.Sprint(i), "X"))
		assert.Equal(t, i, reachable(t, s))
		assert.Equal(t, i, s.Len())
	}
}

func TestMiddle_LeftHalfIsCeil(t *testing.T) {
	for length := 1; length <= 9; length++ {
		t.Run(fmt.Sprintf("length %d", length), func(t *testing.T) {
			s := New()
			for i := 0; i < length; i++ {
				s.Add(storagetest.NewRecord(fmt.Sprint(i), "X"))
			}

			mid := middle(s.head)
			left := 0
			for cur := s.head; cur != mid.next; cur = cur.next {
				left++
			}
			assert.Equal(t, (length+1)/2, left)
		})
	}
	assert.Nil(t, middle(nil))
}

func TestMerge_RelinksWithoutAllocating(t *testing.T) {
	a := &node{record: storagetest.NewRecord("l1", "A")}
	b := &node{record: storagetest.NewRecord("l2", "C")}
	a.next = b
	c := &node{record: storagetest.NewRecord("r1", "A")}
	d := &node{record: storagetest.NewRecord("r2", "B")}
	c.next = d

	head := merge(a, c)
	var got []*node
	for cur := head; cur != nil; cur = cur.next {
		got = append(got, cur)
	}
	require.Len(t, got, 4)
	assert.Same(t, a, got[0], "left wins ties")
	assert.Same(t, c, got[1])
	assert.Same(t, d, got[2])
	assert.Same(t, b, got[3])
}

func TestSortByLocation_KeepsNodes(t *testing.T) {
	s := storagetest.Fill(New(), storagetest.Locations()...)
	before := map[*node]bool{}
	for cur := s.head; cur != nil; cur = cur.next {
		before[cur] = true
	}

	s.SortByLocation()
	assert.Equal(t, len(before), reachable(t, s))
	for cur := s.head; cur != nil; cur = cur.next {
		assert.True(t, before[cur], "sort must re-link existing nodes")
	}

	s.Add(storagetest.NewRecord("after", "A"))
	assert.Equal(t, "after", s.tail.record.TransactionID)
	assert.Equal(t, len(before)+1, reachable(t, s))
}

func TestClone_SharesNoNodes(t *testing.T) {
	s := storagetest.Fill(New(), storagetest.Locations()...)
	c := s.Clone()

	orig := map[*node]bool{}
	for cur := s.head; cur != nil; cur = cur.next {
		orig[cur] = true
	}
	for cur := c.head; cur != nil; cur = cur.next {
		assert.False(t, orig[cur], "clone aliases a node of the source")
	}
	assert.Equal(t, s.Len(), reachable(t, c))
}

func TestCopyFrom(t *testing.T) {
	src := storagetest.Fill(New(),
		storagetest.NewRecord("a", "C"),
		storagetest.NewRecord("b", "B"),
	)
	dst := storagetest.Fill(New(), storagetest.NewRecord("old1", "Z"), storagetest.NewRecord("old2", "Z"))
	oldHead := dst.head

	dst.CopyFrom(src)
	assert.Equal(t, []string{"a", "b"}, storagetest.IDs(dst))
	assert.Equal(t, 2, reachable(t, dst))
	assert.Nil(t, oldHead.next, "previous chain must be released")

	dst.Add(storagetest.NewRecord("c", "A"))
	dst.SortByLocation()
	assert.Equal(t, []string{"c", "b", "a"}, storagetest.IDs(dst))
	assert.Equal(t, []string{"a", "b"}, storagetest.IDs(src))

	src.SortByLocation()
	assert.Equal(t, []string{"b", "a"}, storagetest.IDs(src))
	assert.Equal(t, []string{"c", "b", "a"}, storagetest.IDs(dst))
}

func TestCopyFrom_Self(t *testing.T) {
	s := storagetest.Fill(New(), storagetest.NewRecord("a", "A"), storagetest.NewRecord("b", "B"))
	s.CopyFrom(s)
	assert.Equal(t, []string{"a", "b"}, storagetest.IDs(s))
}

func TestCopyFrom_Empty(t *testing.T) {
	s := storagetest.Fill(New(), storagetest.NewRecord("a", "A"))
	s.CopyFrom(New())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, reachable(t, s))
}

func TestRelease_LongChain(t *testing.T) {
	s := New()
	r := storagetest.NewRecord("x", "X")
	for i := 0; i < 200000; i++ {
		s.Add(r)
	}
	first := s.head
	s.Release()

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.head)
	assert.Nil(t, s.tail)
	assert.Nil(t, first.next)

	s.Add(r)
	assert.Equal(t, 1, reachable(t, s))
}

func BenchmarkAdd(b *testing.B) {
	r := storagetest.NewRecord("bench", "X")
	for i := 0; i < b.N; i++ {
		s := New()
		for j := 0; j < 1000; j++ {
			s.Add(r)
		}
	}
}

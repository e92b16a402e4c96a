package chain

// SortByLocation sorts the chain ascending by location with a recursive merge
// sort that re-links the existing nodes. Equal locations keep their relative
// order.
func (s *Store) SortByLocation() {
	if s.n < 2 {
		return
	}
	s.head = mergeSort(s.head)

	tail := s.head
	for tail.next != nil {
		tail = tail.next
	}
	s.tail = tail
}

func mergeSort(head *node) *node {
	if head == nil || head.next == nil {
		return head
	}

	mid := middle(head)
	right := mid.next
	mid.next = nil

	return merge(mergeSort(head), mergeSort(right))
}

// middle returns the last node of the left half. fast starts one node ahead
// of slow, so a chain of length L leaves ceil(L/2) nodes on the left.
func middle(head *node) *node {
	if head == nil || head.next == nil {
		return head
	}
	slow := head
	fast := head.next
	for fast != nil && fast.next != nil {
		slow = slow.next
		fast = fast.next.next
	}
	return slow
}

// merge links two sorted chains into one. The left node is taken whenever its
// location is <= the right node's.
func merge(left, right *node) *node {
	var dummy node
	tail := &dummy
	for left != nil && right != nil {
		if left.record.Location <= right.record.Location {
			tail.next = left
			left = left.next
		} else {
			tail.next = right
			right = right.next
		}
		tail = tail.next
	}
	if left != nil {
		tail.next = left
	} else {
		tail.next = right
	}
	return dummy.next
}

package cache

// lruNode links one cache key into the recency ring.
type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList is a circular recency ring around a sentinel: root.next is the
// most recently used key and root.prev the least. Cache guards it with its
// mutex.
type lruList[K comparable] struct {
	root lruNode[K]
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.Clear()
	return l
}

// PushFront links key as the most recently used and returns its node.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfterRoot(n)
	return n
}

// MoveToFront marks n as the most recently used.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.unlink(n)
	l.insertAfterRoot(n)
}

// Remove unlinks n.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n != nil {
		l.unlink(n)
	}
}

// RemoveOldest unlinks the least recently used key and returns it.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	n := l.root.prev
	if n == &l.root {
		var zero K
		return zero, false
	}
	l.unlink(n)
	return n.key, true
}

// Clear empties the ring.
func (l *lruList[K]) Clear() {
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *lruList[K]) insertAfterRoot(n *lruNode[K]) {
	n.prev = &l.root
	n.next = l.root.next
	l.root.next.prev = n
	l.root.next = n
}

func (l *lruList[K]) unlink(n *lruNode[K]) {
	if n.prev == nil {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

package search

import "container/heap"

// stack is a LIFO frontier.
type stack[S comparable] []*Node[S]

func (s *stack[S]) push(n *Node[S]) { *s = append(*s, n) }

func (s *stack[S]) pop() *Node[S] {
	old := *s
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*s = old[:len(old)-1]
	return n
}

func (s stack[S]) empty() bool { return len(s) == 0 }

// queue is a FIFO frontier.
type queue[S comparable] struct {
	items []*Node[S]
	head  int
}

func (q *queue[S]) push(n *Node[S]) { q.items = append(q.items, n) }

func (q *queue[S]) pop() *Node[S] {
	n := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 >= len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return n
}

func (q *queue[S]) empty() bool { return q.head >= len(q.items) }

// priorityQueue is a min-heap of nodes ordered by Less. It implements
// heap.Interface; use push and pop rather than the interface methods.
type priorityQueue[S comparable] []*Node[S]

func (pq priorityQueue[S]) Len() int           { return len(pq) }
func (pq priorityQueue[S]) Less(i, j int) bool { return Less(pq[i], pq[j]) }
func (pq priorityQueue[S]) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue[S]) Push(x any) {
	*pq = append(*pq, x.(*Node[S]))
}

func (pq *priorityQueue[S]) Pop() any {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return node
}

func (pq *priorityQueue[S]) push(n *Node[S]) { heap.Push(pq, n) }

func (pq *priorityQueue[S]) pop() *Node[S] { return heap.Pop(pq).(*Node[S]) }

func (pq priorityQueue[S]) empty() bool { return len(pq) == 0 }

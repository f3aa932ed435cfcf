package search

// Paths is the expansion trace of an instrumented search: the path from the
// root to every node taken off the frontier, in dequeue order.
type Paths[S comparable] [][]S

// DepthFirstInstrumented behaves exactly like DepthFirst and also returns
// the path of every node it popped.
func DepthFirstInstrumented[S comparable](initial S, goalTest GoalTest[S], successors Successors[S]) (*Node[S], Paths[S]) {
	frontier := stack[S]{}
	frontier.push(NewNode(initial, nil))
	explored := map[S]struct{}{initial: {}}

	var paths Paths[S]
	for !frontier.empty() {
		current := frontier.pop()
		paths = append(paths, ToPath(current))

		if goalTest(current.state) {
			return current, paths
		}
		for _, child := range successors(current.state) {
			if _, seen := explored[child]; seen {
				continue
			}
			explored[child] = struct{}{}
			frontier.push(NewNode(child, current))
		}
	}
	return nil, paths
}

// BreadthFirstInstrumented behaves exactly like BreadthFirst and also
// returns the path of every node it dequeued.
func BreadthFirstInstrumented[S comparable](initial S, goalTest GoalTest[S], successors Successors[S]) (*Node[S], Paths[S]) {
	frontier := &queue[S]{}
	frontier.push(NewNode(initial, nil))
	explored := map[S]struct{}{initial: {}}

	var paths Paths[S]
	for !frontier.empty() {
		current := frontier.pop()
		paths = append(paths, ToPath(current))

		if goalTest(current.state) {
			return current, paths
		}
		for _, child := range successors(current.state) {
			if _, seen := explored[child]; seen {
				continue
			}
			explored[child] = struct{}{}
			frontier.push(NewNode(child, current))
		}
	}
	return nil, paths
}

// AStarInstrumented behaves exactly like AStar and also returns the path of
// every node it popped, re-expansions included.
func AStarInstrumented[S comparable](initial S, goalTest GoalTest[S], successors Successors[S], heuristic Heuristic[S]) (*Node[S], Paths[S]) {
	frontier := &priorityQueue[S]{}
	frontier.push(NewCostNode(initial, nil, 0, heuristic(initial)))
	explored := make(map[S]float64)

	var paths Paths[S]
	for !frontier.empty() {
		current := frontier.pop()
		paths = append(paths, ToPath(current))

		if goalTest(current.state) {
			return current, paths
		}
		for _, child := range successors(current.state) {
			newCost := current.cost + edgeCost
			if known, ok := explored[child]; ok && known <= newCost {
				continue
			}
			explored[child] = newCost
			frontier.push(NewCostNode(child, current, newCost, heuristic(child)))
		}
	}
	return nil, paths
}

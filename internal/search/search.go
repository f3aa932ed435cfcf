package search

// GoalTest reports whether a state satisfies the goal.
type GoalTest[S comparable] func(state S) bool

// Successors lists the states reachable from state in one step.
type Successors[S comparable] func(state S) []S

// Heuristic estimates the remaining cost from state to the goal. Lower is
// closer. Admissibility is the caller's responsibility.
type Heuristic[S comparable] func(state S) float64

// edgeCost is the cost of every step; the engine has no weighted edges.
const edgeCost = 1.0

// DepthFirst searches with a LIFO frontier and returns the first goal node
// popped, or nil if no goal is reachable. States are marked explored when
// they are pushed, so each state enters the frontier at most once.
func DepthFirst[S comparable](initial S, goalTest GoalTest[S], successors Successors[S]) *Node[S] {
	frontier := stack[S]{}
	frontier.push(NewNode(initial, nil))
	explored := map[S]struct{}{initial: {}}

	for !frontier.empty() {
		current := frontier.pop()
		if goalTest(current.state) {
			return current
		}
		for _, child := range successors(current.state) {
			if _, seen := explored[child]; seen {
				continue
			}
			explored[child] = struct{}{}
			frontier.push(NewNode(child, current))
		}
	}
	return nil
}

// BreadthFirst searches with a FIFO frontier. The returned node, if any, is
// at the minimum edge distance from initial among all goal states.
func BreadthFirst[S comparable](initial S, goalTest GoalTest[S], successors Successors[S]) *Node[S] {
	frontier := &queue[S]{}
	frontier.push(NewNode(initial, nil))
	explored := map[S]struct{}{initial: {}}

	for !frontier.empty() {
		current := frontier.pop()
		if goalTest(current.state) {
			return current
		}
		for _, child := range successors(current.state) {
			if _, seen := explored[child]; seen {
				continue
			}
			explored[child] = struct{}{}
			frontier.push(NewNode(child, current))
		}
	}
	return nil
}

// AStar searches with a priority frontier ordered by cost + heuristic.
//
// explored records the cheapest cost seen for each state, not whether the
// state has been settled: a state already expanded is pushed again when a
// cheaper route to it turns up. The initial state is not recorded up front.
func AStar[S comparable](initial S, goalTest GoalTest[S], successors Successors[S], heuristic Heuristic[S]) *Node[S] {
	frontier := &priorityQueue[S]{}
	frontier.push(NewCostNode(initial, nil, 0, heuristic(initial)))
	explored := make(map[S]float64)

	for !frontier.empty() {
		current := frontier.pop()
		if goalTest(current.state) {
			return current
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
	return nil
}

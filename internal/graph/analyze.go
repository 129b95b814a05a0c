package graph

import "sort"

// topoOrder returns the nodes in dependency-first order using Kahn's
// algorithm. Ready nodes are processed in ascending ticket number so the
// order is deterministic. Must run after breakCycles.
func (b *builder) topoOrder() []int {
	remaining := make(map[int]int, len(b.nodes))
	dependents := make(map[int][]int, len(b.nodes))
	for _, node := range b.nodes {
		remaining[node] = len(b.deps[node])
		for _, dep := range b.deps[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	var queue []int
	for _, node := range b.nodes {
		if remaining[node] == 0 {
			queue = append(queue, node)
		}
	}
	sort.Ints(queue)

	var order []int
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []int
		for _, succ := range dependents[node] {
			remaining[succ]--
			if remaining[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Ints(newReady)
		queue = append(queue, newReady...)
	}

	return order
}

// parallelGroups buckets tickets into topological levels: a ticket's level
// is one past the deepest level among its dependencies, so every ticket in
// group k depends only on tickets in groups 0..k-1.
func (b *builder) parallelGroups(order []int) [][]int {
	if len(order) == 0 {
		return nil
	}

	level := make(map[int]int, len(order))
	maxLevel := 0
	for _, node := range order {
		l := 0
		for _, dep := range b.deps[node] {
			if level[dep]+1 > l {
				l = level[dep] + 1
			}
		}
		level[node] = l
		if l > maxLevel {
			maxLevel = l
		}
	}

	groups := make([][]int, maxLevel+1)
	for _, node := range b.nodes {
		groups[level[node]] = append(groups[level[node]], node)
	}
	return groups
}

// criticalPath computes the longest path through the graph weighted by
// estimated minutes. Ties are broken toward the lowest ticket number, both
// when choosing a node's best predecessor and when choosing the path end.
// The returned path runs in execution order, dependencies first.
func (b *builder) criticalPath(order []int) ([]int, int) {
	if len(order) == 0 {
		return nil, 0
	}

	dist := make(map[int]int, len(order))
	prev := make(map[int]int, len(order))
	for _, node := range order {
		for _, dep := range b.deps[node] {
			if p, ok := prev[node]; !ok || dist[dep] > dist[p] {
				prev[node] = dep
			}
		}
		dist[node] = b.minutes[node]
		if p, ok := prev[node]; ok {
			dist[node] += dist[p]
		}
	}

	end, total := 0, -1
	for _, node := range b.nodes {
		if dist[node] > total {
			end, total = node, dist[node]
		}
	}

	var path []int
	for cur := end; ; {
		path = append(path, cur)
		p, ok := prev[cur]
		if !ok {
			break
		}
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, total
}

// blockers ranks tickets by how many other tickets directly or transitively
// depend on them, ties broken toward the lower ticket number, and returns
// the top limit ticket numbers. Tickets nothing depends on are not blockers.
func (b *builder) blockers(limit int) []int {
	dependents := make(map[int][]int, len(b.nodes))
	for _, node := range b.nodes {
		for _, dep := range b.deps[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	counts := make(map[int]int, len(b.nodes))
	ranked := make([]int, 0, len(b.nodes))
	for _, node := range b.nodes {
		counts[node] = countReachable(node, dependents)
		if counts[node] > 0 {
			ranked = append(ranked, node)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if len(ranked) == 0 {
		return nil
	}
	return ranked
}

// countReachable counts the nodes reachable from start over the dependents
// adjacency, excluding start itself
func countReachable(start int, dependents map[int][]int) int {
	visited := map[int]bool{start: true}
	stack := append([]int(nil), dependents[start]...)

	count := 0
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		count++
		stack = append(stack, dependents[node]...)
	}
	return count
}

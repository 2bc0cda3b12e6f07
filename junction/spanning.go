// SPDX-License-Identifier: MIT
// File: spanning.go
// Role: clique tree as a maximum-weight spanning tree on separator sizes.

package junction

import "sort"

// link is a candidate edge between cliques a < b weighted by |Ca ∩ Cb|.
type link struct {
	a, b   int
	weight int
}

// spanningTree connects n cliques with n-1 links of maximum total separator
// size. It uses a disjoint-set (union-find) with path compression and union by
// rank. Every pair is a candidate, including pairs with an empty separator, so
// disconnected components end up joined and the result is always one tree.
//
// Steps:
//  1. Enumerate all pairs (a, b), a < b, in lexicographic order.
//  2. Stable sort by descending weight; ties keep the enumeration order.
//  3. Accept a pair when it joins two different components; stop at n-1.
//
// Complexity: O(n² log n + n²·α(n)).
func spanningTree(n int, weight func(a, b int) int) []link {
	if n < 2 {
		return nil
	}
	links := make([]link, 0, n*(n-1)/2)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			links = append(links, link{a: a, b: b, weight: weight(a, b)})
		}
	}
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].weight > links[j].weight
	})

	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(u int) int {
		for parent[u] != u {
			parent[u] = parent[parent[u]]
			u = parent[u]
		}
		return u
	}
	union := func(u, v int) {
		ru, rv := find(u), find(v)
		switch {
		case rank[ru] < rank[rv]:
			parent[ru] = rv
		case rank[ru] > rank[rv]:
			parent[rv] = ru
		default:
			parent[rv] = ru
			rank[ru]++
		}
	}

	tree := make([]link, 0, n-1)
	for _, l := range links {
		if find(l.a) == find(l.b) {
			continue
		}
		union(l.a, l.b)
		tree = append(tree, l)
		if len(tree) == n-1 {
			break
		}
	}

	return tree
}

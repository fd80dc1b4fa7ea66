package solver

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Built-in reference adapters. Real engines (OR-Tools, LKH, Concorde)
// live behind the same Adapter contract out of tree; these keep the
// harness runnable and give the comparison a baseline.

type randomSolver struct {
	name string
	rng  *rand.Rand
}

// NewRandom returns an adapter that shuffles a permutation uniformly.
func NewRandom(name string, seed int64) Adapter {
	return &randomSolver{name: name, rng: rand.New(rand.NewSource(seed))}
}

func (s *randomSolver) Name() string { return s.name }

func (s *randomSolver) Solve(_ context.Context, matrix [][]float64, _ time.Duration) (Tour, error) {
	n := len(matrix)
	tour := make(Tour, n)
	for i := range tour {
		tour[i] = i
	}
	s.rng.Shuffle(n, func(i, j int) { tour[i], tour[j] = tour[j], tour[i] })
	return tour, nil
}

type nearestNeighbor struct {
	name string
}

// NewNearestNeighbor returns the deterministic greedy construction
// starting at node 0.
func NewNearestNeighbor(name string) Adapter {
	return &nearestNeighbor{name: name}
}

func (s *nearestNeighbor) Name() string { return s.name }

func (s *nearestNeighbor) Solve(_ context.Context, matrix [][]float64, _ time.Duration) (Tour, error) {
	n := len(matrix)
	if n == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	visited := make([]bool, n)
	tour := make(Tour, 0, n)
	current := 0
	visited[0] = true
	tour = append(tour, 0)

	for len(tour) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if next < 0 || matrix[current][j] < matrix[current][next] {
				next = j
			}
		}
		visited[next] = true
		tour = append(tour, next)
		current = next
	}
	return tour, nil
}

type greedyEdge struct {
	name string
}

// NewGreedyEdge builds a tour by taking the cheapest edges first, skipping
// any edge that would create a vertex of degree three or close a premature
// cycle. Symmetrized costs are used for edge ordering.
func NewGreedyEdge(name string) Adapter {
	return &greedyEdge{name: name}
}

func (s *greedyEdge) Name() string { return s.name }

func (s *greedyEdge) Solve(_ context.Context, matrix [][]float64, _ time.Duration) (Tour, error) {
	n := len(matrix)
	if n == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	if n == 1 {
		return Tour{0}, nil
	}
	if n == 2 {
		// A single edge cannot give both endpoints degree two, so the
		// selection loop below can never close this tour.
		return Tour{0, 1}, nil
	}

	type edge struct {
		u, v int
		w    float64
	}
	edges := make([]edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, edge{i, j, matrix[i][j] + matrix[j][i]})
		}
	}
	sort.Slice(edges, func(a, b int) bool { return edges[a].w < edges[b].w })

	degree := make([]int, n)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	adj := make([][]int, n)
	taken := 0
	for _, e := range edges {
		if taken == n {
			break
		}
		if degree[e.u] == 2 || degree[e.v] == 2 {
			continue
		}
		ru, rv := find(e.u), find(e.v)
		if ru == rv && taken != n-1 {
			continue // would close a short cycle
		}
		parent[ru] = rv
		degree[e.u]++
		degree[e.v]++
		adj[e.u] = append(adj[e.u], e.v)
		adj[e.v] = append(adj[e.v], e.u)
		taken++
	}
	if taken != n {
		return nil, fmt.Errorf("greedy edge selection left an open tour")
	}

	// Walk the cycle starting at 0.
	tour := make(Tour, 0, n)
	prev, current := -1, 0
	for len(tour) < n {
		tour = append(tour, current)
		next := adj[current][0]
		if next == prev {
			next = adj[current][1]
		}
		prev, current = current, next
	}
	return tour, nil
}

type twoOpt struct {
	name string
}

// NewTwoOpt returns first-improvement 2-opt local search over a
// nearest-neighbor start. It honors its time budget by checking the
// deadline between improvement sweeps.
func NewTwoOpt(name string) Adapter {
	return &twoOpt{name: name}
}

func (s *twoOpt) Name() string { return s.name }

func (s *twoOpt) Solve(ctx context.Context, matrix [][]float64, budget time.Duration) (Tour, error) {
	start, err := NewNearestNeighbor(s.name).Solve(ctx, matrix, budget)
	if err != nil {
		return nil, err
	}
	n := len(start)
	if n < 4 {
		return start, nil
	}

	deadline := time.Now().Add(budget)
	tour := start

	improved := true
	for improved {
		improved = false
		if time.Now().After(deadline) || ctx.Err() != nil {
			break
		}
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				a, b := tour[i-1], tour[i]
				c, d := tour[k], tour[(k+1)%n]
				delta := matrix[a][c] + matrix[b][d] - matrix[a][b] - matrix[c][d]
				if delta < -1e-9 {
					reverse(tour, i, k)
					improved = true
				}
			}
		}
	}
	return tour, nil
}

func reverse(t Tour, i, k int) {
	for i < k {
		t[i], t[k] = t[k], t[i]
		i++
		k--
	}
}

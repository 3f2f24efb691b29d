// Package scheduler implements the concurrent topological traversal that
// drives project builds over the dependency graph.
package scheduler

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
)

// DepResult carries one dependency's computed value into a dependent's
// compute call.
type DepResult[R any] struct {
	Build *domain.ProjectBuild
	Value R
}

// Compute produces a node's result. It is invoked at most once per node,
// strictly after every dependency has produced a result; deps arrive in
// tie-break order. Returning an error marks the node's whole subtree as not
// computable; it does not stop independent subtrees.
type Compute[R any] func(ctx context.Context, node *domain.ProjectBuild, deps []DepResult[R]) (R, error)

// Options tune a traversal.
type Options struct {
	// Parallelism caps concurrently running computes. Zero or negative
	// means no cap beyond the graph's intrinsic parallelism.
	Parallelism int
	// TieBreak orders sibling nodes for deterministic dispatch and for the
	// ordering of dependency results. It never serializes independent
	// work. Defaults to name order.
	TieBreak func(a, b string) int
}

// Traverse computes a result for every node of the graph, respecting the
// dependency edges: independent nodes run concurrently, dependents wait for
// their dependencies. Cycle detection runs before any compute is invoked.
//
// The returned map holds the result of every node whose compute completed.
// Nodes are missing when their subtree was cut off by a compute error or
// when the context ended first; in both cases the error return is non-nil
// and in-flight computes have been drained. A traversal is single-use.
func Traverse[R any](ctx context.Context, g *domain.Graph, opts Options, compute Compute[R]) (map[string]R, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return newRunState(ctx, g, opts, compute).run()
}

type result[R any] struct {
	name  string
	value R
	err   error
}

type runState[R any] struct {
	g        *domain.Graph
	compute  Compute[R]
	tieBreak func(a, b string) int

	inDegree   map[string]int
	dependents map[string][]string
	ready      []string
	active     int
	limit      int
	results    map[string]R
	resultsCh  chan result[R]
	errs       error
	ctx        context.Context
}

func newRunState[R any](ctx context.Context, g *domain.Graph, opts Options, compute Compute[R]) *runState[R] {
	n := g.Len()

	tieBreak := opts.TieBreak
	if tieBreak == nil {
		tieBreak = strings.Compare
	}
	limit := opts.Parallelism
	if limit <= 0 || limit > n {
		limit = n
	}

	inDegree := make(map[string]int, n)
	dependents := make(map[string][]string, n)
	for node := range g.Walk() {
		inDegree[node.Name()] = len(node.Dependencies)
		for _, dep := range node.Dependencies {
			dependents[dep] = append(dependents[dep], node.Name())
		}
	}

	var ready []string
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	slices.SortFunc(ready, tieBreak)

	return &runState[R]{
		g:          g,
		compute:    compute,
		tieBreak:   tieBreak,
		inDegree:   inDegree,
		dependents: dependents,
		ready:      ready,
		limit:      limit,
		results:    make(map[string]R, n),
		resultsCh:  make(chan result[R], max(limit, 1)),
		ctx:        ctx,
	}
}

func (st *runState[R]) run() (map[string]R, error) {
	for !st.isDone() {
		st.schedule()

		if st.isDone() {
			break
		}

		if st.ctx.Err() != nil {
			// No new dispatch after cancellation; drain what is in flight.
			if st.active == 0 {
				break
			}
			st.handleResult(<-st.resultsCh)
			continue
		}

		select {
		case res := <-st.resultsCh:
			st.handleResult(res)
		case <-st.ctx.Done():
		}
	}

	if st.ctx.Err() != nil {
		st.errs = errors.Join(st.errs, st.ctx.Err())
	}

	return st.results, st.errs
}

// isDone reports that nothing is running and nothing can be dispatched.
// Nodes whose dependencies never resolved simply stay uncomputed.
func (st *runState[R]) isDone() bool {
	return st.active == 0 && len(st.ready) == 0
}

func (st *runState[R]) schedule() {
	for len(st.ready) > 0 && st.active < st.limit && st.ctx.Err() == nil {
		name := st.ready[0]
		st.ready = st.ready[1:]

		node, ok := st.g.Node(name)
		if !ok {
			// Validate guarantees every ready name resolves.
			continue
		}
		deps := st.depResults(node)

		st.active++
		go func() {
			value, err := st.compute(st.ctx, node, deps)
			st.resultsCh <- result[R]{name: name, value: value, err: err}
		}()
	}
}

// depResults snapshots the already-computed dependency values of node in
// tie-break order. Only the scheduling loop touches the results map, so no
// locking is needed.
func (st *runState[R]) depResults(node *domain.ProjectBuild) []DepResult[R] {
	names := slices.Clone(node.Dependencies)
	slices.SortFunc(names, st.tieBreak)

	deps := make([]DepResult[R], 0, len(names))
	for _, dep := range names {
		depBuild, _ := st.g.Node(dep)
		deps = append(deps, DepResult[R]{Build: depBuild, Value: st.results[dep]})
	}
	return deps
}

func (st *runState[R]) handleResult(res result[R]) {
	st.active--

	if res.err != nil {
		wrapped := zerr.With(zerr.Wrap(res.err, "node computation failed"), "project", res.name)
		st.errs = errors.Join(st.errs, wrapped)
		return
	}

	st.results[res.name] = res.value

	unlocked := false
	for _, dep := range st.dependents[res.name] {
		st.inDegree[dep]--
		if st.inDegree[dep] == 0 {
			st.ready = append(st.ready, dep)
			unlocked = true
		}
	}
	if unlocked {
		slices.SortFunc(st.ready, st.tieBreak)
	}
}

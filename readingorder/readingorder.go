// Package readingorder imposes a human reading order over spatially placed
// document elements (spec §4.5). It is the final assembly stage for PDFs and
// other page-oriented backends: layout detection and OCR produce elements in
// arbitrary emission order, and this package rewrites that into the order a
// reader would scan the page.
//
// The algorithm is grounded directly on the original implementation's
// stage10_reading_order module (predecessor graph, strict total order,
// iterative DFS with explicit stack frames that climb to unvisited
// predecessors), translated to idiomatic Go rather than transplanted.
package readingorder

import (
	"fmt"
	"sort"

	"github.com/docling-project/docling-go/document"
)

// Element is one spatially placed node to be ordered (spec §4.5).
type Element struct {
	ID         string
	Page       int
	BBox       document.BoundingBox
	PageHeight float64
	IsHeader   bool // page_header or page_footer: pulled into the headers bin
}

// Result is the reordered output plus any verification diagnostics (F70).
type Result struct {
	Order    []string
	Warnings []string
}

// Order computes the reading order over elements (spec §4.5 steps 1-6),
// grouped and concatenated page by page: a page's headers (sorted by the
// total order) are emitted before its body traversal.
func Order(elements []Element) Result {
	byPage := make(map[int][]Element)
	var pages []int
	for _, e := range elements {
		if _, seen := byPage[e.Page]; !seen {
			pages = append(pages, e.Page)
		}
		byPage[e.Page] = append(byPage[e.Page], e)
	}
	sort.Ints(pages)

	var order []string
	for _, page := range pages {
		pageElems := byPage[page]
		var headers, body []bottomLeftElement
		for _, e := range pageElems {
			bl := toBottomLeft(e)
			if e.IsHeader {
				headers = append(headers, bl)
			} else {
				body = append(body, bl)
			}
		}
		sort.Slice(headers, func(i, j int) bool { return totalOrderLess(headers[i], headers[j]) })
		for _, h := range headers {
			order = append(order, h.id)
		}
		order = append(order, traverseBody(body)...)
	}

	return Result{Order: order, Warnings: verify(elements, order)}
}

// bottomLeftElement is an Element whose bbox has been converted into the
// bottom_left origin this algorithm works in internally (spec §4.5 step 2).
type bottomLeftElement struct {
	id   string
	l, t, r, b float64
}

func toBottomLeft(e Element) bottomLeftElement {
	box := e.BBox.ToOrigin(document.BottomLeft, e.PageHeight)
	return bottomLeftElement{id: e.ID, l: box.L, t: box.T, r: box.R, b: box.B}
}

// totalOrderLess implements the strict total order (page asc, b desc, l asc,
// r asc, t asc, id asc); page is already fixed per call site so it is
// omitted here and applied by the caller's page grouping.
func totalOrderLess(a, b bottomLeftElement) bool {
	if a.b != b.b {
		return a.b > b.b
	}
	if a.l != b.l {
		return a.l < b.l
	}
	if a.r != b.r {
		return a.r < b.r
	}
	if a.t != b.t {
		return a.t < b.t
	}
	return a.id < b.id
}

func horizontallyOverlaps(a, b bottomLeftElement) bool {
	lo := a.l
	if b.l > lo {
		lo = b.l
	}
	hi := a.r
	if b.r < hi {
		hi = b.r
	}
	return lo < hi
}

// isStrictlyAbove reports whether a sits strictly above b: a's bottom edge
// is still higher than b's top edge.
func isStrictlyAbove(a, b bottomLeftElement) bool {
	return a.b > b.t
}

// hasDirectEdge implements spec §4.5 step 3's predecessor-edge rule: i->j
// exists iff i is strictly above j, i overlaps j horizontally, and no third
// element w sits in the gap (w overlaps i or j horizontally, is strictly
// above j, and i is strictly above w — i.e. w would be a closer predecessor).
func hasDirectEdge(i, j bottomLeftElement, all []bottomLeftElement) bool {
	if !isStrictlyAbove(i, j) || !horizontallyOverlaps(i, j) {
		return false
	}
	for _, w := range all {
		if w.id == i.id || w.id == j.id {
			continue
		}
		if !horizontallyOverlaps(w, i) && !horizontallyOverlaps(w, j) {
			continue
		}
		if isStrictlyAbove(w, j) && isStrictlyAbove(i, w) {
			return false
		}
	}
	return true
}

// traverseBody runs spec §4.5 steps 3-6 over one page's body elements.
func traverseBody(elems []bottomLeftElement) []string {
	byID := make(map[string]bottomLeftElement, len(elems))
	for _, e := range elems {
		byID[e.id] = e
	}

	predecessors := make(map[string][]string)
	successors := make(map[string][]string)
	for _, j := range elems {
		for _, i := range elems {
			if i.id == j.id {
				continue
			}
			if hasDirectEdge(i, j, elems) {
				predecessors[j.id] = append(predecessors[j.id], i.id)
				successors[i.id] = append(successors[i.id], j.id)
			}
		}
	}

	sortByTotalOrder := func(ids []string) []string {
		sorted := make([]string, len(ids))
		copy(sorted, ids)
		sort.Slice(sorted, func(a, b int) bool {
			return totalOrderLess(byID[sorted[a]], byID[sorted[b]])
		})
		return sorted
	}

	var heads []string
	for _, e := range elems {
		if len(predecessors[e.id]) == 0 {
			heads = append(heads, e.id)
		}
	}
	heads = sortByTotalOrder(heads)

	visited := make(map[string]bool, len(elems))
	var out []string

	type frame struct {
		succ   []string
		offset int
	}
	var stack []frame

	visit := func(id string) {
		visited[id] = true
		out = append(out, id)
		stack = append(stack, frame{succ: sortByTotalOrder(successors[id])})
	}

	// findClimbTarget returns the first unvisited predecessor of cand, in
	// total order, if any — the "climb to it first" behavior (spec §9).
	findClimbTarget := func(cand string) (string, bool) {
		preds := sortByTotalOrder(predecessors[cand])
		for _, p := range preds {
			if !visited[p] {
				return p, true
			}
		}
		return "", false
	}

	for _, head := range heads {
		if visited[head] {
			continue
		}
		visit(head)
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.offset >= len(top.succ) {
				stack = stack[:len(stack)-1]
				continue
			}
			cand := top.succ[top.offset]
			top.offset++
			if visited[cand] {
				continue
			}
			if climbTo, ok := findClimbTarget(cand); ok {
				visit(climbTo)
				continue
			}
			visit(cand)
		}
	}

	// Disconnected/floating elements left unvisited are appended in total
	// order (spec §4.5 step 6).
	var leftover []string
	for _, e := range elems {
		if !visited[e.id] {
			leftover = append(leftover, e.id)
		}
	}
	leftover = sortByTotalOrder(leftover)
	out = append(out, leftover...)

	return out
}

// verify implements the F70 check: |input| == |output|, ids unique, id-sets
// equal (spec §4.5, §8).
func verify(input []Element, output []string) []string {
	var warnings []string

	inputIDs := make(map[string]bool, len(input))
	for _, e := range input {
		if inputIDs[e.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate input id %q", e.ID))
		}
		inputIDs[e.ID] = true
	}

	seen := make(map[string]bool, len(output))
	for _, id := range output {
		if seen[id] {
			warnings = append(warnings, fmt.Sprintf("duplicate output id %q", id))
		}
		seen[id] = true
		if !inputIDs[id] {
			warnings = append(warnings, fmt.Sprintf("unexpected extra id %q in output", id))
		}
	}

	if len(input) != len(output) {
		warnings = append(warnings, fmt.Sprintf("count mismatch: input=%d output=%d", len(input), len(output)))
	}
	for id := range inputIDs {
		if !seen[id] {
			warnings = append(warnings, fmt.Sprintf("missing id %q in output", id))
		}
	}

	return warnings
}

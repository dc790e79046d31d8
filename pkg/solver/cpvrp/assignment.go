package cpvrp

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/flow"

	"github.com/fieldroute/optimizer/pkg/constraints"
	"github.com/fieldroute/optimizer/pkg/models"
)

type lvlathEngine struct{}

// AssignTiers matches work orders to technicians one priority tier at a
// time (emergency, then high, then medium, then low-and-unknown),
// honoring §4.6's drop-penalty ordering. Within a tier, matching is
// posed as max-flow on a bipartite network (source -> technicians ->
// skill-feasible orders -> sink, unit capacity on the technician-order
// and order-sink edges) and solved with flow.Dinic. lvlath's flow
// package implements max-flow only, with no min-cost-flow variant, so
// there is no single global cost-weighted optimum available; solving
// strictly tier-by-tier in priority order is the substitute — an
// emergency order is never left unmatched in favor of a cheaper-to-
// reach low-priority one. Per-technician hour/time-window feasibility
// is not enforced here; it is re-checked, and any infeasible stop
// dropped, by this package's decoder once a visiting order is known.
func (e *lvlathEngine) AssignTiers(orders []models.WorkOrder, technicians []models.Technician, matrix *models.DistanceMatrix, speedMPH float64) ([]TierAssignment, []int, error) {
	tiers := [][]int{nil, nil, nil, nil} // emergency, high, medium, low+unknown
	for idx, wo := range orders {
		switch wo.Priority {
		case models.PriorityEmergency:
			tiers[0] = append(tiers[0], idx)
		case models.PriorityHigh:
			tiers[1] = append(tiers[1], idx)
		case models.PriorityMedium:
			tiers[2] = append(tiers[2], idx)
		default:
			tiers[3] = append(tiers[3], idx)
		}
	}

	perTechnician := make(map[int][]int, len(technicians))
	var unassigned []int

	for _, tierOrderIdxs := range tiers {
		if len(tierOrderIdxs) == 0 {
			continue
		}
		matched, dropped, err := matchTier(tierOrderIdxs, orders, technicians)
		if err != nil {
			return nil, nil, err
		}
		for techIdx, orderIdxs := range matched {
			perTechnician[techIdx] = append(perTechnician[techIdx], orderIdxs...)
		}
		unassigned = append(unassigned, dropped...)
	}

	techIdxs := make([]int, 0, len(perTechnician))
	for techIdx := range perTechnician {
		techIdxs = append(techIdxs, techIdx)
	}
	sort.Ints(techIdxs)

	assignments := make([]TierAssignment, 0, len(techIdxs))
	for _, techIdx := range techIdxs {
		assignments = append(assignments, TierAssignment{
			TechnicianIndex: techIdx,
			OrderIndices:    perTechnician[techIdx],
		})
	}

	sort.Ints(unassigned)
	return assignments, unassigned, nil
}

// matchTier runs one max-flow bipartite matching over a single
// priority tier's work orders against every technician whose skills
// satisfy the order's requirements.
func matchTier(tierOrderIdxs []int, orders []models.WorkOrder, technicians []models.Technician) (map[int][]int, []int, error) {
	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())

	const source = "source"
	const sink = "sink"
	if err := g.AddVertex(source); err != nil {
		return nil, nil, err
	}
	if err := g.AddVertex(sink); err != nil {
		return nil, nil, err
	}

	techNode := func(i int) string { return fmt.Sprintf("tech_%d", i) }
	orderNode := func(i int) string { return fmt.Sprintf("order_%d", i) }

	// Source->technician capacity equals the tier size, large enough that
	// the source never becomes the bottleneck; real feasibility is
	// re-checked later at decode time.
	techCapacity := int64(len(tierOrderIdxs))
	if techCapacity == 0 {
		techCapacity = 1
	}

	// hasSourceEdge/hasSinkEdge track which tech/order nodes already have
	// their single source-in or sink-out edge, since lvlath's default
	// graph (no WithMultiEdges) rejects a second AddEdge between the same
	// pair: without this, only the first technician matched in iteration
	// order would keep a path to source, and an order matched by more
	// than one technician would fail on its second order->sink add.
	hasSourceEdge := make(map[int]bool, len(technicians))
	hasSinkEdge := make(map[int]bool, len(tierOrderIdxs))
	anyEdge := false

	for techIdx, tech := range technicians {
		for _, orderIdx := range tierOrderIdxs {
			wo := orders[orderIdx]
			if !constraints.SkillMatch(tech.Skills, wo.RequiredSkills) {
				continue
			}
			if !hasSourceEdge[techIdx] {
				if _, err := g.AddEdge(source, techNode(techIdx), techCapacity); err != nil {
					return nil, nil, err
				}
				hasSourceEdge[techIdx] = true
			}
			if _, err := g.AddEdge(techNode(techIdx), orderNode(orderIdx), 1); err != nil {
				return nil, nil, err
			}
			if !hasSinkEdge[orderIdx] {
				if _, err := g.AddEdge(orderNode(orderIdx), sink, 1); err != nil {
					return nil, nil, err
				}
				hasSinkEdge[orderIdx] = true
			}
			anyEdge = true
		}
	}

	matched := make(map[int][]int)
	if !anyEdge {
		unassigned := make([]int, len(tierOrderIdxs))
		copy(unassigned, tierOrderIdxs)
		return matched, unassigned, nil
	}

	_, residual, err := flow.Dinic(g, source, sink, flow.FlowOptions{})
	if err != nil {
		return nil, nil, err
	}

	placed := make(map[int]bool, len(tierOrderIdxs))
	for techIdx := range technicians {
		edges, err := residual.Neighbors(techNode(techIdx))
		if err != nil {
			continue
		}
		for _, edge := range edges {
			if edge.Weight > 0 {
				continue // capacity remains; this edge carried no flow
			}
			var orderIdx int
			if n, scanErr := fmt.Sscanf(edge.To, "order_%d", &orderIdx); n != 1 || scanErr != nil {
				continue
			}
			matched[techIdx] = append(matched[techIdx], orderIdx)
			placed[orderIdx] = true
		}
	}

	var dropped []int
	for _, orderIdx := range tierOrderIdxs {
		if !placed[orderIdx] {
			dropped = append(dropped, orderIdx)
		}
	}

	for techIdx := range matched {
		sort.Ints(matched[techIdx])
	}

	return matched, dropped, nil
}

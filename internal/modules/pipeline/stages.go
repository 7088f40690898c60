package pipeline

import (
	"fmt"

	"studiopromise/internal/domain"
)

// routeStates maps every known stage to the sub-view a viewer should see.
var routeStates = map[domain.StageSlug]domain.RouteState{
	domain.StagePending:     domain.RoutePending,
	domain.StageNegotiation: domain.RouteClosing,
	domain.StageClosing:     domain.RouteClosing,
	domain.StageApproved:    domain.RouteAuthorized,
	domain.StageCanceled:    domain.RouteAuthorized,
	domain.StageArchived:    domain.RouteAuthorized,
}

var terminalStages = map[domain.StageSlug]bool{
	domain.StageApproved: true,
	domain.StageCanceled: true,
	domain.StageArchived: true,
}

// Allowed forward transitions. Terminal stages have no normal exits;
// archiving and rollbacks are administrative actions handled by the service.
var transitions = map[domain.StageSlug]map[domain.StageSlug]bool{
	domain.StagePending:     {domain.StageNegotiation: true, domain.StageCanceled: true},
	domain.StageNegotiation: {domain.StageClosing: true, domain.StageCanceled: true},
	domain.StageClosing:     {domain.StageApproved: true, domain.StageCanceled: true},
	domain.StageApproved:    {},
	domain.StageCanceled:    {},
	domain.StageArchived:    {},
}

// ResolveRouteState is a total mapping: unknown slugs resolve to the pending
// view rather than failing, so future stage additions degrade gracefully.
func ResolveRouteState(slug domain.StageSlug) domain.RouteState {
	if state, ok := routeStates[slug]; ok {
		return state
	}
	return domain.RoutePending
}

func IsTerminal(slug domain.StageSlug) bool {
	return terminalStages[slug]
}

func IsKnownStage(slug domain.StageSlug) bool {
	_, ok := routeStates[slug]
	return ok
}

func CanTransition(from, to domain.StageSlug) bool {
	nexts, ok := transitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

// RoutePath builds the canonical physical route for a deal:
// /studios/{studio}/promises/{dealID}/{routeState}
func RoutePath(studioSlug string, dealID int64, state domain.RouteState) string {
	return fmt.Sprintf("/studios/%s/promises/%d/%s", studioSlug, dealID, state)
}

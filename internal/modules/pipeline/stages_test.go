package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studiopromise/internal/domain"
)

func TestResolveRouteState(t *testing.T) {
	cases := []struct {
		stage domain.StageSlug
		want  domain.RouteState
	}{
		{domain.StagePending, domain.RoutePending},
		{domain.StageNegotiation, domain.RouteClosing},
		{domain.StageClosing, domain.RouteClosing},
		{domain.StageApproved, domain.RouteAuthorized},
		{domain.StageCanceled, domain.RouteAuthorized},
		{domain.StageArchived, domain.RouteAuthorized},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveRouteState(tc.stage), "stage %s", tc.stage)
	}
}

func TestResolveRouteState_UnknownStageFallsBackToPending(t *testing.T) {
	assert.Equal(t, domain.RoutePending, ResolveRouteState("waiting_for_paperwork"))
	assert.Equal(t, domain.RoutePending, ResolveRouteState(""))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(domain.StageApproved))
	assert.True(t, IsTerminal(domain.StageCanceled))
	assert.True(t, IsTerminal(domain.StageArchived))
	assert.False(t, IsTerminal(domain.StagePending))
	assert.False(t, IsTerminal(domain.StageNegotiation))
	assert.False(t, IsTerminal(domain.StageClosing))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(domain.StagePending, domain.StageNegotiation))
	assert.True(t, CanTransition(domain.StageNegotiation, domain.StageClosing))
	assert.True(t, CanTransition(domain.StageClosing, domain.StageApproved))
	assert.True(t, CanTransition(domain.StagePending, domain.StageCanceled))

	// No skipping ahead and no leaving terminal stages.
	assert.False(t, CanTransition(domain.StagePending, domain.StageApproved))
	assert.False(t, CanTransition(domain.StageApproved, domain.StageClosing))
	assert.False(t, CanTransition(domain.StageCanceled, domain.StagePending))
	assert.False(t, CanTransition(domain.StageArchived, domain.StagePending))
}

func TestRoutePath(t *testing.T) {
	path := RoutePath("luz-norte", 42, domain.RouteClosing)
	assert.Equal(t, "/studios/luz-norte/promises/42/closing", path)
}

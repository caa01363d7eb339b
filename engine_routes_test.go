package hmsauth

import (
	"context"
	"testing"

	"github.com/caresuite/hmsauth/routes"
)

func TestEvaluateRouteFollowsSession(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Metrics.Enabled = true
	engine, _, _, done := newTestEngine(t, cfg)
	defer done()
	ctx := context.Background()

	// Before hydration every navigation holds.
	if d := engine.EvaluateRoute("/patients"); d.Action != routes.ActionPending {
		t.Fatalf("pre-hydration decision = %v, want pending", d.Action)
	}

	if err := engine.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if d := engine.EvaluateRoute("/patients"); d.Action != routes.ActionRedirect || d.Target != "/login" {
		t.Fatalf("unauthenticated decision = %+v, want redirect to /login", d)
	}

	if _, err := engine.Login(ctx, "doctor@hospital.com", "doctor123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if d := engine.EvaluateRoute("/doctor"); d.Action != routes.ActionAllow {
		t.Fatalf("own zone decision = %v, want allow", d.Action)
	}
	if d := engine.EvaluateRoute("/admin/users"); d.Action != routes.ActionRedirect || d.Target != "/doctor" {
		t.Fatalf("foreign zone decision = %+v, want redirect home", d)
	}
	if d := engine.EvaluateRoute("/login"); d.Action != routes.ActionRedirect || d.Target != "/doctor" {
		t.Fatalf("login page while signed in = %+v, want redirect home", d)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricRouteRedirect] != 3 {
		t.Fatalf("route redirect count = %d, want 3", snap.Counters[MetricRouteRedirect])
	}

	if home := engine.Routes().LandingFor("doctor"); home != "/doctor" {
		t.Fatalf("landing = %q, want /doctor", home)
	}
}

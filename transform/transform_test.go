package transform

import (
	"testing"

	"github.com/ctessum/geom"
)

func TestChaikinPinsEndpoints(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 0}, {X: 3, Y: 2}, {X: 4, Y: 0}}
	out := chaikin(pts, 3)
	if out[0] != pts[0] {
		t.Errorf("start endpoint moved: got %v want %v", out[0], pts[0])
	}
	if out[len(out)-1] != pts[len(pts)-1] {
		t.Errorf("end endpoint moved: got %v want %v", out[len(out)-1], pts[len(pts)-1])
	}
	if len(out) != len(pts)*8 {
		t.Errorf("expected point count to double each of 3 iterations (%d), got %d", len(pts)*8, len(out))
	}
}

func TestChaikinZeroIterationsIsIdentity(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	out := chaikin(pts, 0)
	if len(out) != 2 || out[0] != pts[0] || out[1] != pts[1] {
		t.Errorf("expected identity for 0 iterations, got %v", out)
	}
}

func TestRDPCollapsesCollinearPoints(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	out := rdp(pts, 0.01)
	if len(out) != 2 {
		t.Fatalf("expected collinear run to collapse to 2 points, got %d: %v", len(out), out)
	}
	if out[0] != pts[0] || out[1] != pts[len(pts)-1] {
		t.Errorf("endpoints not preserved: got %v", out)
	}
}

func TestRDPKeepsSignificantDeviation(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 5}, {X: 2, Y: 0}}
	out := rdp(pts, 0.5)
	if len(out) != 3 {
		t.Fatalf("expected spike point to survive simplification, got %d points", len(out))
	}
}

func TestSimplifyClosedPreservesSeedAndMidpoint(t *testing.T) {
	// A closed octagon-ish ring: seed/closing vertex and midpoint should
	// both survive regardless of tolerance, since simplifyClosed always
	// re-attaches them at the split boundary.
	pts := []geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0.01}, {X: 2, Y: 0}, {X: 3, Y: 0.01},
		{X: 4, Y: 0}, {X: 3, Y: -0.01}, {X: 2, Y: 0}, {X: 1, Y: -0.01}, {X: 0, Y: 0},
	}
	out := simplifyClosed(pts, 1.0)
	if out[0] != pts[0] {
		t.Errorf("seed vertex not preserved: got %v want %v", out[0], pts[0])
	}
	if out[len(out)-1] != pts[len(pts)-1] {
		t.Errorf("closing vertex not preserved: got %v want %v", out[len(out)-1], pts[len(pts)-1])
	}
	mid := pts[len(pts)/2]
	foundMid := false
	for _, p := range out {
		if p == mid {
			foundMid = true
		}
	}
	if !foundMid {
		t.Errorf("midpoint %v not preserved: got %v", mid, out)
	}
}

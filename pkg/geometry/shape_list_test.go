package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

func TestShapeList_Empty(t *testing.T) {
	list := NewShapeList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected empty list to miss")
	}
	if list.Len() != 0 {
		t.Errorf("Expected length 0, got %d", list.Len())
	}
}

func TestShapeList_ReturnsNearestOfOverlappingSpheres(t *testing.T) {
	nearMat := material.NewLambertian(core.NewVec3(1, 0, 0))
	farMat := material.NewLambertian(core.NewVec3(0, 0, 1))
	near := NewSphere(core.NewVec3(0, 0, -2), 1.0, nearMat)
	far := NewSphere(core.NewVec3(0, 0, -3), 1.5, farMat)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	nearHit, ok := near.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected ray to hit the near sphere")
	}
	farHit, ok := far.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected ray to hit the far sphere")
	}
	if nearHit.Record.T >= farHit.Record.T {
		t.Fatalf("Test setup: near sphere (t=%f) should be hit before far sphere (t=%f)", nearHit.Record.T, farHit.Record.T)
	}

	// Insertion order must not matter
	orders := map[string]*ShapeList{
		"near first": NewShapeList(near, far),
		"far first":  NewShapeList(far, near),
	}

	for name, list := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			if hit.Record.T != nearHit.Record.T {
				t.Errorf("Expected nearest t=%f, got %f", nearHit.Record.T, hit.Record.T)
			}
			if hit.Material != material.Material(nearMat) {
				t.Error("Expected the near sphere's material")
			}
		})
	}
}

func TestShapeList_RespectsTMax(t *testing.T) {
	list := NewShapeList(
		NewSphere(core.NewVec3(0, 0, -5), 1.0, nil),
		NewSphere(core.NewVec3(0, 0, -10), 1.0, nil),
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, 0.001, 3.0); isHit {
		t.Error("Expected no hit before tMax=3")
	}

	hit, isHit := list.Hit(ray, 0.001, 100.0)
	if !isHit || math.Abs(hit.Record.T-4.0) > 1e-9 {
		t.Errorf("Expected hit at t=4, got hit=%t t=%f", isHit, hit.Record.T)
	}
}

func TestShapeList_Add(t *testing.T) {
	list := NewShapeList()
	list.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	list.Add(NewSphere(core.NewVec3(0, -100.5, -1), 100, nil))

	if list.Len() != 2 {
		t.Fatalf("Expected 2 shapes, got %d", list.Len())
	}

	// Straight down hits the ground sphere only
	hit, isHit := list.Hit(core.NewRay(core.NewVec3(2, 0, -1), core.NewVec3(0, -1, 0)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected to hit the ground")
	}
	expected := 100.5 - math.Sqrt(100*100-2*2)
	if math.Abs(hit.Record.T-expected) > 1e-9 {
		t.Errorf("Expected ground hit at t=%f, got %f", expected, hit.Record.T)
	}
}

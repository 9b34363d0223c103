package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.Record.T)
	}
}

func TestSphere_Hit_TowardCenter(t *testing.T) {
	for _, radius := range []float64{0.2, 1.0, 3.5, 1000.0} {
		sphere := NewSphere(core.NewVec3(0, 0, 0), radius, nil)
		ray := core.NewRay(core.NewVec3(0, 0, 2*radius), core.NewVec3(0, 0, -1))

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			t.Fatalf("radius %f: expected hit, but got miss", radius)
		}
		if math.Abs(hit.Record.T-radius) > 1e-9*radius {
			t.Errorf("radius %f: expected t=%f, got t=%f", radius, radius, hit.Record.T)
		}
		if hit.Record.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
			t.Errorf("radius %f: expected normal (0,0,1), got %v", radius, hit.Record.Normal)
		}
	}
}

func TestSphere_Hit_TIsRelativeToDirectionLength(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -4))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.Record.T-0.5) > 1e-12 {
		t.Errorf("Expected t=0.5 for a direction of length 4, got %f", hit.Record.T)
	}
}

func TestSphere_Hit_NearAndFarRoots(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		origin         core.Vec3
		direction      core.Vec3
		tMin, tMax     float64
		expectHit      bool
		expectedT      float64
		expectedNormal core.Vec3
	}{
		{
			name:           "outside takes near root",
			origin:         core.NewVec3(0, 0, 2),
			direction:      core.NewVec3(0, 0, -1),
			tMin:           0.001,
			tMax:           math.Inf(1),
			expectHit:      true,
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "inside takes far root",
			origin:         core.NewVec3(0, 0, 0),
			direction:      core.NewVec3(0, 0, 1),
			tMin:           0.001,
			tMax:           math.Inf(1),
			expectHit:      true,
			expectedT:      1.0,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "near root excluded by tMin",
			origin:         core.NewVec3(0, 0, 2),
			direction:      core.NewVec3(0, 0, -1),
			tMin:           1.5,
			tMax:           math.Inf(1),
			expectHit:      true,
			expectedT:      3.0,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:      "both roots beyond tMax",
			origin:    core.NewVec3(0, 0, 2),
			direction: core.NewVec3(0, 0, -1),
			tMin:      0.001,
			tMax:      0.5,
		},
		{
			name:      "both roots below tMin",
			origin:    core.NewVec3(0, 0, 2),
			direction: core.NewVec3(0, 0, -1),
			tMin:      3.5,
			tMax:      math.Inf(1),
		},
		{
			name:      "interval is open at tMax",
			origin:    core.NewVec3(0, 0, 2),
			direction: core.NewVec3(0, 0, -1),
			tMin:      0.001,
			tMax:      1.0,
		},
		{
			name:      "sphere behind the ray",
			origin:    core.NewVec3(0, 0, 2),
			direction: core.NewVec3(0, 0, 1),
			tMin:      0.001,
			tMax:      math.Inf(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(core.NewRay(tt.origin, tt.direction), tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t (t=%f)", tt.expectHit, isHit, hit.Record.T)
			}
			if !tt.expectHit {
				return
			}
			if math.Abs(hit.Record.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.Record.T)
			}
			if hit.Record.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Record.Normal)
			}
		})
	}
}

func TestSphere_Hit_TangentRayMisses(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected tangent ray (zero discriminant) to miss, got t=%f", hit.Record.T)
	}
}

func TestSphere_Hit_NoSelfIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0.3, -0.2, -1), 0.5, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.31, -0.17, -1))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected primary hit")
	}

	// Leave the surface along the normal from the computed hit point
	bounced := core.NewRay(hit.Record.Point, hit.Record.Normal)
	if again, isHit := sphere.Hit(bounced, 0.001, math.Inf(1)); isHit {
		t.Errorf("Ray re-intersected its own surface at t=%g", again.Record.T)
	}

	// Leaving tangentially should not re-hit either
	tangent := hit.Record.Normal.Cross(core.NewVec3(0, 1, 0))
	if again, isHit := sphere.Hit(core.NewRay(hit.Record.Point, tangent), 0.001, math.Inf(1)); isHit {
		t.Errorf("Tangent ray re-intersected its own surface at t=%g", again.Record.T)
	}
}

func TestSphere_Hit_NegativeRadiusFlipsNormal(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), -1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit on negative-radius sphere")
	}
	if math.Abs(hit.Record.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got %f", hit.Record.T)
	}
	if hit.Record.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-12 {
		t.Errorf("Expected inward normal (0,0,-1), got %v", hit.Record.Normal)
	}
}

func TestSphere_Hit_ZeroDirectionIsAMiss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0.5), core.NewVec3(0, 0, 0))

	if _, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected zero-direction ray to be reported as a miss")
	}
}

func TestSphere_Hit_CarriesMaterial(t *testing.T) {
	mat := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.3))
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, mat)

	hit, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material != material.Material(mat) {
		t.Errorf("Expected hit to reference the sphere's material, got %v", hit.Material)
	}
}

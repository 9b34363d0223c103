package geometry

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// ShapeList is an ordered collection of shapes answering nearest-hit queries by linear scan.
// It is built before rendering and must not be modified while rays are being traced.
type ShapeList struct {
	Shapes []Shape
}

// NewShapeList creates a list from the given shapes, preserving their order
func NewShapeList(shapes ...Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *ShapeList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest intersection across all shapes in (tMin, tMax)
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (material.HitResult, bool) {
	var closest material.HitResult
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.Record.T
			closest = hit
		}
	}

	return closest, hitAnything
}

package geometry

import (
	"github.com/paulmach/orb"
)

// Polygons returns the polygons contained in 'geom', descending into multi-polygons and geometry collections.
// Any other geometry type yields no polygons.
func Polygons(geom orb.Geometry) []orb.Polygon {

	polys := make([]orb.Polygon, 0)

	switch g := geom.(type) {
	case orb.Polygon:
		polys = append(polys, g)
	case orb.MultiPolygon:
		for _, p := range g {
			polys = append(polys, p)
		}
	case orb.Collection:
		for _, c := range g {
			polys = append(polys, Polygons(c)...)
		}
	}

	return polys
}

// Bounds returns the union of the bounding boxes of the polygons in 'geoms' and a boolean value indicating
// whether there were any polygons at all.
func Bounds(geoms ...orb.Geometry) (orb.Bound, bool) {

	var bound orb.Bound
	found := false

	for _, geom := range geoms {

		for _, poly := range Polygons(geom) {

			b := poly.Bound()

			if !found {
				bound = b
				found = true
				continue
			}

			bound = bound.Union(b)
		}
	}

	return bound, found
}

// Vertices returns every coordinate in 'geom', in document order, including the closing point of each ring.
func Vertices(geom orb.Geometry) []orb.Point {

	points := make([]orb.Point, 0)

	switch g := geom.(type) {
	case orb.Point:
		points = append(points, g)
	case orb.MultiPoint:
		points = append(points, g...)
	case orb.LineString:
		points = append(points, g...)
	case orb.Ring:
		points = append(points, g...)
	case orb.MultiLineString:
		for _, ls := range g {
			points = append(points, ls...)
		}
	case orb.Polygon:
		for _, r := range g {
			points = append(points, r...)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			for _, r := range p {
				points = append(points, r...)
			}
		}
	case orb.Collection:
		for _, c := range g {
			points = append(points, Vertices(c)...)
		}
	}

	return points
}

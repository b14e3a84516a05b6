package analyze

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// round3 rounds to 3 decimal places, the precision the downstream
// generator contract expects for all lengths and Z-levels.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// polygonArea returns the unsigned area of a closed path via the
// shoelace formula. The path must not repeat its first point.
func polygonArea(path []v2.Vec) float64 {
	n := len(path)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += path[i].X*path[j].Y - path[j].X*path[i].Y
	}
	return math.Abs(sum) / 2
}

// polygonPerimeter returns the closed-path perimeter.
func polygonPerimeter(path []v2.Vec) float64 {
	n := len(path)
	if n < 2 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += path[(i+1)%n].Sub(path[i]).Length()
	}
	return sum
}

// circularity returns min(1, 4π·Area/Perimeter²); 1.0 is a perfect
// circle, a square scores π/4 ≈ 0.785.
func circularity(path []v2.Vec, area float64) float64 {
	perimeter := polygonPerimeter(path)
	if perimeter <= 0 {
		return 0
	}
	return math.Min(1, 4*math.Pi*area/(perimeter*perimeter))
}

// pathCentroid returns the vertex mean of a path.
func pathCentroid(path []v2.Vec) v2.Vec {
	var sum v2.Vec
	for _, p := range path {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(path)))
}

// simplifyClosedPath runs Ramer-Douglas-Peucker on a closed path. The
// loop is split at its two mutually farthest anchor points so each half
// can be simplified as an open polyline.
func simplifyClosedPath(path []v2.Vec, tol float64) []v2.Vec {
	n := len(path)
	if n <= 4 {
		return path
	}

	// Anchor 0 is index 0; anchor 1 is the point farthest from it.
	far := 0
	maxDist := -1.0
	for i := 1; i < n; i++ {
		if d := path[i].Sub(path[0]).Length(); d > maxDist {
			maxDist = d
			far = i
		}
	}
	if far == 0 {
		return path
	}

	first := simplifyOpenPath(path[:far+1], tol)
	second := append(append([]v2.Vec(nil), path[far:]...), path[0])
	second = simplifyOpenPath(second, tol)

	// Drop the shared endpoints when rejoining.
	out := append([]v2.Vec(nil), first...)
	if len(second) > 2 {
		out = append(out, second[1:len(second)-1]...)
	}
	return out
}

// simplifyOpenPath is standard recursive RDP on an open polyline.
func simplifyOpenPath(path []v2.Vec, tol float64) []v2.Vec {
	if len(path) <= 2 {
		return path
	}
	a, b := path[0], path[len(path)-1]
	maxDist := -1.0
	idx := 0
	for i := 1; i < len(path)-1; i++ {
		if d := pointSegmentDistance(path[i], a, b); d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if maxDist <= tol {
		return []v2.Vec{a, b}
	}
	left := simplifyOpenPath(path[:idx+1], tol)
	right := simplifyOpenPath(path[idx:], tol)
	return append(left[:len(left)-1], right...)
}

// pointSegmentDistance is the distance from p to segment ab.
func pointSegmentDistance(p, a, b v2.Vec) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Sub(a).Length()
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := a.Add(ab.MulScalar(t))
	return p.Sub(proj).Length()
}

// isRectangular reports whether the path simplifies to exactly four
// corners whose angles are all within angleTol (as |cos|) of 90°.
func isRectangular(path []v2.Vec, simplifyTol, angleTol float64) bool {
	simplified := simplifyClosedPath(path, simplifyTol)
	if len(simplified) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		e1 := simplified[(i+1)%4].Sub(simplified[i])
		e2 := simplified[(i+2)%4].Sub(simplified[(i+1)%4])
		norms := e1.Length() * e2.Length()
		if norms == 0 {
			return false
		}
		if math.Abs(e1.Dot(e2)/norms) > angleTol {
			return false
		}
	}
	return true
}

// circumcircle returns the circle through three points. ok is false
// when the points are nearly collinear.
func circumcircle(a, b, c v2.Vec) (center v2.Vec, radius float64, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-10 {
		return v2.Vec{}, 0, false
	}
	aSq := a.X*a.X + a.Y*a.Y
	bSq := b.X*b.X + b.Y*b.Y
	cSq := c.X*c.X + c.Y*c.Y
	center = v2.Vec{
		X: (aSq*(b.Y-c.Y) + bSq*(c.Y-a.Y) + cSq*(a.Y-b.Y)) / d,
		Y: (aSq*(c.X-b.X) + bSq*(a.X-c.X) + cSq*(b.X-a.X)) / d,
	}
	return center, a.Sub(center).Length(), true
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(values)))
}

package geo

import "fmt"

// Bucket groups the points that share one geohash key.
type Bucket struct {
	Key string `json:"key"`
	// Members are indices into the bucketized sequence, in input order.
	Members []int `json:"members"`
}

// Bucketize groups points by their geohash at the given precision.
// Buckets are returned in order of first appearance, so every input index
// appears in exactly one bucket.
func Bucketize(points []Point, precision int) ([]Bucket, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0)
	byKey := make(map[string]int)

	for i, p := range points {
		key, err := Encode(p, precision)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}

		pos, ok := byKey[key]
		if !ok {
			pos = len(buckets)
			byKey[key] = pos
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[pos].Members = append(buckets[pos].Members, i)
	}

	return buckets, nil
}

// Filter drops every point whose bucket holds fewer than minPoints points.
// Kept points stay in their original relative order.
//
// A minPoints of 1 keeps everything. When no bucket reaches minPoints the
// result is empty, meaning no dense cluster exists at this precision.
func Filter(points []Point, precision, minPoints int) ([]Point, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	if minPoints < 1 {
		return nil, fmt.Errorf("%w: minimum points must be >= 1, got %d", ErrInvalidParameter, minPoints)
	}

	buckets, err := Bucketize(points, precision)
	if err != nil {
		return nil, err
	}

	keep := make([]bool, len(points))
	kept := 0
	for _, b := range buckets {
		if len(b.Members) < minPoints {
			continue
		}
		for _, idx := range b.Members {
			keep[idx] = true
		}
		kept += len(b.Members)
	}

	out := make([]Point, 0, kept)
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}

	return out, nil
}

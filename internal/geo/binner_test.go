package geo

import (
	"errors"
	"reflect"
	"testing"
)

var bishkekTrack = []Point{
	{Lat: 42.8733, Lon: 74.6187},
	{Lat: 42.8734, Lon: 74.6188},
	{Lat: 40.0, Lon: 70.0},
}

// noisyTrack has clusters of different sizes plus isolated fixes.
func noisyTrack() []Point {
	var pts []Point
	centers := []struct {
		p Point
		n int
	}{
		{Point{Lat: 42.87336, Lon: 74.61873}, 5},
		{Point{Lat: 42.88012, Lon: 74.60231}, 3},
		{Point{Lat: 42.86120, Lon: 74.64410}, 1},
		{Point{Lat: 42.84001, Lon: 74.58812}, 2},
		{Point{Lat: 41.0, Lon: 73.0}, 1},
	}
	for round := 0; round < 5; round++ {
		for _, c := range centers {
			if round >= c.n {
				continue
			}
			off := float64(round) * 0.000002
			pts = append(pts, Point{Lat: c.p.Lat + off, Lon: c.p.Lon - off})
		}
	}
	return pts
}

func TestBucketizePartition(t *testing.T) {
	pts := noisyTrack()
	for precision := 1; precision <= 9; precision++ {
		buckets, err := Bucketize(pts, precision)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		seen := make(map[int]int)
		keys := make(map[string]bool)
		for _, b := range buckets {
			if keys[b.Key] {
				t.Errorf("precision %d: duplicate bucket %q", precision, b.Key)
			}
			keys[b.Key] = true

			for j, idx := range b.Members {
				seen[idx]++
				if j > 0 && b.Members[j-1] >= idx {
					t.Errorf("precision %d: bucket %q members out of order: %v", precision, b.Key, b.Members)
				}
				key, _ := Encode(pts[idx], precision)
				if key != b.Key {
					t.Errorf("point %d has key %q but sits in bucket %q", idx, key, b.Key)
				}
			}
		}

		if len(seen) != len(pts) {
			t.Fatalf("precision %d: %d of %d points bucketed", precision, len(seen), len(pts))
		}
		for idx, n := range seen {
			if n != 1 {
				t.Errorf("precision %d: point %d in %d buckets", precision, idx, n)
			}
		}
	}
}

func TestBucketizeFirstAppearanceOrder(t *testing.T) {
	buckets, err := Bucketize(bishkekTrack, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Bucket{
		{Key: "txt5cuz", Members: []int{0, 1}},
		{Key: "tx1g8cu", Members: []int{2}},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Errorf("got %+v, want %+v", buckets, want)
	}
}

func TestFilterScenario(t *testing.T) {
	got, err := Filter(bishkekTrack, 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, bishkekTrack[:2]) {
		t.Errorf("got %v, want %v", got, bishkekTrack[:2])
	}

	// At precision 8 the two Bishkek fixes land in adjacent cells, so every
	// bucket is a singleton.
	got, err = Filter(bishkekTrack, 8, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestFilterMinPointsOneIsNoop(t *testing.T) {
	pts := noisyTrack()
	got, err := Filter(pts, 9, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, pts) {
		t.Errorf("minPoints=1 changed the sequence")
	}
}

func TestFilterAllSingletons(t *testing.T) {
	pts := []Point{
		{Lat: 10, Lon: 10},
		{Lat: -10, Lon: 10},
		{Lat: 10, Lon: -10},
	}
	got, err := Filter(pts, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}
}

func TestFilterEmpty(t *testing.T) {
	got, err := Filter(nil, 8, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}
}

func TestFilterMonotonic(t *testing.T) {
	pts := noisyTrack()
	for precision := 1; precision <= 9; precision++ {
		prev := len(pts) + 1
		for m := 1; m <= 7; m++ {
			got, err := Filter(pts, precision, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) > prev {
				t.Errorf("precision %d: minPoints %d kept %d points, more than %d at minPoints %d",
					precision, m, len(got), prev, m-1)
			}
			prev = len(got)
		}
	}
}

func TestFilterIdempotent(t *testing.T) {
	pts := noisyTrack()
	for precision := 1; precision <= 9; precision++ {
		for m := 1; m <= 6; m++ {
			once, err := Filter(pts, precision, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			twice, err := Filter(once, precision, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("precision %d minPoints %d: second pass changed %v to %v", precision, m, once, twice)
			}
		}
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	pts := noisyTrack()
	got, err := Filter(pts, 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	j := 0
	for _, p := range pts {
		if j < len(got) && got[j] == p {
			j++
		}
	}
	if j != len(got) {
		t.Errorf("filtered points are not a subsequence of the input")
	}
}

func TestFilterInvalid(t *testing.T) {
	tests := []struct {
		name      string
		points    []Point
		precision int
		minPoints int
		want      error
	}{
		{"zero precision", bishkekTrack, 0, 2, ErrInvalidParameter},
		{"zero min points", bishkekTrack, 8, 0, ErrInvalidParameter},
		{"params checked on empty input", nil, 8, 0, ErrInvalidParameter},
		{"bad point", append([]Point{{Lat: 95, Lon: 0}}, bishkekTrack...), 8, 2, ErrInvalidCoordinate},
		{"bad point at end", append(append([]Point{}, bishkekTrack...), Point{Lat: 0, Lon: 200}), 8, 1, ErrInvalidCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(tt.points, tt.precision, tt.minPoints)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got != nil {
				t.Errorf("expected no partial result, got %v", got)
			}
		})
	}
}

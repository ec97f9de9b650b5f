package feed

import "sort"

// DefaultGridCells is the default number of grid cells per axis for map
// clustering. It is a tunable, not a constant of the algorithm; the
// server reads its value from configuration.
const DefaultGridCells = 8

// Cluster is a synthetic aggregate of nearby items: the mean coordinate
// of its members and how many there are. When a cluster has exactly one
// member the item itself is attached so the caller can render a plain
// marker instead of a count badge.
type Cluster struct {
	Centroid [2]float64
	Count    int
	Item     *Item
}

type cell struct {
	sumLon float64
	sumLat float64
	count  int
	only   *Item
}

// ClusterItems groups located items into an N×N grid laid over the
// viewport. It is a pure function of (items, box, cells): no randomness,
// no jitter, identical inputs give identical output. Clusters are
// emitted in row-major cell order. Items without a location are ignored;
// a zero-width or zero-height box collapses that axis to a single cell.
func ClusterItems(items []Item, box BoundingBox, cells int) []Cluster {
	if cells < 1 {
		cells = 1
	}
	cellW := box.Width() / float64(cells)
	cellH := box.Height() / float64(cells)

	grid := make(map[[2]int]*cell)
	for i := range items {
		item := &items[i]
		if item.Point == nil {
			continue
		}
		key := [2]int{
			cellIndex(item.Point.Lat, box.MinLat, cellH, cells),
			cellIndex(item.Point.Lon, box.MinLon, cellW, cells),
		}
		c := grid[key]
		if c == nil {
			c = &cell{only: item}
			grid[key] = c
		} else {
			c.only = nil
		}
		c.sumLon += item.Point.Lon
		c.sumLat += item.Point.Lat
		c.count++
	}

	keys := make([][2]int, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	clusters := make([]Cluster, 0, len(keys))
	for _, k := range keys {
		c := grid[k]
		clusters = append(clusters, Cluster{
			Centroid: [2]float64{c.sumLon / float64(c.count), c.sumLat / float64(c.count)},
			Count:    c.count,
			Item:     c.only,
		})
	}
	return clusters
}

// cellIndex maps a coordinate to its cell along one axis. Points on the
// max edge belong to the last cell, points outside the box are clamped.
func cellIndex(v, min, size float64, cells int) int {
	if size <= 0 {
		return 0
	}
	idx := int((v - min) / size)
	if idx < 0 {
		return 0
	}
	if idx >= cells {
		return cells - 1
	}
	return idx
}

package filters

import (
	"fmt"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

// DefaultClusterCount is the default k for vibe clustering.
const DefaultClusterCount = 3

// clusterFeatures selects which raw features feed the clustering.
// Tempo and loudness are left out: their scales would dominate the
// [0,1] features.
var clusterFeatures = []int{
	model.FeatEnergy,
	model.FeatValence,
	model.FeatDanceability,
	model.FeatAcousticness,
}

// VibeCluster is one discovered group of songs with its centroid
// feature values.
type VibeCluster struct {
	Centroid map[string]float64
	Rows     []int
}

// songObservation adapts a catalog row to the clusters.Observation
// interface.
type songObservation struct {
	row    int
	coords clusters.Coordinates
}

func (o songObservation) Coordinates() clusters.Coordinates { return o.coords }

func (o songObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// VibeClusters partitions the catalog into k groups by k-means over
// energy, valence, danceability and acousticness. Non-positive k uses
// DefaultClusterCount; a catalog smaller than k is an error.
func VibeClusters(cat *catalog.Catalog, k int) ([]VibeCluster, error) {
	if k <= 0 {
		k = DefaultClusterCount
	}
	if cat.Len() < k {
		return nil, fmt.Errorf("catalog has %d songs, cannot form %d clusters", cat.Len(), k)
	}

	obs := make(clusters.Observations, 0, cat.Len())
	for i, rec := range cat.Records() {
		coords := make(clusters.Coordinates, len(clusterFeatures))
		for j, f := range clusterFeatures {
			coords[j] = rec.Features[f]
		}
		obs = append(obs, songObservation{row: i, coords: coords})
	}

	km := kmeans.New()
	parts, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("k-means partition: %w", err)
	}

	out := make([]VibeCluster, 0, len(parts))
	for _, part := range parts {
		vc := VibeCluster{Centroid: make(map[string]float64, len(clusterFeatures))}
		for j, f := range clusterFeatures {
			vc.Centroid[model.FeatureColumns[f]] = part.Center[j]
		}
		for _, o := range part.Observations {
			if so, ok := o.(songObservation); ok {
				vc.Rows = append(vc.Rows, so.row)
			}
		}
		sort.Ints(vc.Rows)
		out = append(out, vc)
	}

	// Cluster order from k-means is seed-dependent; order by first
	// member for stable output.
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Rows) == 0 || len(out[j].Rows) == 0 {
			return len(out[i].Rows) > len(out[j].Rows)
		}
		return out[i].Rows[0] < out[j].Rows[0]
	})
	return out, nil
}

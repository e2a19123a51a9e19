package semstore

import (
	"context"
	"math"
	"os"
	"testing"
)

// mockEmbedder produces deterministic hash-based vectors so similar
// texts embed close together without a live embedding service.
type mockEmbedder struct {
	dims int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func TestChromemStore_StoreAndQuery(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	docs := []Document{
		{
			ID:      "hist_001",
			Content: "Type: WATER_CONTAMINATION | Facility: Atlanta_WTP | Sensors: ecoli=3 | Actions: Chlorine boost | Outcome: SUCCESS",
			Metadata: map[string]string{
				"category": "WATER_CONTAMINATION",
				"outcome":  "SUCCESS",
			},
		},
		{
			ID:      "hist_002",
			Content: "Type: AIR_QUALITY_VIOLATION | Facility: Decatur_Plant | Sensors: pm25=48 | Actions: Reduce operations | Outcome: SUCCESS",
			Metadata: map[string]string{
				"category": "AIR_QUALITY_VIOLATION",
				"outcome":  "SUCCESS",
			},
		},
		{
			ID:      "hist_003",
			Content: "Type: EQUIPMENT_FAILURE | Facility: Marietta_Station | Actions: Emergency repair | Outcome: FAILURE",
			Metadata: map[string]string{
				"category": "EQUIPMENT_FAILURE",
				"outcome":  "FAILURE",
			},
		},
	}
	for _, doc := range docs {
		if err := store.Store(ctx, doc); err != nil {
			t.Fatalf("Store %s: %v", doc.ID, err)
		}
	}

	if count := store.Count(); count != 3 {
		t.Errorf("Count: got %d, want 3", count)
	}

	results, err := store.Query(ctx, "Type: WATER_CONTAMINATION | Facility: Atlanta_WTP | Sensors: ecoli=5", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Query returned %d results, want 2", len(results))
	}
	if results[0].ID != "hist_001" {
		t.Errorf("nearest result = %s, want hist_001", results[0].ID)
	}
	for i, r := range results {
		if r.Distance < 0 || r.Distance > 2 {
			t.Errorf("result %d distance %v out of range", i, r.Distance)
		}
	}
	// Results are ordered nearest first.
	if results[0].Distance > results[1].Distance {
		t.Errorf("results not sorted by distance: %v > %v", results[0].Distance, results[1].Distance)
	}
	if results[0].Metadata["category"] != "WATER_CONTAMINATION" {
		t.Errorf("metadata lost: %v", results[0].Metadata)
	}
}

func TestChromemStore_QueryEmpty(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	results, err := store.Query(ctx, "anything", 5)
	if err != nil {
		t.Fatalf("Query on empty store: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty store returned %d results", len(results))
	}
}

func TestChromemStore_QueryCapsAtCount(t *testing.T) {
	ctx := context.Background()
	store, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	if err := store.Store(ctx, Document{ID: "only", Content: "single stored case"}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	results, err := store.Query(ctx, "single case", 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestChromemStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	embedder := newMockEmbedder(64)

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	err = store.Store(ctx, Document{
		ID:      "hist_010",
		Content: "Type: WATER_CONTAMINATION | Facility: Atlanta_WTP | Outcome: SUCCESS",
		Metadata: map[string]string{
			"category":        "WATER_CONTAMINATION",
			"outcome":         "SUCCESS",
			"resolution_time": "6 hours",
			"cost":            "15000",
		},
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "semstore-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := store.Persist(ctx, tmpDir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	store2, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore for load: %v", err)
	}
	if err := store2.Load(ctx, tmpDir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if count := store2.Count(); count != 1 {
		t.Fatalf("Count after load: got %d, want 1", count)
	}

	results, err := store2.Query(ctx, "WATER_CONTAMINATION Atlanta", 1)
	if err != nil {
		t.Fatalf("Query after load: %v", err)
	}
	if len(results) != 1 || results[0].ID != "hist_010" {
		t.Fatalf("unexpected results after load: %+v", results)
	}
	if results[0].Metadata["resolution_time"] != "6 hours" {
		t.Errorf("metadata not preserved: %v", results[0].Metadata)
	}
}

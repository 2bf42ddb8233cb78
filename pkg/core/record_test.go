package core

import "testing"

func TestRecordClone(t *testing.T) {
	r := Record{
		"id":     "1",
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"k": "v"},
	}
	c := r.Clone()
	c["tags"].([]any)[0] = "changed"
	c["nested"].(map[string]any)["k"] = "changed"

	if r["tags"].([]any)[0] != "a" {
		t.Error("clone shares slice with original")
	}
	if r["nested"].(map[string]any)["k"] != "v" {
		t.Error("clone shares map with original")
	}
}

func TestRecordMerge(t *testing.T) {
	base := Record{"id": "1", "name": "A", "meta": map[string]any{"x": 1}}
	merged := base.Merge(Record{"name": "B", "meta": map[string]any{"y": 2}})

	if merged["name"] != "B" {
		t.Errorf("expected name B, got %v", merged["name"])
	}
	if _, ok := merged["meta"].(map[string]any)["x"]; ok {
		t.Error("nested values must be replaced, not merged")
	}
	if base["name"] != "A" {
		t.Error("merge must not mutate the receiver")
	}
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"empty array", `[]`, 0, false},
		{"null", `null`, 0, false},
		{"two records", `[{"id":"1"},{"name":"no id"}]`, 2, false},
		{"garbage", `nope`, 0, true},
		{"bool id", `[{"id":true}]`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeRecords("ns", tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.want {
				t.Errorf("expected %d records, got %d", tt.want, len(got))
			}
		})
	}
}

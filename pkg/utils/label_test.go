package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "both present",
			existing: Label{Value: "in_network", Source: "source"},
			incoming: Label{Value: "trending", Source: "source"},
			want:     Label{Value: "in_network|trending", Source: "source,source"},
		},
		{
			name:     "empty existing yields incoming",
			existing: Label{},
			incoming: Label{Value: "recency", Source: "rank"},
			want:     Label{Value: "recency", Source: "rank"},
		},
		{
			name:     "empty incoming yields existing",
			existing: Label{Value: "recency", Source: "rank"},
			incoming: Label{},
			want:     Label{Value: "recency", Source: "rank"},
		},
		{
			name:     "existing source empty",
			existing: Label{Value: "a"},
			incoming: Label{Value: "b", Source: "filter"},
			want:     Label{Value: "a|b", Source: "filter"},
		},
		{
			name:     "incoming source empty",
			existing: Label{Value: "a", Source: "filter"},
			incoming: Label{Value: "b"},
			want:     Label{Value: "a|b", Source: "filter"},
		},
		{
			name:     "three-way accumulation",
			existing: MergeLabel(Label{Value: "a", Source: "s1"}, Label{Value: "b", Source: "s2"}),
			incoming: Label{Value: "c", Source: "s3"},
			want:     Label{Value: "a|b|c", Source: "s1,s2,s3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

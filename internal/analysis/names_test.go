package analysis

import (
	"reflect"
	"testing"
)

func TestFilterNames(t *testing.T) {
	whitelist := []string{"Mark", "Sarah"}

	tests := []struct {
		name  string
		spans []Span
		want  []string
	}{
		{
			name:  "outside whitelist dropped entirely",
			spans: []Span{{Text: "John Smith", Label: LabelPerson}},
			want:  nil,
		},
		{
			name:  "canonical spelling emitted not raw span",
			spans: []Span{{Text: "MARK JOHNSON", Label: LabelPerson}},
			want:  []string{"Mark"},
		},
		{
			name:  "containment matches inside longer span",
			spans: []Span{{Text: "Attn Sarah Connor", Label: LabelPerson}},
			want:  []string{"Sarah"},
		},
		{
			name: "duplicates collapse in insertion order",
			spans: []Span{
				{Text: "Sarah Lee", Label: LabelPerson},
				{Text: "Mark Twain", Label: LabelPerson},
				{Text: "sarah again", Label: LabelPerson},
			},
			want: []string{"Sarah", "Mark"},
		},
		{
			name:  "non-person spans ignored",
			spans: []Span{{Text: "Mark Industries", Label: LabelOrganization}},
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterNames(tc.spans, whitelist)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("FilterNames = %v, want %v", got, tc.want)
			}
		})
	}
}

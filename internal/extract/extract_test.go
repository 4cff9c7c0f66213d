package extract

import (
	"encoding/json"
	"reflect"
	"sort"
	"testing"

	"github.com/guarzo/ticketdesk/internal/config"
)

func TestFromTree_NestedStructure(t *testing.T) {
	raw := `{"listings":[{"price":"$1,234"},{"cost":5000000}]}`
	var tree any
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	got := FromTree(tree, config.Bounds{Min: 800, Max: 12000})
	want := []float64{1234}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromTree() = %v, want %v", got, want)
	}
}

func TestFromTree_PriceKeyVariants(t *testing.T) {
	bounds := config.Bounds{Min: 200, Max: 20000}

	tests := []struct {
		name string
		raw  string
		want []float64
	}{
		{
			name: "case insensitive keys",
			raw:  `{"Price": 450, "AMOUNT": 900, "sellingPrice": 1200}`,
			want: []float64{450, 900, 1200},
		},
		{
			name: "string coercion with currency and separators",
			raw:  `{"price": "$1,234.50", "cost": " 2,000 "}`,
			want: []float64{1234.5, 2000},
		},
		{
			name: "deeply nested arrays",
			raw:  `{"data":{"events":[{"offers":[{"price":500},{"price":750}]}]}}`,
			want: []float64{500, 750},
		},
		{
			name: "non-price keys ignored",
			raw:  `{"quantity": 400, "sectionId": 224, "rating": 999}`,
			want: nil,
		},
		{
			name: "out of range dropped silently",
			raw:  `{"price": 150, "cost": 50000, "amount": 300}`,
			want: []float64{300},
		},
		{
			name: "unparseable strings skipped",
			raw:  `{"price": "call for pricing", "cost": "$450"}`,
			want: []float64{450},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tree any
			if err := json.Unmarshal([]byte(tt.raw), &tree); err != nil {
				t.Fatalf("unmarshal fixture: %v", err)
			}
			got := FromTree(tree, bounds)
			sort.Float64s(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromTree() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromText(t *testing.T) {
	bounds := config.Bounds{Min: 200, Max: 20000}

	tests := []struct {
		name string
		text string
		want []float64
	}{
		{
			name: "dollar amounts in markup",
			text: `<div class="listing">$1,250.00</div><span>$ 890</span>`,
			want: []float64{1250, 890},
		},
		{
			name: "bounds applied",
			text: `Fees from $25.00, seats from $950.00, suites $45,000.00`,
			want: []float64{950},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "no amounts",
			text: "sold out — check back later",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromText(tt.text, bounds)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromTree_BoundsInclusive(t *testing.T) {
	var tree any
	if err := json.Unmarshal([]byte(`{"price": 200, "cost": 20000}`), &tree); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	got := FromTree(tree, config.Bounds{Min: 200, Max: 20000})
	if len(got) != 2 {
		t.Errorf("expected boundary values kept, got %v", got)
	}
}

package postgres

import (
	"testing"

	"github.com/ovenworks/bakeplan/internal/order/domain"
)

func TestDecodeItems(t *testing.T) {
	want := []domain.Line{
		{ProductID: "p-croissant", ProductName: "Croissant", Quantity: 10},
	}

	tests := []struct {
		name    string
		raw     string
		want    []domain.Line
		wantErr bool
	}{
		{
			name: "materialized array",
			raw:  `[{"product_id":"p-croissant","product_name":"Croissant","quantity":10}]`,
			want: want,
		},
		{
			name: "array encoded once more into a string",
			raw:  `"[{\"product_id\":\"p-croissant\",\"product_name\":\"Croissant\",\"quantity\":10}]"`,
			want: want,
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []domain.Line{},
		},
		{
			name:    "garbage",
			raw:     `{{{`,
			wantErr: true,
		},
		{
			name:    "string that is not json",
			raw:     `"not items"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeItems([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

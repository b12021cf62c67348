package models

import (
	"slices"
	"testing"
)

func TestCollidingCharacteristics(t *testing.T) {
	tests := []struct {
		name       string
		permanent  []string
		selectable []string
		want       []string
	}{
		{"disjoint", []string{"ancho", "alto"}, []string{"cristal"}, nil},
		{"one shared", []string{"ancho", "color"}, []string{"color", "cristal"}, []string{"color"}},
		{"empty product", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProductDefinition{
				Permanent:  map[string]PermanentCharacteristicSpec{},
				Selectable: map[string]SelectableCharacteristicSpec{},
			}
			for _, n := range tt.permanent {
				p.Permanent[n] = PermanentCharacteristicSpec{Label: n, Kind: KindText}
			}
			for _, n := range tt.selectable {
				p.Selectable[n] = SelectableCharacteristicSpec{Label: n, Kind: KindText}
			}
			got := p.CollidingCharacteristics()
			slices.Sort(got)
			if !slices.Equal(got, tt.want) {
				t.Errorf("CollidingCharacteristics() = %v, want %v", got, tt.want)
			}
		})
	}
}

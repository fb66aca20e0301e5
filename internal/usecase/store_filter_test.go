package usecase

import (
	"reflect"
	"testing"

	"github.com/omiri/backend/internal/domain"
)

func TestFilterStoresForCountry(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		country string
		want    []string
	}{
		{
			name:    "case-insensitive suffix match",
			ids:     []string{"a_US", "b_CA", "c_us"},
			country: "US",
			want:    []string{"a_US", "c_us"},
		},
		{
			name:    "lower-case country",
			ids:     []string{"a_US", "b_CA"},
			country: "ca",
			want:    []string{"b_CA"},
		},
		{
			name:    "suffix alone is not an id",
			ids:     []string{"_US", "x_US"},
			country: "US",
			want:    []string{"x_US"},
		},
		{
			name:    "no underscore separator",
			ids:     []string{"aldiUS", "lidl-us"},
			country: "US",
			want:    nil,
		},
		{
			name:    "empty country",
			ids:     []string{"a_US"},
			country: "",
			want:    nil,
		},
		{
			name:    "nil input",
			ids:     nil,
			country: "US",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterStoresForCountry(tt.ids, tt.country)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterStoresForCountry(%v, %q) = %v, want %v", tt.ids, tt.country, got, tt.want)
			}
		})
	}
}

func TestResolveRetailers(t *testing.T) {
	records := []domain.StoreRecord{
		{ID: "aldi_US", Retailer: "Aldi"},
		{ID: "kroger_US", Retailer: "Kroger"},
		{ID: "aldi-north_US", Retailer: "Aldi"},
		{ID: "blank_US", Retailer: ""},
	}

	tests := []struct {
		name     string
		filtered []string
		want     []string
	}{
		{"maps ids to names", []string{"kroger_US", "aldi_US"}, []string{"Kroger", "Aldi"}},
		{"ids match case-insensitively", []string{"ALDI_us"}, []string{"Aldi"}},
		{"unknown ids skipped", []string{"target_US", "aldi_US"}, []string{"Aldi"}},
		{"duplicate names collapse", []string{"aldi_US", "aldi-north_US"}, []string{"Aldi"}},
		{"blank retailer skipped", []string{"blank_US"}, nil},
		{"nothing resolved", []string{"target_US"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRetailers(tt.filtered, records)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveRetailers(%v) = %v, want %v", tt.filtered, got, tt.want)
			}
		})
	}
}

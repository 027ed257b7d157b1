package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "course code", content: "CS 101"},
		{name: "empty string", content: ""},
		{name: "long content", content: "Introduction to Programming with a very long catalog name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("CS 101") == IDFromContent("CS 102") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestVector_Dot(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{
			name: "disjoint",
			a:    Vector{Indices: []int{0, 2}, Weights: []float64{1, 1}},
			b:    Vector{Indices: []int{1, 3}, Weights: []float64{1, 1}},
			want: 0,
		},
		{
			name: "shared terms",
			a:    Vector{Indices: []int{0, 2, 5}, Weights: []float64{2, 1, 3}},
			b:    Vector{Indices: []int{2, 5, 9}, Weights: []float64{0.5, 0.25, 4}},
			want: 0.5 + 0.75,
		},
		{
			name: "empty",
			a:    Vector{},
			b:    Vector{Indices: []int{1}, Weights: []float64{1}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Dot(tt.b); got != tt.want {
				t.Errorf("Dot() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Dot(tt.a); got != tt.want {
				t.Errorf("Dot() is not symmetric: %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVector_IsEmpty(t *testing.T) {
	if !(Vector{}).IsEmpty() {
		t.Error("zero vector should be empty")
	}
	if !(Vector{Version: 7}).IsEmpty() {
		t.Error("versioned vector without entries should be empty")
	}
	v := Vector{Indices: []int{3}, Weights: []float64{1}}
	if v.IsEmpty() || v.Len() != 1 {
		t.Errorf("unexpected emptiness for %+v", v)
	}
}

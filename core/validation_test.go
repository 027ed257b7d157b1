package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     &Document{Code: "CS 101", Name: "Intro to Programming", Description: "Loops."},
			wantErr: nil,
		},
		{
			name:    "missing description is allowed",
			doc:     &Document{Code: "CS 101", Name: "Intro to Programming"},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty code",
			doc:     &Document{Name: "Intro to Programming"},
			wantErr: ErrEmptyCode,
		},
		{
			name:    "empty name",
			doc:     &Document{Code: "CS 101"},
			wantErr: ErrEmptyName,
		},
		{
			name: "malformed vector",
			doc: &Document{
				Code:   "CS 101",
				Name:   "Intro",
				Vector: Vector{Indices: []int{2, 1}, Weights: []float64{1, 1}},
			},
			wantErr: ErrUnsortedIndices,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("ValidateDocument() error should wrap ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestValidateVector(t *testing.T) {
	tests := []struct {
		name    string
		vector  Vector
		wantErr error
	}{
		{name: "empty", vector: Vector{}},
		{name: "valid", vector: Vector{Indices: []int{0, 4, 9}, Weights: []float64{0.5, 0.25, 0.25}}},
		{name: "length mismatch", vector: Vector{Indices: []int{0}, Weights: nil}, wantErr: ErrLengthMismatch},
		{name: "duplicate index", vector: Vector{Indices: []int{1, 1}, Weights: []float64{1, 1}}, wantErr: ErrUnsortedIndices},
		{name: "negative index", vector: Vector{Indices: []int{-1}, Weights: []float64{1}}, wantErr: ErrUnsortedIndices},
		{name: "negative weight", vector: Vector{Indices: []int{1}, Weights: []float64{-1}}, wantErr: ErrNegativeWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVector(tt.vector)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateVector() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateVector() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ABOUTME: Tests for document validation
// ABOUTME: Covers the required title and content fields

package models

import "testing"

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{"valid", Document{Title: "t", Content: "c"}, false},
		{"valid with extras", Document{Title: "t", Content: "c", Source: "s", Metadata: map[string]interface{}{"k": "v"}}, false},
		{"empty title", Document{Content: "c"}, true},
		{"whitespace title", Document{Title: "   ", Content: "c"}, true},
		{"empty content", Document{Title: "t"}, true},
		{"whitespace content", Document{Title: "t", Content: "\n\t"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package cli

import (
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/common"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/utils"
)

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantSafety int
		wantErr    bool
	}{
		{"stored envelope", `{"id":"6f1c1a52-7c43-4d6a-9d1e-2f4d1c0b9a11","result":{"safetyScore":42,"mode":"full"}}`, 42, false},
		{"bare result", `{"safetyScore":88,"mode":"linkonly"}`, 88, false},
		{"out of range", `{"safetyScore":120}`, 0, true},
		{"not json", `safety: 10`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := decodeResult(common.InputFile{Name: "result.json", Kind: utils.InputJSON, Content: []byte(tt.content)})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				if !errors.HasCode(err, errors.ErrCodeInvalidRequest) {
					t.Errorf("Expected INVALID_REQUEST, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.SafetyScore != tt.wantSafety {
				t.Errorf("Expected safety score %d, got %d", tt.wantSafety, result.SafetyScore)
			}
		})
	}
}

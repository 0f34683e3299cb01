package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		label   string
		want    float64
		wantErr error
	}{
		{label: "A", want: 4.00},
		{label: "A-", want: 3.67},
		{label: "B+", want: 3.33},
		{label: "B", want: 3.00},
		{label: "B-", want: 2.67},
		{label: "C+", want: 2.33},
		{label: "C", want: 2.00},
		{label: "C-", want: 1.67},
		{label: "D+", want: 1.33},
		{label: "D", want: 1.00},
		{label: "F", want: 0.00},
		{label: "a", wantErr: ErrUnknownGrade},
		{label: "A+", wantErr: ErrUnknownGrade},
		{label: " A", wantErr: ErrUnknownGrade},
		{label: "", wantErr: ErrUnknownGrade},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := Lookup(tt.label)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr == nil, IsValid(tt.label))
		})
	}
}

func TestAll(t *testing.T) {
	grades := All()
	assert.Len(t, grades, 11)
	assert.Equal(t, Labels(), []string{"A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "F"})
	for i := 1; i < len(grades); i++ {
		assert.Less(t, grades[i].QualityPoint, grades[i-1].QualityPoint)
	}

	// callers cannot alter the scale
	grades[0].QualityPoint = 0
	qp, _ := Lookup("A")
	assert.Equal(t, 4.00, qp)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "A-", Normalize("  a - "))
	assert.Equal(t, "B+", Normalize("b+"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"A", "A-", "B+"}, Suggest("A+"))
	assert.Equal(t, []string{"B", "B+", "B-"}, Suggest(" b "))
	assert.Empty(t, Suggest("E"))
	assert.Empty(t, Suggest(""))
}

package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{name: "KEYWORD1", want: Keyword1},
		{name: "comment2", want: Comment2},
		{name: " Digit ", want: Digit},
		{name: "NULL", want: Null},
		{name: "KEYWORD9", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_RoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, kind, back)
	}
	assert.Len(t, Kinds(), int(kindCount))
}

func TestKind_Classes(t *testing.T) {
	assert.True(t, Comment3.IsComment())
	assert.False(t, Literal1.IsComment())
	assert.True(t, Literal4.IsLiteral())
	assert.False(t, Kind(99).IsValid())
	assert.Equal(t, "Kind(99)", Kind(99).String())

	_, err := Kind(99).MarshalText()
	assert.Error(t, err)
}

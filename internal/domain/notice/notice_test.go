package notice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"", TypeGeneral},
		{"Meeting", TypeMeeting},
		{" event ", TypeEvent},
		{"maintenance", TypeMaintenance},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseType("party")
	assert.Error(t, err)
}

func TestType_Targeting(t *testing.T) {
	assert.True(t, TypeMaintenance.IsTargeted())
	assert.False(t, TypeMeeting.IsTargeted())
	assert.Equal(t, "New meeting notice", TypeMeeting.NotificationTitle())
	assert.Equal(t, "New announcement", TypeEvent.NotificationTitle())
}

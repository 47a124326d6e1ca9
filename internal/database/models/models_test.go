package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		in   string
		want Stage
	}{
		{"school", StageSchool},
		{"Школьный", StageSchool},
		{"ШКОЛЬНЫЙ", StageSchool},
		{"  city  ", StageCity},
		{"Городской", StageCity},
		{"regional", StageRegional},
		{"Региональный", StageRegional},
		{"final", StageFinal},
		{"Заключительный", StageFinal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStage(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown stage", func(t *testing.T) {
		_, err := ParseStage("межгалактический")
		assert.Error(t, err)
	})

	t.Run("empty stage", func(t *testing.T) {
		_, err := ParseStage("")
		assert.Error(t, err)
	})
}

func TestUserFullName(t *testing.T) {
	u := User{LastName: "Петров", FirstName: "Иван", Patronymic: "Сергеевич"}
	assert.Equal(t, "Петров Иван Сергеевич", u.FullName())

	u.Patronymic = ""
	assert.Equal(t, "Петров Иван", u.FullName())
}

func TestLeagueContains(t *testing.T) {
	maxPoints := 150
	bounded := League{MinPoints: 0, MaxPoints: &maxPoints}
	assert.True(t, bounded.Contains(0))
	assert.True(t, bounded.Contains(150))
	assert.False(t, bounded.Contains(151))

	open := League{MinPoints: 3501}
	assert.False(t, open.Contains(3500))
	assert.True(t, open.Contains(3501))
	assert.True(t, open.Contains(1000000))
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestStatisticRepository_GetByPlayerID(t *testing.T) {
	t.Run("Unknown player has zero counters", func(t *testing.T) {
		ctx, st := suite.New(t)

		statRepo := NewStatisticRepository(st.Storage)

		stat, err := statRepo.GetByPlayerID(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, entity.NewStatistic("alice"), stat)
	})

	t.Run("Counters accumulate results", func(t *testing.T) {
		ctx, st := suite.New(t)

		statRepo := NewStatisticRepository(st.Storage)

		// Given: a win, a draw and another win
		for _, outcome := range []entity.Outcome{entity.OutcomeWin, entity.OutcomeDraw, entity.OutcomeWin} {
			require.NoError(t, statRepo.RecordResult(ctx, entity.Result{PlayerID: "alice", Outcome: outcome}))
		}

		// When: the statistic is read
		stat, err := statRepo.GetByPlayerID(ctx, "alice")

		// Then: played is the sum of the outcome counters
		require.NoError(t, err)
		assert.Equal(t, &entity.Statistic{
			PlayerID:    "alice",
			GamesPlayed: 3,
			GamesWon:    2,
			GamesDraw:   1,
		}, stat)
	})
}

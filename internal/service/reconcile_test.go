package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
)

func orderAt(i int) *int {
	return &i
}

func TestBuildBlockSyncPlanPartialReplace(t *testing.T) {
	existing := []models.Block{
		{ID: 1, PageID: 7},
		{ID: 2, PageID: 7},
		{ID: 3, PageID: 7},
	}
	plan := buildBlockSyncPlan(7, existing, []dto.BlockInput{
		{ID: 2, Type: "text", Title: "X"},
		{Type: "hero", Title: "fresh"},
	})

	require.ElementsMatch(t, []uint{1, 3}, plan.DeleteIDs)
	require.Len(t, plan.Blocks, 2)

	require.Equal(t, uint(2), plan.Blocks[0].ID)
	require.Equal(t, "X", plan.Blocks[0].Title)
	require.Equal(t, 0, plan.Blocks[0].OrderIndex)

	require.Zero(t, plan.Blocks[1].ID)
	require.Equal(t, "fresh", plan.Blocks[1].Title)
	require.Equal(t, 1, plan.Blocks[1].OrderIndex)
	require.Equal(t, uint(7), plan.Blocks[1].PageID)
}

func TestBuildBlockSyncPlanUnknownIDBecomesInsert(t *testing.T) {
	existing := []models.Block{{ID: 1}}
	plan := buildBlockSyncPlan(1, existing, []dto.BlockInput{
		{ID: 999, Type: "text", Title: "ghost"},
	})

	require.Equal(t, []uint{1}, plan.DeleteIDs)
	require.Len(t, plan.Blocks, 1)
	require.Zero(t, plan.Blocks[0].ID)
	require.Equal(t, "ghost", plan.Blocks[0].Title)
}

func TestBuildBlockSyncPlanExplicitOrderWins(t *testing.T) {
	plan := buildBlockSyncPlan(1, nil, []dto.BlockInput{
		{Type: "a", OrderIndex: orderAt(5)},
		{Type: "b"},
		{Type: "c", OrderIndex: orderAt(1)},
	})

	require.Equal(t, 5, plan.Blocks[0].OrderIndex)
	require.Equal(t, 1, plan.Blocks[1].OrderIndex)
	require.Equal(t, 1, plan.Blocks[2].OrderIndex)
}

func TestBuildBlockSyncPlanExplicitZeroOrderKept(t *testing.T) {
	plan := buildBlockSyncPlan(1, nil, []dto.BlockInput{
		{Type: "a", OrderIndex: orderAt(2)},
		{Type: "b", OrderIndex: orderAt(0)},
		{Type: "c", OrderIndex: orderAt(1)},
	})

	require.Equal(t, 2, plan.Blocks[0].OrderIndex)
	require.Equal(t, 0, plan.Blocks[1].OrderIndex)
	require.Equal(t, 1, plan.Blocks[2].OrderIndex)
}

func TestBuildBlockSyncPlanEmptyRequestDeletesAll(t *testing.T) {
	existing := []models.Block{{ID: 4}, {ID: 5}}
	plan := buildBlockSyncPlan(1, existing, nil)

	require.ElementsMatch(t, []uint{4, 5}, plan.DeleteIDs)
	require.Empty(t, plan.Blocks)
}

func TestBuildBlockSyncPlanDefaultsStatus(t *testing.T) {
	plan := buildBlockSyncPlan(1, nil, []dto.BlockInput{{Type: "text"}})
	require.Equal(t, models.BlockStatusActive, plan.Blocks[0].Status)
}

func TestBuildFieldSyncPlanRecursesIntoOptions(t *testing.T) {
	existing := []models.FormField{
		{
			ID:     10,
			FormID: 3,
			Options: []models.FormFieldOption{
				{ID: 100, FieldID: 10, Label: "keep"},
				{ID: 101, FieldID: 10, Label: "drop"},
			},
		},
		{ID: 11, FormID: 3},
	}

	plan := buildFieldSyncPlan(3, existing, []dto.FormFieldInput{
		{
			ID:    10,
			Type:  "question",
			Label: "updated",
			Options: []dto.FieldOptionInput{
				{ID: 100, Label: "kept"},
				{Label: "brand new"},
			},
		},
	})

	require.Equal(t, []uint{11}, plan.DeleteIDs)
	require.Len(t, plan.Fields, 1)

	field := plan.Fields[0]
	require.Equal(t, uint(10), field.Field.ID)
	require.Equal(t, "updated", field.Field.Label)
	require.NotNil(t, field.Options)
	require.Equal(t, []uint{101}, field.Options.DeleteIDs)
	require.Len(t, field.Options.Options, 2)
	require.Equal(t, uint(100), field.Options.Options[0].ID)
	require.Zero(t, field.Options.Options[1].ID)
	require.Equal(t, 1, field.Options.Options[1].OrderIndex)
}

func TestBuildFieldSyncPlanUnknownOptionIDBecomesInsert(t *testing.T) {
	existing := []models.FormField{
		{ID: 10, Options: []models.FormFieldOption{{ID: 100, FieldID: 10}}},
	}

	plan := buildFieldSyncPlan(1, existing, []dto.FormFieldInput{
		{
			ID:   10,
			Type: "question",
			Options: []dto.FieldOptionInput{
				{ID: 999, Label: "phantom"},
			},
		},
	})

	field := plan.Fields[0]
	require.Equal(t, []uint{100}, field.Options.DeleteIDs)
	require.Len(t, field.Options.Options, 1)
	require.Zero(t, field.Options.Options[0].ID)
	require.Equal(t, "phantom", field.Options.Options[0].Label)
}

func TestBuildFieldSyncPlanNewFieldInsertsAllOptions(t *testing.T) {
	plan := buildFieldSyncPlan(2, nil, []dto.FormFieldInput{
		{
			Type: "question",
			Options: []dto.FieldOptionInput{
				{ID: 50, Label: "a"},
				{Label: "b"},
			},
		},
	})

	field := plan.Fields[0]
	require.Zero(t, field.Field.ID)
	require.Empty(t, field.Options.DeleteIDs)
	for _, opt := range field.Options.Options {
		require.Zero(t, opt.ID)
	}
}

func TestBuildFieldSyncPlanIdempotentForSameState(t *testing.T) {
	existing := []models.FormField{
		{ID: 1, FormID: 9, Type: "text", Label: "name", OrderIndex: 0},
		{ID: 2, FormID: 9, Type: "text", Label: "email", OrderIndex: 1},
	}
	inputs := []dto.FormFieldInput{
		{ID: 1, Type: "text", Label: "name"},
		{ID: 2, Type: "text", Label: "email", OrderIndex: orderAt(1)},
	}

	plan := buildFieldSyncPlan(9, existing, inputs)
	require.Empty(t, plan.DeleteIDs)
	require.Len(t, plan.Fields, 2)
	require.Equal(t, uint(1), plan.Fields[0].Field.ID)
	require.Equal(t, 0, plan.Fields[0].Field.OrderIndex)
	require.Equal(t, uint(2), plan.Fields[1].Field.ID)
	require.Equal(t, 1, plan.Fields[1].Field.OrderIndex)
}

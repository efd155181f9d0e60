package service

import (
	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

// Reconcile helpers implement full-replacement sync of a parent's ordered
// child collections: the request is the desired end state. Children carrying
// a known id are updated in place, unknown or zero ids become inserts, and
// existing rows absent from the request are deleted. Order indexes default
// to the array position only when the client omits them; an explicit 0 is
// kept.

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// resolveOrderIndex keeps an explicitly supplied position, falling back to
// the entry's index in the request array.
func resolveOrderIndex(explicit *int, position int) int {
	if explicit != nil {
		return *explicit
	}
	return position
}

// staleIDs returns the existing ids the request no longer references.
func staleIDs(existing []uint, kept map[uint]struct{}) []uint {
	var stale []uint
	for _, id := range existing {
		if _, ok := kept[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

// buildBlockSyncPlan diffs a page's existing blocks against the requested
// ones. Entries keep their id only when it matches an existing block;
// otherwise they are demoted to inserts (ID zero).
func buildBlockSyncPlan(pageID uint, existing []models.Block, inputs []dto.BlockInput) repository.BlockSyncPlan {
	existingIDs := make([]uint, 0, len(existing))
	for _, b := range existing {
		existingIDs = append(existingIDs, b.ID)
	}
	known := idSet(existingIDs)

	kept := make(map[uint]struct{}, len(inputs))
	blocks := make([]models.Block, 0, len(inputs))
	for i, in := range inputs {
		id := in.ID
		if _, ok := known[id]; !ok {
			id = 0
		} else {
			kept[id] = struct{}{}
		}
		status := in.Status
		if status == "" {
			status = models.BlockStatusActive
		}
		blocks = append(blocks, models.Block{
			ID:         id,
			PageID:     pageID,
			Type:       in.Type,
			Title:      in.Title,
			Content:    in.Content,
			OrderIndex: resolveOrderIndex(in.OrderIndex, i),
			Status:     status,
		})
	}

	return repository.BlockSyncPlan{
		DeleteIDs: staleIDs(existingIDs, kept),
		Blocks:    blocks,
	}
}

// buildFieldSyncPlan diffs a form's existing fields (and their options)
// against the requested ones. Option plans for kept fields are computed
// against that field's existing options; new fields insert all of their
// options.
func buildFieldSyncPlan(formID uint, existing []models.FormField, inputs []dto.FormFieldInput) repository.FieldSyncPlan {
	existingIDs := make([]uint, 0, len(existing))
	optionsByField := make(map[uint][]models.FormFieldOption, len(existing))
	for _, f := range existing {
		existingIDs = append(existingIDs, f.ID)
		optionsByField[f.ID] = f.Options
	}
	known := idSet(existingIDs)

	kept := make(map[uint]struct{}, len(inputs))
	fields := make([]repository.FieldSync, 0, len(inputs))
	for i, in := range inputs {
		id := in.ID
		if _, ok := known[id]; !ok {
			id = 0
		} else {
			kept[id] = struct{}{}
		}
		field := models.FormField{
			ID:             id,
			FormID:         formID,
			Type:           in.Type,
			Label:          in.Label,
			Placeholder:    in.Placeholder,
			IsRequired:     in.IsRequired,
			OrderIndex:     resolveOrderIndex(in.OrderIndex, i),
			Note:           in.Note,
			NextQuestionID: in.NextQuestionID,
			IsExpired:      in.IsExpired,
		}
		optionPlan := buildOptionSync(optionsByField[id], in.Options)
		fields = append(fields, repository.FieldSync{Field: field, Options: &optionPlan})
	}

	return repository.FieldSyncPlan{
		DeleteIDs: staleIDs(existingIDs, kept),
		Fields:    fields,
	}
}

// buildOptionSync diffs one field's options. For new fields existing is
// empty, so every supplied id demotes to an insert.
func buildOptionSync(existing []models.FormFieldOption, inputs []dto.FieldOptionInput) repository.OptionSync {
	existingIDs := make([]uint, 0, len(existing))
	for _, o := range existing {
		existingIDs = append(existingIDs, o.ID)
	}
	known := idSet(existingIDs)

	kept := make(map[uint]struct{}, len(inputs))
	options := make([]models.FormFieldOption, 0, len(inputs))
	for i, in := range inputs {
		id := in.ID
		if _, ok := known[id]; !ok {
			id = 0
		} else {
			kept[id] = struct{}{}
		}
		options = append(options, models.FormFieldOption{
			ID:             id,
			Label:          in.Label,
			Value:          in.Value,
			Image:          in.Image,
			NextQuestionID: in.NextQuestionID,
			IsEnd:          in.IsEnd,
			OrderIndex:     resolveOrderIndex(in.OrderIndex, i),
		})
	}

	return repository.OptionSync{
		DeleteIDs: staleIDs(existingIDs, kept),
		Options:   options,
	}
}

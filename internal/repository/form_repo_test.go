package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/vireo-cms/vireo-api/internal/models"
)

func TestFormRepositorySyncFieldsReplacesFieldTree(t *testing.T) {
	db := setupRepoTestDB(t, &models.Form{}, &models.FormField{}, &models.FormFieldOption{})
	repo := NewFormRepository(db)

	form := models.Form{
		Title:  "Survey",
		Slug:   "survey",
		Status: models.ContentStatusPublished,
		Fields: []models.FormField{
			{Type: "text", Label: "Name", IsRequired: true, OrderIndex: 0},
			{Type: "question", Label: "Topic", OrderIndex: 1, Options: []models.FormFieldOption{
				{Label: "Sales", Value: "sales", OrderIndex: 0},
				{Label: "Support", Value: "support", OrderIndex: 1},
			}},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &form))
	require.Len(t, form.Fields, 2)

	question := form.Fields[1]
	keptOption := question.Options[1]
	keptOption.Label = "Customer Support"
	keptOption.OrderIndex = 0

	plan := FieldSyncPlan{
		DeleteIDs: []uint{form.Fields[0].ID},
		Fields: []FieldSync{
			{
				Field: func() models.FormField {
					f := question
					f.Label = "Topic Updated"
					f.OrderIndex = 0
					f.Options = nil
					return f
				}(),
				Options: &OptionSync{
					DeleteIDs: []uint{question.Options[0].ID},
					Options: []models.FormFieldOption{
						keptOption,
						{Label: "Billing", Value: "billing", OrderIndex: 1},
					},
				},
			},
			{
				Field: models.FormField{FormID: form.ID, Type: "text", Label: "Email", IsRequired: true, OrderIndex: 1},
				Options: &OptionSync{},
			},
		},
	}
	require.NoError(t, repo.SyncFields(context.Background(), form.ID, plan))

	stored, err := repo.FindByID(context.Background(), form.ID)
	require.NoError(t, err)
	require.Len(t, stored.Fields, 2)

	require.Equal(t, "Topic Updated", stored.Fields[0].Label)
	require.Equal(t, question.ID, stored.Fields[0].ID)
	require.Len(t, stored.Fields[0].Options, 2)
	require.Equal(t, "Customer Support", stored.Fields[0].Options[0].Label)
	require.Equal(t, keptOption.ID, stored.Fields[0].Options[0].ID)
	require.Equal(t, "Billing", stored.Fields[0].Options[1].Label)

	require.Equal(t, "Email", stored.Fields[1].Label)
	require.NotZero(t, stored.Fields[1].ID)
}

func TestFormRepositoryListIncludesChildCounts(t *testing.T) {
	db := setupRepoTestDB(t, &models.Form{}, &models.FormField{}, &models.FormFieldOption{}, &models.FormSubmission{}, &models.SubmissionNote{})
	repo := NewFormRepository(db)
	submissions := NewSubmissionRepository(db)

	form := models.Form{
		Title:  "Contact",
		Slug:   "contact",
		Status: models.ContentStatusPublished,
		Fields: []models.FormField{
			{Type: "text", Label: "Name", OrderIndex: 0},
			{Type: "text", Label: "Message", OrderIndex: 1},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &form))

	empty := models.Form{Title: "Empty", Slug: "empty", Status: models.ContentStatusDraft}
	require.NoError(t, repo.Create(context.Background(), &empty))

	submission := models.FormSubmission{FormID: form.ID, Data: datatypes.JSONMap{"Name": "Alice"}, Status: models.SubmissionStatusNew}
	require.NoError(t, submissions.Create(context.Background(), &submission))

	items, total, err := repo.List(context.Background(), FormFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	bySlug := map[string]FormListItem{}
	for _, item := range items {
		bySlug[item.Slug] = item
	}
	require.Equal(t, int64(2), bySlug["contact"].FieldCount)
	require.Equal(t, int64(1), bySlug["contact"].SubmissionCount)
	require.Equal(t, int64(0), bySlug["empty"].FieldCount)
	require.Equal(t, int64(0), bySlug["empty"].SubmissionCount)
}

func TestSubmissionRepositoryNoteLifecycle(t *testing.T) {
	db := setupRepoTestDB(t, &models.Form{}, &models.FormField{}, &models.FormFieldOption{}, &models.FormSubmission{}, &models.SubmissionNote{})
	forms := NewFormRepository(db)
	repo := NewSubmissionRepository(db)

	form := models.Form{Title: "Contact", Slug: "contact", Status: models.ContentStatusPublished}
	require.NoError(t, forms.Create(context.Background(), &form))

	submission := models.FormSubmission{FormID: form.ID, Data: datatypes.JSONMap{"Name": "Bob"}, Status: models.SubmissionStatusNew}
	require.NoError(t, repo.Create(context.Background(), &submission))

	note := models.SubmissionNote{FormSubmissionID: submission.ID, Content: "follow up by phone"}
	require.NoError(t, repo.AddNote(context.Background(), &note))
	require.NotZero(t, note.ID)

	stored, err := repo.FindByID(context.Background(), form.ID, submission.ID)
	require.NoError(t, err)
	require.Len(t, stored.Notes, 1)

	removed, err := repo.DeleteNote(context.Background(), submission.ID, note.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	removed, err = repo.DeleteNote(context.Background(), submission.ID, note.ID)
	require.NoError(t, err)
	require.Zero(t, removed)
}

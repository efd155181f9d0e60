package service

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/dto"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
)

type fakeFormRepo struct {
	forms        map[uint]*models.Form
	nextFormID   uint
	nextFieldID  uint
	nextOptionID uint
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: map[uint]*models.Form{}}
}

func (f *fakeFormRepo) addForm(form models.Form) *models.Form {
	f.nextFormID++
	form.ID = f.nextFormID
	for i := range form.Fields {
		f.nextFieldID++
		form.Fields[i].ID = f.nextFieldID
		form.Fields[i].FormID = form.ID
		for j := range form.Fields[i].Options {
			f.nextOptionID++
			form.Fields[i].Options[j].ID = f.nextOptionID
			form.Fields[i].Options[j].FieldID = form.Fields[i].ID
		}
	}
	f.forms[form.ID] = &form
	return &form
}

func (f *fakeFormRepo) List(_ context.Context, filter repository.FormFilter) ([]repository.FormListItem, int64, error) {
	var items []repository.FormListItem
	for _, form := range f.forms {
		if filter.Status != "" && form.Status != filter.Status {
			continue
		}
		items = append(items, repository.FormListItem{Form: *form, FieldCount: int64(len(form.Fields))})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

func (f *fakeFormRepo) ListPublished(_ context.Context) ([]models.Form, error) {
	var result []models.Form
	for _, form := range f.forms {
		if form.Status == models.ContentStatusPublished {
			result = append(result, *form)
		}
	}
	return result, nil
}

func (f *fakeFormRepo) FindByID(_ context.Context, id uint) (*models.Form, error) {
	form, ok := f.forms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *form
	copied.Fields = append([]models.FormField(nil), form.Fields...)
	sort.Slice(copied.Fields, func(i, j int) bool { return copied.Fields[i].OrderIndex < copied.Fields[j].OrderIndex })
	return &copied, nil
}

func (f *fakeFormRepo) FindBySlug(_ context.Context, slug string) (*models.Form, error) {
	for id, form := range f.forms {
		if form.Slug == slug {
			return f.FindByID(context.Background(), id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFormRepo) SlugExists(_ context.Context, slug string, excludeID uint) (bool, error) {
	for _, form := range f.forms {
		if form.Slug == slug && form.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFormRepo) Create(_ context.Context, form *models.Form) error {
	f.nextFormID++
	form.ID = f.nextFormID
	copied := *form
	f.forms[form.ID] = &copied
	return nil
}

func (f *fakeFormRepo) Update(_ context.Context, form *models.Form) error {
	existing, ok := f.forms[form.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	fields := existing.Fields
	copied := *form
	copied.Fields = fields
	f.forms[form.ID] = &copied
	return nil
}

func (f *fakeFormRepo) Delete(_ context.Context, id uint) error {
	delete(f.forms, id)
	return nil
}

func (f *fakeFormRepo) SyncFields(_ context.Context, formID uint, plan repository.FieldSyncPlan) error {
	form, ok := f.forms[formID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	deleted := map[uint]struct{}{}
	for _, id := range plan.DeleteIDs {
		deleted[id] = struct{}{}
	}
	remaining := form.Fields[:0]
	for _, field := range form.Fields {
		if _, gone := deleted[field.ID]; !gone {
			remaining = append(remaining, field)
		}
	}
	form.Fields = remaining

	for _, entry := range plan.Fields {
		field := entry.Field
		if field.ID == 0 {
			f.nextFieldID++
			field.ID = f.nextFieldID
			field.FormID = formID
			form.Fields = append(form.Fields, field)
		} else {
			for i := range form.Fields {
				if form.Fields[i].ID == field.ID {
					field.FormID = formID
					field.Options = form.Fields[i].Options
					form.Fields[i] = field
					break
				}
			}
		}
		if entry.Options == nil {
			continue
		}
		for i := range form.Fields {
			if form.Fields[i].ID != field.ID {
				continue
			}
			f.applyOptionSync(&form.Fields[i], *entry.Options)
		}
	}
	return nil
}

func (f *fakeFormRepo) applyOptionSync(field *models.FormField, plan repository.OptionSync) {
	deleted := map[uint]struct{}{}
	for _, id := range plan.DeleteIDs {
		deleted[id] = struct{}{}
	}
	remaining := field.Options[:0]
	for _, opt := range field.Options {
		if _, gone := deleted[opt.ID]; !gone {
			remaining = append(remaining, opt)
		}
	}
	field.Options = remaining

	for _, opt := range plan.Options {
		if opt.ID == 0 {
			f.nextOptionID++
			opt.ID = f.nextOptionID
			opt.FieldID = field.ID
			field.Options = append(field.Options, opt)
			continue
		}
		for i := range field.Options {
			if field.Options[i].ID == opt.ID {
				opt.FieldID = field.ID
				field.Options[i] = opt
				break
			}
		}
	}
}

type fakeSubmissionRepo struct {
	submissions map[uint]*models.FormSubmission
	nextSubID   uint
	nextNoteID  uint
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: map[uint]*models.FormSubmission{}}
}

func (f *fakeSubmissionRepo) Create(_ context.Context, sub *models.FormSubmission) error {
	f.nextSubID++
	sub.ID = f.nextSubID
	sub.CreatedAt = time.Now()
	copied := *sub
	f.submissions[sub.ID] = &copied
	return nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.FormSubmission, int64, error) {
	var result []models.FormSubmission
	for _, sub := range f.submissions {
		if filter.FormID != 0 && sub.FormID != filter.FormID {
			continue
		}
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		result = append(result, *sub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (f *fakeSubmissionRepo) FindByID(_ context.Context, formID, submissionID uint) (*models.FormSubmission, error) {
	sub, ok := f.submissions[submissionID]
	if !ok || (formID != 0 && sub.FormID != formID) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	copied.Notes = append([]models.SubmissionNote(nil), sub.Notes...)
	return &copied, nil
}

func (f *fakeSubmissionRepo) UpdateStatus(_ context.Context, submissionID uint, status string) error {
	sub, ok := f.submissions[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.Status = status
	return nil
}

func (f *fakeSubmissionRepo) Delete(_ context.Context, submissionID uint) error {
	delete(f.submissions, submissionID)
	return nil
}

func (f *fakeSubmissionRepo) AddNote(_ context.Context, note *models.SubmissionNote) error {
	sub, ok := f.submissions[note.FormSubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.nextNoteID++
	note.ID = f.nextNoteID
	note.CreatedAt = time.Now()
	sub.Notes = append(sub.Notes, *note)
	return nil
}

func (f *fakeSubmissionRepo) DeleteNote(_ context.Context, submissionID, noteID uint) (int64, error) {
	sub, ok := f.submissions[submissionID]
	if !ok {
		return 0, nil
	}
	for i, note := range sub.Notes {
		if note.ID == noteID {
			sub.Notes = append(sub.Notes[:i], sub.Notes[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeSubmissionRepo) Count(context.Context) (int64, error) {
	return int64(len(f.submissions)), nil
}

func (f *fakeSubmissionRepo) CountBetween(_ context.Context, from, to time.Time) (int64, error) {
	var count int64
	for _, sub := range f.submissions {
		if !sub.CreatedAt.Before(from) && !sub.CreatedAt.After(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubmissionRepo) CountByStatus(context.Context) ([]repository.StatusCount, error) {
	counts := map[string]int64{}
	for _, sub := range f.submissions {
		counts[sub.Status]++
	}
	result := make([]repository.StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (f *fakeSubmissionRepo) ListRecent(_ context.Context, offset, limit int) ([]models.FormSubmission, error) {
	subs, _, _ := f.List(context.Background(), repository.SubmissionFilter{})
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })
	if offset >= len(subs) {
		return nil, nil
	}
	subs = subs[offset:]
	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

func (f *fakeSubmissionRepo) ListSince(_ context.Context, since time.Time) ([]models.FormSubmission, error) {
	var result []models.FormSubmission
	for _, sub := range f.submissions {
		if !sub.CreatedAt.Before(since) {
			result = append(result, *sub)
		}
	}
	return result, nil
}

func (f *fakeSubmissionRepo) DeleteAll(context.Context) (int64, error) {
	deleted := int64(len(f.submissions))
	f.submissions = map[uint]*models.FormSubmission{}
	return deleted, nil
}

func (f *fakeSubmissionRepo) ResetStatusByForm(_ context.Context, formID uint) (int64, error) {
	var reset int64
	for _, sub := range f.submissions {
		if sub.FormID == formID && sub.Status != models.SubmissionStatusNew {
			sub.Status = models.SubmissionStatusNew
			reset++
		}
	}
	return reset, nil
}

func newFormService(repo repository.FormRepository, subs repository.SubmissionRepository) FormService {
	return NewFormService(repo, subs, nil, zerolog.Nop())
}

func questionForm(repo *fakeFormRepo) *models.Form {
	return repo.addForm(models.Form{
		Title:  "Contact",
		Slug:   "contact",
		Status: models.ContentStatusPublished,
		Fields: []models.FormField{
			{Type: "text", Label: "Name", IsRequired: true, OrderIndex: 0},
			{Type: "text", Label: "Company", OrderIndex: 1},
			{
				Type:       "question",
				Label:      "Topic",
				IsRequired: true,
				OrderIndex: 2,
				Options: []models.FormFieldOption{
					{Label: "Sales", Value: "sales", OrderIndex: 0},
					{Label: "Support", Value: "support", OrderIndex: 1},
				},
			},
		},
	})
}

func TestFormSubmitMissingRequiredFields(t *testing.T) {
	repo := newFakeFormRepo()
	form := questionForm(repo)
	svc := newFormService(repo, newFakeSubmissionRepo())

	_, err := svc.Submit(context.Background(), form.ID, map[string]any{"Company": "ACME"})
	require.ErrorIs(t, err, ErrMissingRequiredFields)

	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	require.ElementsMatch(t, []string{"Name", "Topic"}, missing.Fields)
}

func TestFormSubmitAcceptsQuestionKeyConvention(t *testing.T) {
	repo := newFakeFormRepo()
	form := questionForm(repo)
	subs := newFakeSubmissionRepo()
	svc := newFormService(repo, subs)

	topicField := form.Fields[2]
	sub, err := svc.Submit(context.Background(), form.ID, map[string]any{
		"question_1": "Jane",
		"question_" + uintString(topicField.ID): "support",
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusNew, sub.Status)
	// Option value resolves to its label.
	require.Equal(t, "Support", sub.Data["question_"+uintString(topicField.ID)])
}

func TestFormSubmitResolvesOptionID(t *testing.T) {
	repo := newFakeFormRepo()
	form := questionForm(repo)
	svc := newFormService(repo, newFakeSubmissionRepo())

	optionID := form.Fields[2].Options[0].ID
	sub, err := svc.Submit(context.Background(), form.ID, map[string]any{
		"Name":  "Jane",
		"Topic": uintString(optionID),
	})
	require.NoError(t, err)
	require.Equal(t, "Sales", sub.Data["Topic"])
}

func TestFormUpdateReconcilesFieldsAndOptions(t *testing.T) {
	repo := newFakeFormRepo()
	form := questionForm(repo)
	svc := newFormService(repo, newFakeSubmissionRepo())

	topic := form.Fields[2]
	keepOption := topic.Options[0]

	updated, err := svc.Update(context.Background(), form.ID, dto.UpdateFormRequest{
		Fields: []dto.FormFieldInput{
			{
				ID:         topic.ID,
				Type:       "question",
				Label:      "Topic v2",
				IsRequired: true,
				Options: []dto.FieldOptionInput{
					{ID: keepOption.ID, Label: "Sales v2", Value: "sales"},
					{ID: 999, Label: "Billing", Value: "billing"},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Fields, 1)

	field := updated.Fields[0]
	require.Equal(t, topic.ID, field.ID)
	require.Equal(t, "Topic v2", field.Label)
	require.Len(t, field.Options, 2)
	require.Equal(t, keepOption.ID, field.Options[0].ID)
	require.Equal(t, "Sales v2", field.Options[0].Label)
	// Unknown supplied id becomes a fresh insert rather than an error.
	require.NotEqual(t, uint(999), field.Options[1].ID)
	require.Equal(t, "Billing", field.Options[1].Label)
}

func TestFormCreateRejectsDuplicateSlug(t *testing.T) {
	repo := newFakeFormRepo()
	questionForm(repo)
	svc := newFormService(repo, newFakeSubmissionRepo())

	_, err := svc.Create(context.Background(), dto.CreateFormRequest{Title: "Other", Slug: "contact"})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestSubmissionNotesLifecycle(t *testing.T) {
	repo := newFakeFormRepo()
	form := questionForm(repo)
	subs := newFakeSubmissionRepo()
	svc := newFormService(repo, subs)

	sub, err := svc.Submit(context.Background(), form.ID, map[string]any{"Name": "Jane", "Topic": "sales"})
	require.NoError(t, err)

	withNote, err := svc.AddSubmissionNote(context.Background(), form.ID, sub.ID, "called back")
	require.NoError(t, err)
	require.Len(t, withNote.Notes, 1)
	require.Equal(t, "called back", withNote.Notes[0].Content)

	require.NoError(t, svc.DeleteSubmissionNote(context.Background(), form.ID, sub.ID, withNote.Notes[0].ID))

	err = svc.DeleteSubmissionNote(context.Background(), form.ID, sub.ID, withNote.Notes[0].ID)
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestUpdateSubmissionStatus(t *testing.T) {
	repo := newFakeFormRepo()
	form := questionForm(repo)
	subs := newFakeSubmissionRepo()
	svc := newFormService(repo, subs)

	sub, err := svc.Submit(context.Background(), form.ID, map[string]any{"Name": "Jane", "Topic": "sales"})
	require.NoError(t, err)

	updated, err := svc.UpdateSubmissionStatus(context.Background(), form.ID, sub.ID, models.SubmissionStatusProcessed)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusProcessed, updated.Status)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

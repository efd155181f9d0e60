package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vireo-cms/vireo-api/internal/models"
)

func setupRepoTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func TestPageRepositorySyncBlocksReplacesBlockSet(t *testing.T) {
	db := setupRepoTestDB(t, &models.Page{}, &models.Block{})
	repo := NewPageRepository(db)

	page := models.Page{
		Title:  "Home",
		Slug:   "home",
		Status: models.ContentStatusPublished,
		Blocks: []models.Block{
			{Type: "hero", Title: "Hero", OrderIndex: 0, Status: models.BlockStatusActive},
			{Type: "text", Title: "Intro", OrderIndex: 1, Status: models.BlockStatusActive},
			{Type: "text", Title: "Outro", OrderIndex: 2, Status: models.BlockStatusActive},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &page))
	require.Len(t, page.Blocks, 3)

	kept := page.Blocks[1]
	kept.Title = "Intro Updated"
	kept.OrderIndex = 0

	plan := BlockSyncPlan{
		DeleteIDs: []uint{page.Blocks[0].ID, page.Blocks[2].ID},
		Blocks: []models.Block{
			kept,
			{PageID: page.ID, Type: "cta", Title: "Contact Us", OrderIndex: 1, Status: models.BlockStatusActive},
		},
	}
	require.NoError(t, repo.SyncBlocks(context.Background(), page.ID, plan))

	stored, err := repo.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	require.Len(t, stored.Blocks, 2)
	require.Equal(t, "Intro Updated", stored.Blocks[0].Title)
	require.Equal(t, kept.ID, stored.Blocks[0].ID, "kept block must keep its identity")
	require.Equal(t, "Contact Us", stored.Blocks[1].Title)
	require.Equal(t, 1, stored.Blocks[1].OrderIndex)
}

func TestPageRepositoryBlocksOrderedByIndex(t *testing.T) {
	db := setupRepoTestDB(t, &models.Page{}, &models.Block{})
	repo := NewPageRepository(db)

	page := models.Page{
		Title:  "Docs",
		Slug:   "docs",
		Status: models.ContentStatusPublished,
		Blocks: []models.Block{
			{Type: "text", Title: "Third", OrderIndex: 2},
			{Type: "text", Title: "First", OrderIndex: 0},
			{Type: "text", Title: "Second", OrderIndex: 1},
		},
	}
	require.NoError(t, repo.Create(context.Background(), &page))

	stored, err := repo.FindBySlug(context.Background(), "docs")
	require.NoError(t, err)
	require.Len(t, stored.Blocks, 3)
	require.Equal(t, "First", stored.Blocks[0].Title)
	require.Equal(t, "Second", stored.Blocks[1].Title)
	require.Equal(t, "Third", stored.Blocks[2].Title)
}

func TestPageRepositoryClearMainPage(t *testing.T) {
	db := setupRepoTestDB(t, &models.Page{}, &models.Block{})
	repo := NewPageRepository(db)

	oldMain := models.Page{Title: "Old Main", Slug: "old-main", Status: models.ContentStatusPublished, IsMainPage: true}
	other := models.Page{Title: "About", Slug: "about", Status: models.ContentStatusPublished}
	require.NoError(t, repo.Create(context.Background(), &oldMain))
	require.NoError(t, repo.Create(context.Background(), &other))

	newMain := models.Page{Title: "New Main", Slug: "new-main", Status: models.ContentStatusPublished, IsMainPage: true}
	require.NoError(t, repo.Create(context.Background(), &newMain))
	require.NoError(t, repo.ClearMainPage(context.Background(), newMain.ID))

	main, err := repo.FindMainPage(context.Background())
	require.NoError(t, err)
	require.Equal(t, newMain.ID, main.ID)

	var stored models.Page
	require.NoError(t, db.First(&stored, oldMain.ID).Error)
	require.False(t, stored.IsMainPage)
}

func TestPageRepositorySlugExistsExcludesSelf(t *testing.T) {
	db := setupRepoTestDB(t, &models.Page{}, &models.Block{})
	repo := NewPageRepository(db)

	page := models.Page{Title: "Home", Slug: "home", Status: models.ContentStatusDraft}
	require.NoError(t, repo.Create(context.Background(), &page))

	taken, err := repo.SlugExists(context.Background(), "home", 0)
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = repo.SlugExists(context.Background(), "home", page.ID)
	require.NoError(t, err)
	require.False(t, taken)
}

package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientus/portal/internal/domain/model"
	"github.com/clientus/portal/internal/testutil"
)

func TestDocumentRepo_Create_Get_List_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDocumentRepo(db)
		client := createTestAccount(t, db, "Cliente")

		d, err := repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID:  client.ID,
			Name:      "  Contrato 2026  ",
			FileURL:   "https://cdn.example.com/contrato.pdf",
			FileType:  "pdf",
			Category:  model.DocCategoryContract,
			SizeBytes: 1024,
		})
		require.NoError(t, err)
		require.NotEmpty(t, d.ID)
		assert.Equal(t, "Contrato 2026", d.Name)
		assert.Equal(t, model.DocCategoryContract, d.Category)
		assert.NotZero(t, d.CreatedAt)

		// category defaults to general
		general, err := repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID: client.ID,
			Name:     "Briefing solto",
			FileURL:  "https://cdn.example.com/briefing.pdf",
			FileType: "pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, model.DocCategoryGeneral, general.Category)

		// get by id
		got, err := repo.GetByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.Name, got.Name)

		// list scoped to the client
		lst, err := repo.List(ctx, model.DocumentListOptions{ClientID: &client.ID})
		require.NoError(t, err)
		assert.Len(t, lst, 2)

		// list filtered by category
		contract := model.DocCategoryContract
		lst, err = repo.List(ctx, model.DocumentListOptions{ClientID: &client.ID, Category: &contract})
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, d.ID, lst[0].ID)

		// delete
		deleted, err := repo.Delete(ctx, d.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, d.ID)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestDocumentRepo_Update(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDocumentRepo(db)
		client := createTestAccount(t, db, "Cliente")

		d, err := repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID: client.ID,
			Name:     "Briefing Q3",
			FileURL:  "https://cdn.example.com/briefing-q3.pdf",
			FileType: "pdf",
			Category: model.DocCategoryBriefing,
		})
		require.NoError(t, err)

		// partial update keeps the untouched columns
		name := "  Briefing Q3 revisado  "
		report := model.DocCategoryReport
		updated, err := repo.Update(ctx, d.ID, model.UpdateDocumentRequest{
			Name:     &name,
			Category: &report,
		})
		require.NoError(t, err)
		assert.Equal(t, "Briefing Q3 revisado", updated.Name)
		assert.Equal(t, model.DocCategoryReport, updated.Category)
		assert.Equal(t, d.FileURL, updated.FileURL)
		assert.Equal(t, d.ClientID, updated.ClientID)

		// empty request is rejected before touching the database
		_, err = repo.Update(ctx, d.ID, model.UpdateDocumentRequest{})
		require.Error(t, err)

		// unknown id
		_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000",
			model.UpdateDocumentRequest{Name: &name})
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestDocumentRepo_Create_UnknownClient(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewDocumentRepo(db)

		_, err := repo.Create(context.Background(), &model.CreateDocumentRequest{
			ClientID: "00000000-0000-0000-0000-000000000000",
			Name:     "Sem dono",
			FileURL:  "https://cdn.example.com/arquivo.pdf",
			FileType: "pdf",
		})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestDocumentRepo_Create_ValidationErrors(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewDocumentRepo(db)

		_, err := repo.Create(ctx, nil)
		require.Error(t, err)

		_, err = repo.Create(ctx, &model.CreateDocumentRequest{
			Name: "Ok", FileURL: "https://x/y.pdf", FileType: "pdf",
		})
		require.Error(t, err)

		_, err = repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID: "c", Name: " ", FileURL: "https://x/y.pdf", FileType: "pdf",
		})
		require.Error(t, err)

		_, err = repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID: "c", Name: "Ok", FileURL: " ", FileType: "pdf",
		})
		require.Error(t, err)

		_, err = repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID: "c", Name: "Ok", FileURL: "https://x/y.pdf", FileType: "pdf", SizeBytes: -1,
		})
		require.Error(t, err)

		_, err = repo.Create(ctx, &model.CreateDocumentRequest{
			ClientID: "c", Name: "Ok", FileURL: "https://x/y.pdf", FileType: "pdf",
			Category: model.DocumentCategory("secret"),
		})
		require.Error(t, err)
	})
}

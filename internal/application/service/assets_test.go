package service

import (
	"context"
	"testing"

	"portal/internal/appers"
	"portal/internal/application/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFromRequest(t *testing.T) {
	a, err := AssetFromRequest(entity.AssetRequest{
		Name:          "ThinkPad",
		SerialNumber:  "PF-1",
		PurchaseDate:  "2025-11-03",
		PurchasePrice: "1499,9",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AssetOther, a.Category)
	assert.Equal(t, entity.AssetAvailable, a.Status)
	require.NotNil(t, a.PurchasePrice)
	assert.Equal(t, "1499.90", a.PurchasePrice.String())
	require.NotNil(t, a.PurchaseDate)
	assert.Equal(t, "2025-11-03", a.PurchaseDate.Format("2006-01-02"))

	_, err = AssetFromRequest(entity.AssetRequest{Name: "x", SerialNumber: "s", Status: entity.AssetAssigned})
	assert.ErrorIs(t, err, appers.ErrAssigneeRequired)

	_, err = AssetFromRequest(entity.AssetRequest{Name: "x", SerialNumber: "s", PurchasePrice: "1.005"})
	assert.ErrorIs(t, err, appers.ErrScale)

	a, err = AssetFromRequest(entity.AssetRequest{Name: "x", SerialNumber: "s", Status: entity.AssetRepair, AssignedTo: "u1"})
	require.NoError(t, err)
	assert.Empty(t, a.AssignedTo)
}

func TestAssets_AssignRelease(t *testing.T) {
	ctx := context.Background()
	repo, em := &fakeAssetRepo{assets: map[string]entity.Asset{}}, &fakeEmitter{}
	s := NewAssets(repo, em, nopLogger)

	a, err := s.Create(ctx, entity.AssetRequest{Name: "Phone", SerialNumber: "SN1", Category: entity.AssetPhone})
	require.NoError(t, err)

	_, err = s.Create(ctx, entity.AssetRequest{Name: "Phone 2", SerialNumber: "SN1"})
	assert.ErrorIs(t, err, appers.ErrAlreadyExists)

	assigned, err := s.Assign(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.AssetAssigned, assigned.Status)
	assert.Equal(t, "u1", assigned.AssignedTo)

	_, err = s.Assign(ctx, a.ID, "u2")
	assert.ErrorIs(t, err, appers.ErrAssetNotAssignable)

	released, err := s.Release(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AssetAvailable, released.Status)
	assert.Empty(t, released.AssignedTo)

	require.Len(t, em.events, 2)
	assert.Equal(t, entity.EventAssetAssigned, em.events[0].Event)
	assert.Equal(t, entity.EventAssetReleased, em.events[1].Event)
	assert.Equal(t, "u1", em.events[1].Payload.(entity.AssetPayload).UserID)
}

func TestAssets_ReleaseOnlyAssigned(t *testing.T) {
	ctx := context.Background()
	repo, em := &fakeAssetRepo{assets: map[string]entity.Asset{}}, &fakeEmitter{}
	s := NewAssets(repo, em, nopLogger)

	retired, err := s.Create(ctx, entity.AssetRequest{Name: "Old laptop", SerialNumber: "R1", Status: entity.AssetRetired})
	require.NoError(t, err)
	idle, err := s.Create(ctx, entity.AssetRequest{Name: "Mouse", SerialNumber: "M1"})
	require.NoError(t, err)

	_, err = s.Release(ctx, retired.ID)
	assert.ErrorIs(t, err, appers.ErrAssetNotAssigned)
	assert.Equal(t, entity.AssetRetired, repo.assets[retired.ID].Status)

	_, err = s.Release(ctx, idle.ID)
	assert.ErrorIs(t, err, appers.ErrAssetNotAssigned)

	_, err = s.Release(ctx, "missing")
	assert.ErrorIs(t, err, appers.ErrNotFound)

	assert.Empty(t, em.events)
}

func TestAssets_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAssetRepo{assets: map[string]entity.Asset{}}
	s := NewAssets(repo, &fakeEmitter{}, nopLogger)

	a, err := s.Create(ctx, entity.AssetRequest{Name: "Desk", SerialNumber: "D1"})
	require.NoError(t, err)
	stored := repo.assets[a.ID]
	stored.CreatedAt = stored.CreatedAt.AddDate(-1, 0, 0)
	repo.assets[a.ID] = stored

	updated, err := s.Update(ctx, a.ID, entity.AssetRequest{Name: "Standing desk", SerialNumber: "D1", Category: entity.AssetFurniture})
	require.NoError(t, err)
	assert.Equal(t, stored.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Standing desk", repo.assets[a.ID].Name)

	_, err = s.Update(ctx, "missing", entity.AssetRequest{Name: "x", SerialNumber: "y"})
	assert.ErrorIs(t, err, appers.ErrNotFound)
}

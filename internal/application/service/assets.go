package service

import (
	"context"
	"time"

	"portal/internal/appers"
	"portal/internal/application/common"
	"portal/internal/application/entity"
	"portal/internal/application/repo"

	"go.uber.org/zap"
)

const moduleAssets = "assets"

type AssetService interface {
	Create(ctx context.Context, req entity.AssetRequest) (entity.Asset, error)
	List(ctx context.Context, f entity.AssetFilter) ([]entity.Asset, error)
	Get(ctx context.Context, id string) (entity.Asset, error)
	Update(ctx context.Context, id string, req entity.AssetRequest) (entity.Asset, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id, userID string) (entity.Asset, error)
	Release(ctx context.Context, id string) (entity.Asset, error)
}

type Assets struct {
	repo    repo.AssetRepo
	emitter Emitter
	logger  *zap.SugaredLogger
}

func NewAssets(repo repo.AssetRepo, emitter Emitter, logger *zap.SugaredLogger) *Assets {
	return &Assets{repo: repo, emitter: emitter, logger: logger}
}

// AssetFromRequest собирает документ из запроса: цена в Decimal128, дата покупки, значения по умолчанию
func AssetFromRequest(req entity.AssetRequest) (entity.Asset, error) {
	a := entity.Asset{
		Name:         req.Name,
		Category:     req.Category,
		SerialNumber: req.SerialNumber,
		Status:       req.Status,
		AssignedTo:   req.AssignedTo,
		Notes:        req.Notes,
	}
	a.ApplyDefaults()

	if a.Status == entity.AssetAssigned && a.AssignedTo == "" {
		return a, appers.ErrAssigneeRequired
	}
	if a.Status != entity.AssetAssigned {
		a.AssignedTo = ""
	}

	price, ok, err := common.DecimalFromString2Strict(req.PurchasePrice)
	if err != nil {
		return a, err
	}
	if ok {
		a.PurchasePrice = &price
	}

	if req.PurchaseDate != "" {
		d, err := time.Parse(time.DateOnly, req.PurchaseDate)
		if err != nil {
			return a, appers.ErrInvalidDate
		}
		a.PurchaseDate = &d
	}
	return a, nil
}

func (s *Assets) Create(ctx context.Context, req entity.AssetRequest) (entity.Asset, error) {
	s.logger.Debugf("[asset: %s] Create started", req.SerialNumber)

	a, err := AssetFromRequest(req)
	if err != nil {
		return a, err
	}
	if err := s.repo.CreateAsset(ctx, &a); err != nil {
		return a, err
	}
	return a, nil
}

func (s *Assets) List(ctx context.Context, f entity.AssetFilter) ([]entity.Asset, error) {
	return s.repo.ListAssets(ctx, f)
}

func (s *Assets) Get(ctx context.Context, id string) (entity.Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Assets) Update(ctx context.Context, id string, req entity.AssetRequest) (entity.Asset, error) {
	s.logger.Debugf("[asset: %s] Update started", id)

	a, err := AssetFromRequest(req)
	if err != nil {
		return a, err
	}
	current, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return a, err
	}
	a.ID = id
	a.CreatedAt = current.CreatedAt

	if err := s.repo.ReplaceAsset(ctx, &a); err != nil {
		return a, err
	}
	return a, nil
}

func (s *Assets) Delete(ctx context.Context, id string) error {
	s.logger.Debugf("[asset: %s] Delete started", id)
	return s.repo.DeleteAsset(ctx, id)
}

func (s *Assets) Assign(ctx context.Context, id, userID string) (entity.Asset, error) {
	s.logger.Debugf("[asset: %s] Assign started, user: %s", id, userID)

	a, err := s.repo.AssignAsset(ctx, id, userID)
	if err != nil {
		return a, err
	}

	emitAfterWrite(ctx, s.emitter, s.logger, moduleAssets, entity.EventAssetAssigned,
		entity.AssetPayload{AssetID: a.ID, SerialNumber: a.SerialNumber, UserID: userID})
	return a, nil
}

// Release возвращает актив на склад; в событии - пользователь, у которого он был
func (s *Assets) Release(ctx context.Context, id string) (entity.Asset, error) {
	s.logger.Debugf("[asset: %s] Release started", id)

	a, prevUser, err := s.repo.ReleaseAsset(ctx, id)
	if err != nil {
		return a, err
	}

	emitAfterWrite(ctx, s.emitter, s.logger, moduleAssets, entity.EventAssetReleased,
		entity.AssetPayload{AssetID: a.ID, SerialNumber: a.SerialNumber, UserID: prevUser})
	return a, nil
}

package usecase

import (
	"time"

	"github.com/jhoicas/Marketsync-api/internal/application/dto"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

// ListingUseCase consultas de listings y de su histórico de precios.
type ListingUseCase struct {
	listingRepo repository.ListingRepository
	historyRepo repository.PriceHistoryRepository
}

// NewListingUseCase construye el caso de uso.
func NewListingUseCase(listingRepo repository.ListingRepository, historyRepo repository.PriceHistoryRepository) *ListingUseCase {
	return &ListingUseCase{listingRepo: listingRepo, historyRepo: historyRepo}
}

// GetByID obtiene un listing por ID.
func (uc *ListingUseCase) GetByID(id string) (*dto.ListingResponse, error) {
	listing, err := uc.listingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, nil
	}
	return toListingResponse(listing), nil
}

// ListByBackend lista los listings de un backend.
func (uc *ListingUseCase) ListByBackend(backendID string) (*dto.ListingListResponse, error) {
	listings, err := uc.listingRepo.ListByBackend(backendID)
	if err != nil {
		return nil, err
	}
	out := &dto.ListingListResponse{}
	for _, l := range listings {
		out.Items = append(out.Items, *toListingResponse(l))
	}
	out.Page.Total = len(out.Items)
	return out, nil
}

// PriceHistory devuelve el histórico de cambios de precio de un listing,
// opcionalmente acotado a un rango de fechas.
func (uc *ListingUseCase) PriceHistory(listingID string, from, to *time.Time, page dto.PageRequest) (*dto.PriceHistoryResponse, error) {
	page.DefaultPage()
	var (
		records []*entity.PriceChangeRecord
		err     error
	)
	if from != nil && to != nil {
		records, err = uc.historyRepo.ListByListingAndRange(listingID, *from, *to)
	} else {
		records, err = uc.historyRepo.ListByListing(listingID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.PriceHistoryResponse{ListingID: listingID}
	for _, r := range records {
		out.Items = append(out.Items, dto.PriceChangeResponse{
			ID:              r.ID,
			ListingID:       r.ListingID,
			ChangedAt:       r.ChangedAt,
			Direction:       r.Direction,
			BeforePrice:     r.BeforePrice,
			AfterPrice:      r.AfterPrice,
			CompetitorPrice: r.CompetitorPrice,
			BuyboxMine:      r.BuyboxMine,
		})
	}
	return out, nil
}

func toListingResponse(l *entity.MarketplaceListing) *dto.ListingResponse {
	return &dto.ListingResponse{
		ID:              l.ID,
		ProductID:       l.ProductID,
		BackendID:       l.BackendID,
		MarketplaceID:   l.MarketplaceID,
		SKU:             l.SKU,
		Title:           l.Title,
		Status:          l.Status,
		Price:           l.Price,
		ShipPrice:       l.ShipPrice,
		Currency:        l.Currency,
		MinAllowedPrice: l.MinAllowedPrice,
		MaxAllowedPrice: l.MaxAllowedPrice,
		HasBuybox:       l.HasBuybox,
		HasLowestPrice:  l.HasLowestPrice,
		LowestPrice:     l.LowestPrice,
		Stock:           l.Stock,
		UpdatedAt:       l.UpdatedAt,
	}
}

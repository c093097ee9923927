package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

// PriceReportGenerator define el puerto de salida para render del informe.
// La implementación concreta usa Maroto; para tests se inyecta un doble.
type PriceReportGenerator interface {
	GeneratePriceHistoryPDF(
		ctx context.Context,
		listing *entity.MarketplaceListing,
		records []*entity.PriceChangeRecord,
		from, to time.Time,
	) ([]byte, error)
}

// ReportUseCase genera el informe PDF del histórico de precios de un listing.
// Lee el flujo solo-añadir de PriceChangeRecord; nunca lo modifica.
type ReportUseCase struct {
	listingRepo repository.ListingRepository
	historyRepo repository.PriceHistoryRepository
	generator   PriceReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	listingRepo repository.ListingRepository,
	historyRepo repository.PriceHistoryRepository,
	generator PriceReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		listingRepo: listingRepo,
		historyRepo: historyRepo,
		generator:   generator,
	}
}

// PriceHistoryPDF genera el PDF con los cambios de precio del listing en el
// rango dado. Retorna (pdf, nombreArchivo, error).
func (uc *ReportUseCase) PriceHistoryPDF(ctx context.Context, listingID string, from, to time.Time) ([]byte, string, error) {
	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, "", fmt.Errorf("informe: obtener listing: %w", err)
	}
	if listing == nil {
		return nil, "", domain.ErrNotFound
	}

	records, err := uc.historyRepo.ListByListingAndRange(listingID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("informe: leer histórico: %w", err)
	}

	pdf, err := uc.generator.GeneratePriceHistoryPDF(ctx, listing, records, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("informe: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("precios_%s_%s.pdf", listing.SKU, to.Format("20060102"))
	return pdf, filename, nil
}

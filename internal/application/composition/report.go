package composition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	domcomposition "github.com/jhoicas/Inventario-pallets/internal/domain/composition"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// ErrRendererNotConfigured el caso de uso se construyó sin ReportRenderer.
var ErrRendererNotConfigured = errors.New("generador de PDF no configurado")

// GenerateReport reporte de solo lectura derivado del resultado almacenado.
// NotFound si la composición no existe o si su resultado no es utilizable.
func (uc *LifecycleUseCase) GenerateReport(ctx context.Context, id string, opts dto.ReportOptions) (*dto.CompositionReport, error) {
	c, err := uc.compRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("composición %s: %w", id, domain.ErrNotFound)
	}
	if !c.Result.Usable() {
		return nil, fmt.Errorf("la composición %s no tiene un resultado utilizable: %w", id, domain.ErrNotFound)
	}
	return buildReport(c, opts, uc.lowEfficiency, uc.now()), nil
}

// GenerateReportPDF mismo reporte renderizado como PDF.
func (uc *LifecycleUseCase) GenerateReportPDF(ctx context.Context, id string, opts dto.ReportOptions) ([]byte, error) {
	if uc.renderer == nil {
		return nil, ErrRendererNotConfigured
	}
	report, err := uc.GenerateReport(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderCompositionReport(ctx, report)
}

func buildReport(c *entity.Composition, opts dto.ReportOptions, lowEfficiency float64, now time.Time) *dto.CompositionReport {
	res := c.Result
	summary := dto.ReportSummary{
		Efficiency:       res.Efficiency,
		EfficiencyRating: domcomposition.Rating(res.Efficiency, lowEfficiency),
		IsValid:          res.IsValid,
		Layers:           res.Layout.Layers,
		ItemsPerLayer:    res.Layout.ItemsPerLayer,
		TotalItems:       res.Layout.TotalItems,
		Products:         len(res.Products),
		Warnings:         len(res.Warnings),
	}
	for _, v := range res.Violations {
		if v.Severity == entity.SeverityError {
			summary.Errors++
		}
	}

	report := &dto.CompositionReport{
		CompositionID:   c.ID,
		Name:            c.Name,
		Status:          c.Status,
		PalletID:        c.PalletID,
		GeneratedAt:     now,
		Summary:         summary,
		Weight:          res.Weight,
		Volume:          res.Volume,
		Height:          res.Height,
		Products:        nonNil(res.Products),
		Violations:      nonNil(res.Violations),
		Recommendations: nonNil(res.Recommendations),
		Warnings:        nonNil(res.Warnings),
	}
	if opts.IncludeArrangement {
		report.Arrangement = nonNil(res.Layout.Arrangement)
	}
	return report
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"repairorder/internal/auth"
	"repairorder/internal/entity"
	"repairorder/internal/export"
	"repairorder/internal/model"
	"repairorder/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	msgOrderNotFound      = "Repair order not found"
	msgYearMonthRequired  = "Year and month are required"
	msgExportAllAdminOnly = "Only admin can export all stores. Please select a specific store."
	exportAllStores       = "all"
	archiveTimeout        = 15 * time.Second
)

// RepairOrderService implements the repair order lifecycle. Authorization for
// create, update and delete happens at the transport gate; Export checks the
// caller itself because its rule depends on the query.
type RepairOrderService struct {
	repo    model.Repository
	archive storage.Storage
}

// NewRepairOrderService creates the service. archive may be nil, in which
// case exports are not archived.
func NewRepairOrderService(repo model.Repository, archive storage.Storage) *RepairOrderService {
	return &RepairOrderService{repo: repo, archive: archive}
}

// ExportRequest carries the raw export query parameters.
type ExportRequest struct {
	Year  string
	Month string
	Store string
}

// ExportResult is a rendered workbook ready to download.
type ExportResult struct {
	FileName   string
	Data       []byte
	Rows       int
	ArchiveKey string
}

// List returns all orders newest arrival first, optionally filtered by a
// case-insensitive search term.
func (s *RepairOrderService) List(ctx context.Context, search string) ([]entity.DbRepairOrder, error) {
	orders, err := s.repo.ListRepairOrders(ctx, &entity.RepairOrderQuery{Search: search})
	if err != nil {
		return nil, storeError("Error fetching repair orders", err)
	}
	return orders, nil
}

func (s *RepairOrderService) Get(ctx context.Context, id uint) (*entity.DbRepairOrder, error) {
	order, err := s.repo.GetRepairOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(msgOrderNotFound)
		}
		return nil, storeError("Error fetching repair order", err)
	}
	return order, nil
}

// Create stores a new order and returns its id.
func (s *RepairOrderService) Create(ctx context.Context, req entity.RepairOrderRequest) (uint, error) {
	if field := req.MissingField(); field != "" {
		return 0, validationError(field + " is required")
	}
	order := req.ToModel()
	if err := s.repo.CreateRepairOrder(ctx, &order); err != nil {
		return 0, storeError("Error creating repair order", err)
	}

	entry := logrus.WithField("repair_order_id", order.ID)
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		entry = entry.WithField("user_id", identity.ID)
	}
	entry.Info("repair order created")
	return order.ID, nil
}

// Update replaces every column of an existing order.
func (s *RepairOrderService) Update(ctx context.Context, id uint, req entity.RepairOrderRequest) error {
	if field := req.MissingField(); field != "" {
		return validationError(field + " is required")
	}
	if err := s.repo.UpdateRepairOrder(ctx, id, req.ToMap()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(msgOrderNotFound)
		}
		return storeError("Error updating repair order", err)
	}
	return nil
}

func (s *RepairOrderService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteRepairOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(msgOrderNotFound)
		}
		return storeError("Error deleting repair order", err)
	}
	return nil
}

// Export renders one month of orders, optionally scoped to a store. Exporting
// every store is reserved for admins.
func (s *RepairOrderService) Export(ctx context.Context, identity auth.Identity, req ExportRequest) (*ExportResult, error) {
	year, month, err := parseExportPeriod(req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	store := strings.TrimSpace(req.Store)
	if strings.EqualFold(store, exportAllStores) {
		store = ""
	}
	if store == "" && !identity.IsAdmin() {
		return nil, permissionError(msgExportAllAdminOnly)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	orders, err := s.repo.ListRepairOrders(ctx, &entity.RepairOrderQuery{
		Store:       store,
		ArrivalFrom: entity.Date(from.Format(entity.DateLayout)),
		ArrivalTo:   entity.Date(from.AddDate(0, 1, -1).Format(entity.DateLayout)),
		Ascending:   true,
	})
	if err != nil {
		return nil, storeError("Error exporting to Excel", err)
	}

	data, err := export.Render(orders)
	if err != nil {
		return nil, storeError("Error exporting to Excel", err)
	}

	result := &ExportResult{
		FileName: export.FileName(year, month, store),
		Data:     data,
		Rows:     len(orders),
	}
	result.ArchiveKey = s.archiveExport(ctx, result)
	return result, nil
}

// archiveExport stores a copy of the workbook. Failures are logged only.
func (s *RepairOrderService) archiveExport(ctx context.Context, result *ExportResult) string {
	if s.archive == nil {
		return ""
	}
	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	key, err := s.archive.Save(archiveCtx, result.Data, storage.SaveOptions{
		Category:    storage.CategoryExports,
		FileName:    result.FileName,
		ContentType: export.ContentType,
	})
	if err != nil {
		logrus.WithError(err).WithField("file_name", result.FileName).Warn("failed to archive export")
		return ""
	}
	return key
}

func parseExportPeriod(yearText, monthText string) (int, int, error) {
	yearText = strings.TrimSpace(yearText)
	monthText = strings.TrimSpace(monthText)
	if yearText == "" || monthText == "" {
		return 0, 0, validationError(msgYearMonthRequired)
	}
	year, err := strconv.Atoi(yearText)
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, validationError(fmt.Sprintf("Invalid year: %s", yearText))
	}
	month, err := strconv.Atoi(monthText)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, validationError(fmt.Sprintf("Invalid month: %s", monthText))
	}
	return year, month, nil
}

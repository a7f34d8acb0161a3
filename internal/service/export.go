package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"darkveil/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Appointments"

// ExportAppointments writes every stored appointment to an xlsx file
// under the configured export path and returns the file path.
func (s *AdminService) ExportAppointments(user models.User) (string, error) {
	if err := requireAdmin(user); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Service", "Barber", "Client", "Date", "Time", "Status", "Notes"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, apt := range s.store.Appointments() {
		row := i + 2
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), apt.ID)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), s.serviceName(apt.ServiceID))
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), s.barberName(apt.BarberID))
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), apt.UserID)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), apt.Date)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), apt.Time)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("G%d", row), apt.Status)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("H%d", row), apt.Notes)
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 30)
	_ = f.SetColWidth(exportSheet, "B", "D", 22)
	_ = f.SetColWidth(exportSheet, "E", "G", 14)
	_ = f.SetColWidth(exportSheet, "H", "H", 40)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("appointments_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(s.exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	s.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (s *AdminService) serviceName(id string) string {
	if svc, ok := s.store.GetServiceByID(id); ok {
		return svc.Name
	}
	return id
}

func (s *AdminService) barberName(id string) string {
	if b, ok := s.store.GetBarberByID(id); ok {
		return b.Name
	}
	return id
}

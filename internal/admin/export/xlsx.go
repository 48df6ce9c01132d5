// Package export renders back-office data as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bloodlink/internal/admin/models"
	"bloodlink/pkg/domain"
)

// ContentTypeXLSX is the media type of the workbook produced by DonorsXLSX.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const donorSheet = "Donors"

// DonorHeader is the header row of the donor export.
var DonorHeader = []string{
	"Donor ID",
	"Full Name",
	"Email",
	"Phone",
	"Blood Type",
	"City",
	"State",
	"Available",
	"Donations",
	"Total Units",
	"Last Donation",
	"Registered At",
}

var donorColumnWidths = []float64{38, 24, 30, 14, 18, 16, 16, 10, 10, 12, 14, 22}

// DonorsXLSX writes donors to a single-sheet workbook with a styled, frozen
// header row.
func DonorsXLSX(donors []*models.DonorSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(donorSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(donorSheet)
	if err != nil {
		return nil, fmt.Errorf("find sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F4CCCC"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(donorSheet, "A1", &DonorHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(DonorHeader))
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(donorSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	for i, width := range donorColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(donorSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetPanes(donorSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	for i, d := range donors {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []any{
			d.ID.String(),
			d.FullName,
			d.Email,
			d.Phone,
			string(d.BloodType),
			d.City,
			d.State,
			yesNo(d.Available),
			d.DonationCount,
			d.TotalUnits,
			dateCell(d.LastDonation),
			d.RegisteredAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(donorSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func dateCell(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

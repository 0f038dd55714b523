package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"production-ledger/internal/service/evm"
	"production-ledger/internal/storage"
)

type LedgerReader interface {
	Entries(ctx context.Context, projectID string) ([]storage.LedgerEntry, error)
}

type EVMReader interface {
	ProjectEVM(ctx context.Context, projectID string) (*evm.Snapshot, error)
}

type GenerateExcelService struct {
	ledger LedgerReader
	evm    EVMReader
}

func NewGenerateService(ledger LedgerReader, evm EVMReader) *GenerateExcelService {
	return &GenerateExcelService{ledger: ledger, evm: evm}
}

const (
	sheetEVM    = "EVM"
	sheetLedger = "Ledger"
)

// GenerateLedgerReport builds a workbook with the project's EVM snapshot and
// its full ledger.
func (g *GenerateExcelService) GenerateLedgerReport(ctx context.Context, projectID string) ([]byte, error) {
	const op = "service.generate_excel.GenerateLedgerReport"

	var (
		snapshot *evm.Snapshot
		entries  []storage.LedgerEntry
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		snapshot, err = g.evm.ProjectEVM(egCtx, projectID)
		return err
	})
	eg.Go(func() error {
		var err error
		entries, err = g.ledger.Entries(egCtx, projectID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetEVM); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(sheetLedger); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	writeEVM(f, snapshot, headerStyle)
	writeLedger(f, entries, headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeEVM(f *excelize.File, s *evm.Snapshot, headerStyle int) {
	f.SetCellValue(sheetEVM, "A1", "Metric")
	f.SetCellValue(sheetEVM, "B1", "Value")
	f.SetCellStyle(sheetEVM, "A1", "B1", headerStyle)

	rows := []struct {
		label string
		value interface{}
	}{
		{"Project", s.ProjectID},
		{"Name", s.Name},
		{"PV", s.PV},
		{"EV", s.EV},
		{"AC", s.AC},
		{"BAC", s.BAC},
		{"CV", s.CV},
		{"SV", s.SV},
		{"CPI", optional(s.CPI)},
		{"SPI", optional(s.SPI)},
		{"EAC", s.EAC},
		{"VAC", s.VAC},
		{"Over budget", s.IsOverBudget},
		{"Low confidence", s.LowConfidence},
	}

	for i, r := range rows {
		f.SetCellValue(sheetEVM, cellName(1, i+2), r.label)
		f.SetCellValue(sheetEVM, cellName(2, i+2), r.value)
	}

	f.SetColWidth(sheetEVM, "A", "B", 20)
}

func writeLedger(f *excelize.File, entries []storage.LedgerEntry, headerStyle int) {
	headers := []string{"Entry", "Project", "Kind", "Source", "Amount", "Created"}
	for i, name := range headers {
		f.SetCellValue(sheetLedger, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheetLedger, "A1", cellName(len(headers), 1), headerStyle)

	for i, e := range entries {
		row := i + 2
		f.SetCellValue(sheetLedger, cellName(1, row), e.ID)
		f.SetCellValue(sheetLedger, cellName(2, row), e.ProjectID)
		f.SetCellValue(sheetLedger, cellName(3, row), string(e.Kind))
		f.SetCellValue(sheetLedger, cellName(4, row), e.SourceID)
		f.SetCellValue(sheetLedger, cellName(5, row), e.Amount.InexactFloat64())
		f.SetCellValue(sheetLedger, cellName(6, row), e.CreatedAt)
	}

	if len(entries) > 0 {
		last := len(entries) + 1
		f.SetCellValue(sheetLedger, cellName(4, last+1), "Total")
		f.SetCellFormula(sheetLedger, cellName(5, last+1), fmt.Sprintf("SUM(E2:E%d)", last))
	}

	f.SetPanes(sheetLedger, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheetLedger, "A", "F", 18)
}

func optional(v *float64) interface{} {
	if v == nil {
		return "n/a"
	}
	return *v
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

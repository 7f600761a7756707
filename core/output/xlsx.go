package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the estimate workbook
const (
	SheetCover     = "表紙"
	SheetSummary   = "内訳"
	SheetDetail    = "明細"
	SheetReasoning = "算出根拠"
)

// XLSXFormatter writes the estimate as an Excel workbook
type XLSXFormatter struct{}

// Format implements Formatter
func (f *XLSXFormatter) Format() Format { return FormatXLSX }

// Render implements Formatter
func (f *XLSXFormatter) Render(w io.Writer, doc *Document) error {
	book, err := Workbook(doc)
	if err != nil {
		return err
	}
	defer book.Close()
	return book.Write(w)
}

// Workbook builds the estimate workbook. The caller closes it.
func Workbook(doc *Document) (*excelize.File, error) {
	book := excelize.NewFile()

	if err := book.SetSheetName("Sheet1", SheetCover); err != nil {
		book.Close()
		return nil, err
	}
	for _, name := range []string{SheetSummary, SheetDetail} {
		if _, err := book.NewSheet(name); err != nil {
			book.Close()
			return nil, err
		}
	}

	steps := []func(*excelize.File, *Document) error{
		writeCover,
		writeSummary,
		writeDetail,
	}
	if doc.ShowReasoning && len(doc.Estimate.ReasoningList) > 0 {
		if _, err := book.NewSheet(SheetReasoning); err != nil {
			book.Close()
			return nil, err
		}
		steps = append(steps, writeReasoning)
	}

	for _, step := range steps {
		if err := step(book, doc); err != nil {
			book.Close()
			return nil, err
		}
	}

	book.SetActiveSheet(0)
	return book, nil
}

func yenStyle(book *excelize.File) (int, error) {
	format := "¥#,##0;-¥#,##0"
	return book.NewStyle(&excelize.Style{CustomNumFmt: &format})
}

func boldStyle(book *excelize.File) (int, error) {
	return book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
}

// setRow writes values starting at column A of row
func setRow(book *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return book.SetSheetRow(sheet, cell, &values)
}

func writeCover(book *excelize.File, doc *Document) error {
	c := doc.Estimate.Cover
	rows := [][]interface{}{
		{"御見積書"},
		{},
		{"宛先", c.ClientName},
		{"見積番号", c.EstimateID},
		{"発行日", c.IssueDate},
		{"件名", c.ProjectName},
		{"工事場所", c.ProjectLocation},
		{"工事期間", c.ProjectPeriod},
		{"有効期限", c.ValidityPeriod},
		{"備考", c.Notes},
		{"担当者", c.Representative},
		{},
		{"税抜金額", c.TotalBeforeTax},
		{"消費税", c.Tax},
		{"御見積金額（税込）", c.TotalWithTax},
		{},
		{"発行元", doc.Company.Name},
		{"", doc.Company.PostalCode + " " + doc.Company.Address},
		{"", doc.Company.Tel + " " + doc.Company.Fax},
	}
	for i, r := range rows {
		if err := setRow(book, SheetCover, i+1, r...); err != nil {
			return err
		}
	}

	yen, err := yenStyle(book)
	if err != nil {
		return err
	}
	if err := book.SetCellStyle(SheetCover, "B13", "B15", yen); err != nil {
		return err
	}
	bold, err := boldStyle(book)
	if err != nil {
		return err
	}
	if err := book.SetCellStyle(SheetCover, "A1", "A1", bold); err != nil {
		return err
	}
	return book.SetColWidth(SheetCover, "A", "B", 24)
}

func writeSummary(book *excelize.File, doc *Document) error {
	est := doc.Estimate
	if err := setRow(book, SheetSummary, 1, "No", "項目", "金額"); err != nil {
		return err
	}

	row := 2
	for _, section := range est.VisibleSections() {
		if err := setRow(book, SheetSummary, row, section.Number, section.Label(), section.Total); err != nil {
			return err
		}
		row++
	}

	s := est.Summary
	for _, r := range [][]interface{}{
		{"", "小計", s.Subtotal},
		{"", "値引き", s.Discount},
		{"", "税抜合計", s.TotalBeforeTax},
		{"", fmt.Sprintf("消費税（%s%%）", s.TaxRate.Shift(2).String()), s.Tax},
		{"", "税込合計", s.TotalWithTax},
	} {
		if err := setRow(book, SheetSummary, row, r...); err != nil {
			return err
		}
		row++
	}

	yen, err := yenStyle(book)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(3, row-1)
	if err != nil {
		return err
	}
	if err := book.SetCellStyle(SheetSummary, "C2", last, yen); err != nil {
		return err
	}
	return book.SetColWidth(SheetSummary, "B", "B", 24)
}

func writeDetail(book *excelize.File, doc *Document) error {
	if err := setRow(book, SheetDetail, 1, "区分", "No", "品名", "備考", "数量", "単位", "単価", "金額", "手入力"); err != nil {
		return err
	}

	row := 2
	for _, section := range doc.Estimate.VisibleSections() {
		for _, item := range section.Items {
			qty, _ := item.QuantityValue.Float64()
			manual := ""
			if item.IsManualInput {
				manual = "要"
			}
			if err := setRow(book, SheetDetail, row,
				section.Label(), item.No, item.Description, item.Remarks,
				qty, item.QuantityUnit, item.UnitPrice, item.Amount, manual,
			); err != nil {
				return err
			}
			row++
		}
		if err := setRow(book, SheetDetail, row, section.Label(), "", "計", "", "", "", "", section.Total); err != nil {
			return err
		}
		row++
	}

	yen, err := yenStyle(book)
	if err != nil {
		return err
	}
	if row > 2 {
		last, err := excelize.CoordinatesToCellName(8, row-1)
		if err != nil {
			return err
		}
		if err := book.SetCellStyle(SheetDetail, "G2", last, yen); err != nil {
			return err
		}
	}
	if err := book.SetColWidth(SheetDetail, "C", "D", 32); err != nil {
		return err
	}
	return book.SetPanes(SheetDetail, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeReasoning(book *excelize.File, doc *Document) error {
	if err := setRow(book, SheetReasoning, 1, "算出根拠"); err != nil {
		return err
	}
	for i, line := range doc.Estimate.ReasoningList {
		if err := setRow(book, SheetReasoning, i+2, line); err != nil {
			return err
		}
	}
	return book.SetColWidth(SheetReasoning, "A", "A", 100)
}

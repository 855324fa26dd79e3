package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Dataset"

// WriteXLSX 将记录集合写为 XLSX 工作表
//
// 嵌套指标块经 JSON 往返展开为 "_" 连接的扁平列
// （如 attention.digit_span_max → attention_digit_span_max），
// 列按名称排序，首行表头加粗。
func WriteXLSX(path string, records interface{}, logger *zap.Logger) error {
	flat, err := flattenRecords(records)
	if err != nil {
		return err
	}

	headers := collectHeaders(flat)

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, record := range flat {
		row := rowIdx + 2
		for col, header := range headers {
			value, ok := record[header]
			if !ok || value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.Close()
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close XLSX file: %w", err)
	}

	logger.Info("Wrote XLSX dataset",
		zap.String("path", path),
		zap.Int("rows", len(flat)),
		zap.Int("columns", len(headers)),
	)
	return nil
}

// flattenRecords JSON 往返后展开嵌套对象为扁平键值对
func flattenRecords(records interface{}) ([]map[string]interface{}, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("records must be a slice of objects: %w", err)
	}

	flat := make([]map[string]interface{}, len(raw))
	for i, record := range raw {
		flat[i] = map[string]interface{}{}
		flattenInto(flat[i], "", record)
	}
	return flat, nil
}

func flattenInto(dst map[string]interface{}, prefix string, value map[string]interface{}) {
	for k, v := range value {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flattenInto(dst, key, nested)
			continue
		}
		if list, ok := v.([]interface{}); ok {
			// 列表列以 JSON 文本写入单元格
			text, err := json.Marshal(list)
			if err == nil {
				dst[key] = string(text)
			}
			continue
		}
		dst[key] = v
	}
}

func collectHeaders(flat []map[string]interface{}) []string {
	seen := map[string]bool{}
	for _, record := range flat {
		for k := range record {
			seen[k] = true
		}
	}
	headers := make([]string, 0, len(seen))
	for k := range seen {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	return headers
}

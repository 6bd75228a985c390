package simpleexcel

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

// =============================================================================
// Types
// =============================================================================

// DataExporter renders bound data into an Excel workbook.
type DataExporter struct {
	template   *ReportTemplate
	data       map[string]interface{}
	sheets     []*SheetBuilder
	formatters map[string]func(interface{}) interface{}
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a block of rows in a sheet. Sections stack vertically
// with one blank row between them.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"` // bound at runtime
	ShowHeader  bool           `yaml:"show_header"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // struct field name
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
	Formatter string  `yaml:"formatter"` // name given to RegisterFormatter
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// SheetBuilder collects sections added programmatically.
type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

// =============================================================================
// Constructors
// =============================================================================

func NewDataExporter() *DataExporter {
	return &DataExporter{
		data:       make(map[string]interface{}),
		formatters: make(map[string]func(interface{}) interface{}),
	}
}

// NewDataExporterFromYamlConfig parses an inline YAML report template.
func NewDataExporterFromYamlConfig(yamlConfig string) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(yamlConfig), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("report template has no sheets")
	}

	e := NewDataExporter()
	e.template = &tmpl
	return e, nil
}

// NewDataExporterFromYamlFile reads the YAML report template at path.
func NewDataExporterFromYamlFile(path string) (*DataExporter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml file: %w", err)
	}
	return NewDataExporterFromYamlConfig(string(b))
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{exporter: e, name: name}
	e.sheets = append(e.sheets, sb)
	return sb
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// BindSectionData binds data to a section ID (for YAML-based export).
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// RegisterFormatter makes a value transformation available to columns by name.
func (e *DataExporter) RegisterFormatter(name string, f func(interface{}) interface{}) *DataExporter {
	e.formatters[name] = f
	return e
}

// =============================================================================
// Output
// =============================================================================

// BuildExcel creates the workbook in memory. The caller closes it.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()
	first := true

	addSheet := func(name string) error {
		if first {
			first = false
			return f.SetSheetName("Sheet1", name)
		}
		if idx, _ := f.GetSheetIndex(name); idx != -1 {
			return nil
		}
		_, err := f.NewSheet(name)
		return err
	}

	if e.template != nil {
		for _, sheetTmpl := range e.template.Sheets {
			if err := addSheet(sheetTmpl.Name); err != nil {
				f.Close()
				return nil, err
			}
			sections := make([]*SectionConfig, len(sheetTmpl.Sections))
			for j := range sheetTmpl.Sections {
				sec := sheetTmpl.Sections[j]
				if data, ok := e.data[sec.ID]; ok {
					sec.Data = data
				}
				sections[j] = &sec
			}
			if err := e.renderSections(f, sheetTmpl.Name, sections); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	// sheets added in code follow the YAML ones
	for _, sb := range e.sheets {
		if err := addSheet(sb.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := e.renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	f, err := e.BuildExcel()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Rendering Logic
// =============================================================================

func (e *DataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	row := 1

	for _, sec := range sections {
		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return err
			}
			if sec.TitleStyle != nil {
				styleID, err := createStyle(f, sec.TitleStyle)
				if err != nil {
					return err
				}
				endCell := cell
				if len(sec.Columns) > 1 {
					endCell, _ = excelize.CoordinatesToCellName(len(sec.Columns), row)
					if err := f.MergeCell(sheet, cell, endCell); err != nil {
						return err
					}
				}
				if err := f.SetCellStyle(sheet, cell, endCell, styleID); err != nil {
					return err
				}
			}
			row++
		}

		if sec.ShowHeader {
			headerStyle := 0
			if sec.HeaderStyle != nil {
				id, err := createStyle(f, sec.HeaderStyle)
				if err != nil {
					return err
				}
				headerStyle = id
			}
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if headerStyle != 0 {
					if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
						return err
					}
				}
				if col.Width > 0 {
					colName, _ := excelize.ColumnNumberToName(i + 1)
					if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
						return err
					}
				}
			}
			row++
		}

		dataVal := reflect.ValueOf(sec.Data)
		if dataVal.Kind() == reflect.Slice {
			for i := 0; i < dataVal.Len(); i++ {
				item := dataVal.Index(i)
				for j, col := range sec.Columns {
					val := extractValue(item, col.FieldName)
					if fn, ok := e.formatters[col.Formatter]; ok {
						val = fn(val)
					}
					cell, _ := excelize.CoordinatesToCellName(j+1, row)
					if err := f.SetCellValue(sheet, cell, val); err != nil {
						return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
					}
				}
				row++
			}
		}

		// blank row between sections
		row++
	}

	return nil
}

// extractValue reads a struct field by name. Nil pointers become empty cells.
func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}
	if item.Kind() != reflect.Struct {
		return ""
	}
	f := item.FieldByName(fieldName)
	if !f.IsValid() {
		return ""
	}
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return ""
		}
		f = f.Elem()
	}
	return f.Interface()
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	return f.NewStyle(style)
}

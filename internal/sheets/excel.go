package sheets

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

// GenerarPadronExcel genera un archivo .xlsx con el padrón completo, para
// descargas sin cuenta de Google de por medio.
func GenerarPadronExcel(personas []domain.Persona) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(NombreHoja)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error al crear la hoja: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	estiloEncabezado, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error al crear el estilo: %w", err)
	}

	for i, encabezado := range Encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(NombreHoja, celda, encabezado)
		f.SetCellStyle(NombreHoja, celda, celda, estiloEncabezado)
	}

	for filaIdx, persona := range personas {
		valores := filaPersona(persona)
		for colIdx, valor := range valores {
			celda, _ := excelize.CoordinatesToCellName(colIdx+1, filaIdx+2)
			f.SetCellValue(NombreHoja, celda, valor)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("error al escribir el archivo: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("error al cerrar el archivo: %w", err)
	}

	return buf.Bytes(), nil
}

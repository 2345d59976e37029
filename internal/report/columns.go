// =============================================================================
// Cartera Report - Column Identifiers
// =============================================================================
//
// The report has a closed set of 14 columns. Their order is both the
// validation schema and the default display order of the slide tables.
//
// Every column has a ColumnKind that drives formatting:
//
//   KindName    -> title case        (Cliente, Deudor)
//   KindDate    -> DD-MM-YYYY         (Fecha Otorgamiento, Fecha Vencimiento)
//   KindAmount  -> summed on the totals row
//   others      -> plain string conversion
//
// =============================================================================

package report

import "fmt"

// Column identifies one of the fixed report columns.
type Column int

const (
	RUTCliente Column = iota
	Cliente
	Ejecutivo
	IDDeudor
	Deudor
	FechaOtorgamiento
	TipoDocumento
	NumeroDocumento
	FechaVencimiento
	DiasMora
	MontoDocumento
	MontoRecaudado
	CapitalAmortizado
	MontoSaldo

	// NumColumns is the size of the column set.
	NumColumns int = iota
)

// ColumnKind classifies how a column's values are rendered.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindIdentifier
	KindName
	KindDate
	KindCount
	KindAmount
)

type columnInfo struct {
	name string
	kind ColumnKind
}

var columnTable = [NumColumns]columnInfo{
	RUTCliente:        {"RUT Cliente", KindIdentifier},
	Cliente:           {"Cliente", KindName},
	Ejecutivo:         {"Ejecutivo", KindText},
	IDDeudor:          {"ID Deudor", KindIdentifier},
	Deudor:            {"Deudor", KindName},
	FechaOtorgamiento: {"Fecha Otorgamiento", KindDate},
	TipoDocumento:     {"Tipo Documento", KindText},
	NumeroDocumento:   {"N°Documento", KindIdentifier},
	FechaVencimiento:  {"Fecha Vencimiento", KindDate},
	DiasMora:          {"Días Mora", KindCount},
	MontoDocumento:    {"Monto Documento", KindAmount},
	MontoRecaudado:    {"Monto Recaudado", KindAmount},
	CapitalAmortizado: {"Capital Amortizado", KindAmount},
	MontoSaldo:        {"Monto Saldo", KindAmount},
}

// Name returns the header text of the column.
func (c Column) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnTable[c].name
}

// String implements fmt.Stringer.
func (c Column) String() string { return c.Name() }

// Kind returns the formatting kind of the column.
func (c Column) Kind() ColumnKind {
	if !c.Valid() {
		return KindText
	}
	return columnTable[c].kind
}

// Valid reports whether c is one of the known columns.
func (c Column) Valid() bool {
	return c >= 0 && int(c) < NumColumns
}

// AllColumns returns every column in schema order.
func AllColumns() []Column {
	cols := make([]Column, NumColumns)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// ColumnByName looks up a column by its exact header text.
func ColumnByName(name string) (Column, bool) {
	for i, info := range columnTable {
		if info.name == name {
			return Column(i), true
		}
	}
	return 0, false
}

// DefaultMonetaryColumns are the columns summed on the totals row.
func DefaultMonetaryColumns() []Column {
	return []Column{MontoDocumento, MontoRecaudado, CapitalAmortizado, MontoSaldo}
}

// clientColumns are the leading columns shown on the cover slide.
var clientColumns = []Column{RUTCliente, Cliente, Ejecutivo}

// RenderedColumns returns the columns drawn in each slide table.
// With omitClient set, the client columns are left to the cover slide.
func RenderedColumns(omitClient bool) []Column {
	if !omitClient {
		return AllColumns()
	}
	return AllColumns()[len(clientColumns):]
}

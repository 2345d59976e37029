package report

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/table"
	"github.com/shopspring/decimal"
)

var grantDate = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

// sampleRow returns a complete row whose Monto Documento is i+1.
func sampleRow(i int) []table.Value {
	row := make([]table.Value, NumColumns)
	row[RUTCliente] = table.StringValue("76.123.456-7")
	row[Cliente] = table.StringValue("ACME SPA")
	row[Ejecutivo] = table.StringValue("JUAN SOTO")
	row[IDDeudor] = table.StringValue(fmt.Sprintf("D%03d", i))
	row[Deudor] = table.StringValue("MARIA PEREZ")
	row[FechaOtorgamiento] = table.TimeValue(grantDate)
	row[TipoDocumento] = table.StringValue("Factura")
	row[NumeroDocumento] = table.NumberValue(decimal.NewFromInt(int64(1000 + i)))
	row[FechaVencimiento] = table.TimeValue(grantDate.AddDate(0, 1, 0))
	row[DiasMora] = table.NumberValue(decimal.NewFromInt(int64(i)))
	row[MontoDocumento] = table.NumberValue(decimal.NewFromInt(int64(i + 1)))
	row[MontoRecaudado] = table.NumberValue(decimal.RequireFromString("0.10"))
	row[CapitalAmortizado] = table.NullValue()
	row[MontoSaldo] = table.NumberValue(decimal.RequireFromString("1000.5"))
	return row
}

// sampleTable returns a table with every report column and n rows.
func sampleTable(n int) *table.Table {
	t := &table.Table{}
	for _, c := range AllColumns() {
		t.Columns = append(t.Columns, c.Name())
	}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, sampleRow(i))
	}
	return t
}

// sampleDataset returns a validated dataset of n rows.
func sampleDataset(n int) *Dataset {
	ds, err := Validate(sampleTable(n))
	if err != nil {
		panic(err)
	}
	return ds
}

package report

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ginjaninja78/cartera-report/internal/table"
)

func TestColumnsAreFixed(t *testing.T) {
	want := []string{
		"RUT Cliente", "Cliente", "Ejecutivo", "ID Deudor", "Deudor",
		"Fecha Otorgamiento", "Tipo Documento", "N°Documento", "Fecha Vencimiento",
		"Días Mora", "Monto Documento", "Monto Recaudado", "Capital Amortizado", "Monto Saldo",
	}

	var got []string
	for _, c := range AllColumns() {
		got = append(got, c.Name())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("columns = %v\nwant %v", got, want)
	}

	if c, ok := ColumnByName("Días Mora"); !ok || c != DiasMora {
		t.Errorf("ColumnByName(Días Mora) = %v, %v", c, ok)
	}
	if _, ok := ColumnByName("Sucursal"); ok {
		t.Error("ColumnByName accepted an unknown column")
	}
}

func TestRenderedColumns(t *testing.T) {
	if got := RenderedColumns(false); len(got) != NumColumns {
		t.Errorf("all columns: len = %d", len(got))
	}
	got := RenderedColumns(true)
	if len(got) != 11 || got[0] != IDDeudor || got[len(got)-1] != MontoSaldo {
		t.Errorf("RenderedColumns(true) = %v", got)
	}
}

func TestValidateReportsEveryMissingColumn(t *testing.T) {
	tbl := sampleTable(2)
	drop := map[string]bool{"Monto Saldo": true, "Ejecutivo": true}

	var cols []string
	for _, c := range tbl.Columns {
		if !drop[c] {
			cols = append(cols, c)
		}
	}
	tbl.Columns = cols

	ds, err := Validate(tbl)
	if ds != nil {
		t.Error("expected no dataset")
	}

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
	if !reflect.DeepEqual(se.Missing, []string{"Ejecutivo", "Monto Saldo"}) {
		t.Errorf("Missing = %v", se.Missing)
	}
	if !strings.Contains(se.Error(), "Ejecutivo, Monto Saldo") {
		t.Errorf("Error() = %q", se.Error())
	}
}

func TestValidateProjectsAndReorders(t *testing.T) {
	src := sampleTable(1)

	// Reverse the columns and add an extra one in front.
	tbl := &table.Table{Columns: []string{"Sucursal"}}
	row := []table.Value{table.StringValue("Centro")}
	for i := len(src.Columns) - 1; i >= 0; i-- {
		tbl.Columns = append(tbl.Columns, src.Columns[i])
		row = append(row, src.Rows[0][i])
	}
	tbl.Rows = [][]table.Value{row}

	ds, err := Validate(tbl)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("Len = %d", ds.Len())
	}

	got := ds.Row(0)
	for _, c := range AllColumns() {
		if got.Get(c) != src.Rows[0][c] {
			t.Errorf("column %s = %v, want %v", c, got.Get(c), src.Rows[0][c])
		}
	}
}

func TestValidateEmpty(t *testing.T) {
	if _, err := Validate(sampleTable(0)); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("err = %v, want ErrEmptyDataset", err)
	}
	if _, err := NewDataset(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("NewDataset(nil) err = %v, want ErrEmptyDataset", err)
	}
}

func TestDatasetRowsIsACopy(t *testing.T) {
	ds := sampleDataset(2)
	rows := ds.Rows()
	rows[0][Cliente] = table.StringValue("changed")
	if ds.Row(0).Get(Cliente).Str != "ACME SPA" {
		t.Error("modifying Rows() changed the dataset")
	}
}

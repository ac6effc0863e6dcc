package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]string) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

type fakeCustomer struct {
	name, email, vehicle string
}

// shopCSV builds a realistic export: rows spread over a handful of customers,
// every row distinct.
func shopCSV(seed int64, customers, rows int) string {
	faker := gofakeit.New(seed)
	people := make([]fakeCustomer, customers)
	for i := range people {
		people[i] = fakeCustomer{
			name:    faker.Name(),
			email:   faker.Email(),
			vehicle: fmt.Sprintf("%s %s %s", faker.Color(), faker.CarMaker(), faker.CarModel()),
		}
	}

	var b strings.Builder
	b.WriteString("Customer Name,Email,Vehicle,Service,Price,Discount %,Payment Method,Service Date,Notes\n")
	for i := 0; i < rows; i++ {
		p := people[faker.Number(0, customers-1)]
		payment := "Cash"
		if faker.Bool() {
			payment = "Mobile Payment"
		}
		fields := []string{
			p.name,
			p.email,
			p.vehicle,
			fmt.Sprintf("Service %d", i),
			fmt.Sprintf("%.2f", faker.Price(20, 900)),
			fmt.Sprintf("%d", faker.Number(0, 3)*5),
			payment,
			faker.Date().Format("2006-01-02"),
			faker.Sentence(6),
		}
		for j, f := range fields {
			fields[j] = quote(f)
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func quote(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/autoshop/internal/model"
)

// Field synonyms, compared after compactKey. The first non-empty column wins.
var (
	customerNameKeys    = []string{"customername", "customer", "name", "client", "clientname"}
	emailKeys           = []string{"email", "customeremail", "emailaddress"}
	vehicleKeys         = []string{"vehicledetails", "vehicle", "car", "vehicleinfo"}
	serviceKeys         = []string{"servicename", "service", "servicetype"}
	specialsKeys        = []string{"specialsname", "specials", "special", "specialname", "promo"}
	originalPriceKeys   = []string{"originalprice", "price", "amount", "baseprice"}
	finalPriceKeys      = []string{"finalprice", "total", "totalprice", "amountpaid"}
	discountPercentKeys = []string{"discountpercent", "discount%", "discountpct", "discountpercentage"}
	discountAmountKeys  = []string{"discountamount", "discount"}
	paymentMethodKeys   = []string{"paymentmethod", "payment", "paymenttype", "paidby"}
	serviceDateKeys     = []string{"servicedate", "date", "transactiondate", "createdat"}
	notesKeys           = []string{"notes", "note", "comments", "comment"}
)

var hundred = decimal.NewFromInt(100)

// RowError describes a row rejected before deduplication.
type RowError struct {
	Line    int
	Missing []string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: missing %s", e.Line, strings.Join(e.Missing, ", "))
}

// compactKey folds a header name so "Customer Name", "customer_name" and
// "customername" compare equal.
func compactKey(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(h))
}

// columns is a row keyed by compactKey.
type columns map[string]string

func compactColumns(row RawRow) columns {
	c := make(columns, len(row.Values))
	for h, v := range row.Values {
		k := compactKey(h)
		if strings.TrimSpace(c[k]) == "" {
			c[k] = v
		}
	}
	return c
}

func (c columns) lookup(keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c[k]); v != "" {
			return v
		}
	}
	return ""
}

// Normalize maps a header-keyed row onto an ImportRecord. Rows without a
// customer name, vehicle, service, recognized payment method or positive
// original price are rejected with a *RowError.
func Normalize(row RawRow) (model.ImportRecord, error) {
	cols := compactColumns(row)
	payment, paymentOK := model.ParsePaymentMethod(cols.lookup(paymentMethodKeys))

	rec := model.ImportRecord{
		Line:            row.Line,
		CustomerName:    cols.lookup(customerNameKeys),
		Email:           cols.lookup(emailKeys),
		VehicleDetails:  cols.lookup(vehicleKeys),
		ServiceName:     cols.lookup(serviceKeys),
		SpecialsName:    cols.lookup(specialsKeys),
		OriginalPrice:   model.ParseAmount(cols.lookup(originalPriceKeys)).Round(2),
		FinalPrice:      model.ParseAmount(cols.lookup(finalPriceKeys)).Round(2),
		DiscountPercent: model.ParseAmount(cols.lookup(discountPercentKeys)),
		DiscountAmount:  model.ParseAmount(cols.lookup(discountAmountKeys)).Round(2),
		PaymentMethod:   payment,
		ServiceDate:     model.NormalizeDate(cols.lookup(serviceDateKeys)),
		Notes:           cols.lookup(notesKeys),
	}

	var missing []string
	if rec.CustomerName == "" {
		missing = append(missing, "customername")
	}
	if rec.VehicleDetails == "" {
		missing = append(missing, "vehicledetails")
	}
	if rec.ServiceName == "" {
		missing = append(missing, "servicename")
	}
	if !paymentOK {
		missing = append(missing, "paymentmethod")
	}
	if !rec.OriginalPrice.IsPositive() {
		missing = append(missing, "originalprice")
	}
	if len(missing) > 0 {
		return model.ImportRecord{}, &RowError{Line: row.Line, Missing: missing}
	}

	if rec.FinalPrice.IsZero() {
		rec.FinalPrice = derivedFinalPrice(rec)
	}
	return rec, nil
}

func derivedFinalPrice(rec model.ImportRecord) decimal.Decimal {
	switch {
	case rec.DiscountAmount.IsPositive():
		return rec.OriginalPrice.Sub(rec.DiscountAmount).Round(2)
	case rec.DiscountPercent.IsPositive():
		off := rec.OriginalPrice.Mul(rec.DiscountPercent).Div(hundred)
		return rec.OriginalPrice.Sub(off).Round(2)
	default:
		return rec.OriginalPrice
	}
}

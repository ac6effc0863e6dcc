// Package dedup derives content signatures for transactions and keeps the
// per-install set of signatures that were already imported.
package dedup

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/cleared-dev/autoshop/internal/model"
)

// sep joins signature components. Inside a component it is escaped with a
// backslash, so field boundaries are unambiguous and signatures of text
// without either character are unchanged.
const sep = "|"

var fieldEscaper = strings.NewReplacer(`\`, `\\`, sep, `\`+sep)

// Signature returns the dedup key of a record. Text is NFC-normalized,
// trimmed and lower-cased, amounts are fixed to two decimals, and the date
// is an RFC 3339 UTC instant with whole seconds (or empty). The same record
// always yields the same key no matter which file or device produced it.
func Signature(rec model.ImportRecord) string {
	return strings.Join([]string{
		text(rec.CustomerName),
		text(rec.VehicleDetails),
		text(rec.ServiceName),
		money(rec.OriginalPrice),
		money(rec.FinalPrice),
		money(rec.DiscountPercent),
		money(rec.DiscountAmount),
		text(string(rec.PaymentMethod)),
		model.NormalizeDate(rec.ServiceDate),
	}, sep)
}

// RemoteSignature recomputes the signature of a transaction fetched from the
// backend. Blank name or vehicle fall back to the resolved customer's.
func RemoteSignature(tx model.RemoteTransaction, fallbackName, fallbackVehicle string) string {
	name := tx.CustomerName
	if strings.TrimSpace(name) == "" {
		name = fallbackName
	}
	vehicle := tx.VehicleDetails
	if strings.TrimSpace(vehicle) == "" {
		vehicle = fallbackVehicle
	}
	payment := model.PaymentMethod(tx.PaymentMethod)
	if pm, ok := model.ParsePaymentMethod(tx.PaymentMethod); ok {
		payment = pm
	}
	return Signature(model.ImportRecord{
		CustomerName:    name,
		VehicleDetails:  vehicle,
		ServiceName:     tx.ServiceName,
		OriginalPrice:   tx.OriginalPrice,
		FinalPrice:      tx.FinalPrice,
		DiscountPercent: tx.DiscountPercent,
		DiscountAmount:  tx.DiscountAmount,
		PaymentMethod:   payment,
		ServiceDate:     tx.ServiceDate,
	})
}

func text(s string) string {
	return fieldEscaper.Replace(strings.ToLower(strings.TrimSpace(norm.NFC.String(s))))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

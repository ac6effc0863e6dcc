package dedup

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/autoshop/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func janeOilChange() model.ImportRecord {
	return model.ImportRecord{
		CustomerName:   "Jane Doe",
		VehicleDetails: "Red Honda Civic",
		ServiceName:    "Oil Change",
		OriginalPrice:  dec("50"),
		FinalPrice:     dec("50"),
		PaymentMethod:  model.PaymentCash,
		ServiceDate:    "2024-01-15T00:00:00Z",
	}
}

func TestSignature_Format(t *testing.T) {
	assert.Equal(t,
		"jane doe|red honda civic|oil change|50.00|50.00|0.00|0.00|cash|2024-01-15T00:00:00Z",
		Signature(janeOilChange()))
}

func TestSignature_SeparatorInsideFields(t *testing.T) {
	a := janeOilChange()
	a.CustomerName, a.VehicleDetails = "A|B", "C"
	b := janeOilChange()
	b.CustomerName, b.VehicleDetails = "A", "B|C"
	assert.NotEqual(t, Signature(a), Signature(b))
	assert.True(t, strings.HasPrefix(Signature(a), `a\|b|c|`))

	c := janeOilChange()
	c.CustomerName, c.VehicleDetails = `A\`, "|B"
	d := janeOilChange()
	d.CustomerName, d.VehicleDetails = "A", `\|B`
	assert.NotEqual(t, Signature(c), Signature(d))
}

func TestSignature_IgnoresNonKeyFields(t *testing.T) {
	a := janeOilChange()
	b := janeOilChange()
	b.Line = 99
	b.Email = "jane@example.com"
	b.Notes = "called ahead"
	b.SpecialsName = "Spring"
	assert.Equal(t, Signature(a), Signature(b))
}

func TestSignature_DateForms(t *testing.T) {
	a := janeOilChange()
	b := janeOilChange()
	b.ServiceDate = "2024-01-15T00:00:00.000Z"
	assert.Equal(t, Signature(a), Signature(b), "milliseconds are dropped")

	c := janeOilChange()
	c.ServiceDate = ""
	assert.True(t, strings.HasSuffix(Signature(c), "|cash|"))
}

func TestSignature_Sensitivity(t *testing.T) {
	base := Signature(janeOilChange())
	mutations := map[string]func(*model.ImportRecord){
		"customerName":    func(r *model.ImportRecord) { r.CustomerName = "John Doe" },
		"vehicleDetails":  func(r *model.ImportRecord) { r.VehicleDetails = "Blue Honda Civic" },
		"serviceName":     func(r *model.ImportRecord) { r.ServiceName = "Tire Rotation" },
		"originalPrice":   func(r *model.ImportRecord) { r.OriginalPrice = dec("50.01") },
		"finalPrice":      func(r *model.ImportRecord) { r.FinalPrice = dec("45") },
		"discountPercent": func(r *model.ImportRecord) { r.DiscountPercent = dec("10") },
		"discountAmount":  func(r *model.ImportRecord) { r.DiscountAmount = dec("5") },
		"paymentMethod":   func(r *model.ImportRecord) { r.PaymentMethod = model.PaymentMobile },
		"serviceDate":     func(r *model.ImportRecord) { r.ServiceDate = "2024-01-16T00:00:00Z" },
	}
	for field, mutate := range mutations {
		rec := janeOilChange()
		mutate(&rec)
		assert.NotEqual(t, base, Signature(rec), "changing %s must change the signature", field)
	}
}

func TestSignature_CaseAndWhitespace(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Each generated word is padded and re-cased; the signature must not move.
	properties.Property("signature ignores case and surrounding whitespace", prop.ForAll(
		func(name, vehicle, service string, cents int64, upper bool, pad string) bool {
			price := decimal.New(cents, -2)
			a := model.ImportRecord{
				CustomerName:   name,
				VehicleDetails: vehicle,
				ServiceName:    service,
				OriginalPrice:  price,
				FinalPrice:     price,
				PaymentMethod:  model.PaymentMobile,
			}
			b := a
			recase := strings.ToLower
			if upper {
				recase = strings.ToUpper
			}
			b.CustomerName = pad + recase(name) + pad
			b.VehicleDetails = recase(vehicle) + pad
			b.ServiceName = pad + recase(service)
			return Signature(a) == Signature(b)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Int64Range(1, 1_000_000),
		gen.Bool(),
		gen.OneConstOf("", " ", "  ", "\t"),
	))

	properties.TestingRun(t)
}

func TestSignature_UnicodeNormalization(t *testing.T) {
	composed := janeOilChange()
	composed.CustomerName = "Jos\u00e9 Pe\u00f1a"
	decomposed := janeOilChange()
	decomposed.CustomerName = "Jose\u0301 Pen\u0303a"
	assert.Equal(t, Signature(composed), Signature(decomposed))
}

func TestRemoteSignature_MatchesLocal(t *testing.T) {
	local := janeOilChange()
	remote := model.RemoteTransaction{
		ID:            "tx-1",
		CustomerID:    "c-1",
		ServiceName:   "oil change ",
		OriginalPrice: dec("50.00"),
		FinalPrice:    dec("50"),
		PaymentMethod: "cash",
		ServiceDate:   "2024-01-15T00:00:00.000Z",
	}
	assert.Equal(t, Signature(local), RemoteSignature(remote, "Jane Doe", "Red Honda Civic"))

	remote.CustomerName = "Someone Else"
	assert.NotEqual(t, Signature(local), RemoteSignature(remote, "Jane Doe", "Red Honda Civic"),
		"the record's own name wins over the fallback")
}
